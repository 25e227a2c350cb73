package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"github.com/viam-modules/resistive-touch/touch"
)

// SelfTestAction checks the calibration from the config, or the default one when no config is
// given. It never reads the panel.
func SelfTestAction(c *cli.Context) error {
	cal := touch.DefaultCalibration()
	if c.Path(flagConfig) != "" {
		conf, err := loadConfig(c)
		if err != nil {
			return err
		}
		cal = conf.Calibration
	}

	w := c.App.Writer
	results := touch.SelfTest(cal)
	fmt.Fprintln(w, cal)
	fmt.Fprintln(w, selfTestTable(results))

	failed := lo.CountBy(results, func(r touch.SelfTestResult) bool { return !r.Passed })
	if failed > 0 {
		return errors.Errorf("%d of %d self test checks failed", failed, len(results))
	}
	fmt.Fprintf(w, "all %d checks passed\n", len(results))
	return nil
}

func selfTestTable(results []touch.SelfTestResult) string {
	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed, color.Bold).SprintFunc()

	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Orientation", "Point", "Given", "Expected", "Got", "Result"})
	for i, r := range results {
		got := r.Actual.String()
		if r.Err != nil {
			got = r.Err.Error()
		}
		result := pass("PASS")
		if !r.Passed {
			result = fail("FAIL")
		}
		t.AppendRow(table.Row{i + 1, r.Orientation.String(), r.Description, r.Raw.String(), r.Expected.String(), got, result})
	}
	return t.Render()
}
