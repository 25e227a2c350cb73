package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"go.viam.com/utils"

	"github.com/viam-modules/resistive-touch/touch"
	rutils "github.com/viam-modules/resistive-touch/utils"
)

const (
	defaultCalibrateDuration = 20 * time.Second
	minCalibrationSamples    = 20

	// Readings outside these percentiles are treated as noise.
	calibrationLowPercentile  = 2
	calibrationHighPercentile = 98
)

// CalibrateAction collects readings while the user traces the panel's edges and prints a
// calibration block with the resistance ranges it saw. Pressure thresholds and screen size are
// kept from the config.
func CalibrateAction(c *cli.Context) error {
	conf, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, closeLog := newLogger(c, conf)
	defer utils.UncheckedErrorFunc(closeLog)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, c.Duration(flagDuration))
	defer cancel()

	p, err := openPanel(c, conf, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Close(context.Background()); err != nil {
			logger.Warnw("closing panel", "error", err)
		}
	}()

	w := c.App.Writer
	fmt.Fprintf(w, "trace the edges of the panel with a stylus for %s\n", c.Duration(flagDuration))

	clk := clock.New()
	stopWaiting := rutils.SlowLogger(ctx, clk, "waiting for a touch", "config", conf.ConfigFilePath, logger)
	var touches []touch.RawResistance
	err = sampleEvery(ctx, clk, sampleInterval(c, conf), 0, p.engine, func(raw touch.RawResistance) {
		if raw.Z <= conf.Calibration.StartPressure {
			return
		}
		if len(touches) == 0 {
			stopWaiting()
		}
		touches = append(touches, raw)
	})
	if len(touches) == 0 {
		stopWaiting()
	}
	if err != nil && ctx.Err() == nil {
		return err
	}

	cal, err := calibrationFromSamples(conf.Calibration, touches)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(struct {
		Calibration touch.Calibration `json:"calibration"`
	}{cal}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(out))

	results := touch.SelfTest(cal)
	passed := lo.CountBy(results, func(r touch.SelfTestResult) bool { return r.Passed })
	fmt.Fprintf(w, "self test: %d of %d checks passed\n", passed, len(results))
	return nil
}

// calibrationFromSamples replaces the resistance ranges of base with the spread of the touched
// readings.
func calibrationFromSamples(base touch.Calibration, touches []touch.RawResistance) (touch.Calibration, error) {
	if len(touches) < minCalibrationSamples {
		return base, errors.Errorf("only %d touched readings were taken; at least %d are needed",
			len(touches), minCalibrationSamples)
	}
	xMin, xMax, err := percentileRange(lo.Map(touches, func(r touch.RawResistance, _ int) int { return r.X }))
	if err != nil {
		return base, errors.Wrap(err, "x readings")
	}
	yMin, yMax, err := percentileRange(lo.Map(touches, func(r touch.RawResistance, _ int) int { return r.Y }))
	if err != nil {
		return base, errors.Wrap(err, "y readings")
	}

	cal := base
	cal.XMinOhms, cal.XMaxOhms = xMin, xMax
	cal.YMinOhms, cal.YMaxOhms = yMin, yMax
	return cal, cal.Validate()
}

func percentileRange(values []int) (int, int, error) {
	data := stats.LoadRawData(values)
	low, err := data.Percentile(calibrationLowPercentile)
	if err != nil {
		return 0, 0, err
	}
	high, err := data.Percentile(calibrationHighPercentile)
	if err != nil {
		return 0, 0, err
	}
	return int(low), int(high), nil
}
