package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/urfave/cli/v2"
	"go.viam.com/utils"

	"github.com/viam-modules/resistive-touch/config"
	"github.com/viam-modules/resistive-touch/logging"
	"github.com/viam-modules/resistive-touch/touch"
	rutils "github.com/viam-modules/resistive-touch/utils"
)

// SampleAction prints raw readings at a fixed interval and summarizes each axis once done.
func SampleAction(c *cli.Context) error {
	conf, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, closeLog := newLogger(c, conf)
	defer utils.UncheckedErrorFunc(closeLog)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

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
	pressure := rutils.NewRollingAverage(c.Int(flagWindow))
	var samples []touch.RawResistance
	err = sampleEvery(ctx, clock.New(), sampleInterval(c, conf), c.Int(flagCount), p.engine,
		func(raw touch.RawResistance) {
			pressure.Add(raw.Z)
			samples = append(samples, raw)
			fmt.Fprintf(w, "%s\tpressure avg %d\n", raw, pressure.Average())
		})
	if err != nil && ctx.Err() == nil {
		return err
	}
	writeSummary(w, logger, samples)
	return nil
}

func sampleInterval(c *cli.Context, conf *config.Config) time.Duration {
	if interval := c.Duration(flagInterval); interval > 0 {
		return interval
	}
	if conf.SampleInterval > 0 {
		return conf.SampleInterval
	}
	return config.DefaultSampleInterval
}

// sampleEvery reads count samples, or until ctx is done when count is 0, waiting interval between
// them. It stops at the first acquisition error.
func sampleEvery(
	ctx context.Context,
	clk clock.Clock,
	interval time.Duration,
	count int,
	engine *touch.Engine,
	fn func(touch.RawResistance),
) error {
	ticker := clk.Ticker(interval)
	defer ticker.Stop()
	for i := 0; count <= 0 || i < count; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
		raw, err := engine.Sample(ctx)
		if err != nil {
			return err
		}
		fn(raw)
	}
	return nil
}

// summarize renders a table of the spread of each axis.
func summarize(samples []touch.RawResistance) string {
	var xs, ys, zs []int
	for _, s := range samples {
		xs = append(xs, s.X)
		ys = append(ys, s.Y)
		zs = append(zs, s.Z)
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Axis", "Min", "Max", "Mean", "Median", "Std Dev"})
	for _, axis := range []struct {
		name   string
		values []int
	}{
		{"x", xs},
		{"y", ys},
		{"pressure", zs},
	} {
		data := stats.LoadRawData(axis.values)
		low, _ := data.Min()
		high, _ := data.Max()
		mean, _ := data.Mean()
		median, _ := data.Median()
		sd, _ := data.StandardDeviation()
		t.AppendRow(table.Row{
			axis.name,
			fmt.Sprintf("%.0f", low),
			fmt.Sprintf("%.0f", high),
			fmt.Sprintf("%.1f", mean),
			fmt.Sprintf("%.1f", median),
			fmt.Sprintf("%.2f", sd),
		})
	}
	t.AppendFooter(table.Row{"samples", len(samples)})
	return t.Render()
}

func writeSummary(w io.Writer, logger logging.Logger, samples []touch.RawResistance) {
	if len(samples) == 0 {
		logger.Warnw("no readings to summarize")
		return
	}
	fmt.Fprintln(w, summarize(samples))
}
