package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.viam.com/utils"

	"github.com/viam-modules/resistive-touch/components/input"
	"github.com/viam-modules/resistive-touch/components/input/resistivetouch"
	"github.com/viam-modules/resistive-touch/config"
	"github.com/viam-modules/resistive-touch/logging"
	"github.com/viam-modules/resistive-touch/touch"
)

// RunAction polls the panel and prints every tap until interrupted. Calibration, orientation and
// log level changes in the config file are applied without a restart.
func RunAction(c *cli.Context) error {
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

	ctrl, err := resistivetouch.NewController(p.engine, conf.Controller(), logger.Sublogger("input"))
	if err != nil {
		return err
	}
	defer utils.UncheckedErrorFunc(func() error { return ctrl.Close(context.Background()) })

	if err := ctrl.RegisterControlCallback(ctx, input.ButtonTouch, []input.EventType{input.ButtonPress},
		func(ctx context.Context, ev input.Event) {
			printTap(ctx, c.App.Writer, ctrl, logger)
		}); err != nil {
		return err
	}

	if !c.Bool(flagNoWatch) {
		r := &reloader{current: *conf, ctrl: ctrl, logger: logger}
		watcher, err := config.NewWatcher(conf.ConfigFilePath, config.DefaultWatchDelay, logger, func(next *config.Config) {
			r.apply(ctx, next)
		})
		if err != nil {
			return err
		}
		defer utils.UncheckedErrorFunc(watcher.Close)
	}

	logger.CInfow(ctx, "touchd running", "config", conf.ConfigFilePath, "simulate", c.Bool(flagSimulate))
	<-ctx.Done()
	logger.Infow("touchd stopping")
	return nil
}

func printTap(ctx context.Context, w io.Writer, ctrl input.Controller, logger logging.Logger) {
	events, err := ctrl.Events(ctx)
	if err != nil {
		logger.CWarnw(ctx, "reading tap position", "error", err)
		return
	}
	x, y, z := events[input.AbsoluteX].Value, events[input.AbsoluteY].Value, events[input.AbsolutePressure].Value
	fmt.Fprintf(w, "tap at (%.0f, %.0f) pressure %.0f\n", x, y, z)
	logger.CDebugw(ctx, "tap", "x", x, "y", y, "pressure", z)
}

type reconfigurer interface {
	Reconfigure(ctx context.Context, cal touch.Calibration, o touch.Orientation) error
}

// reloader applies config file changes to a running controller.
type reloader struct {
	mu      sync.Mutex
	current config.Config
	ctrl    reconfigurer
	logger  logging.Logger
}

func (r *reloader) apply(ctx context.Context, next *config.Config) {
	r.mu.Lock()
	defer r.mu.Unlock()

	diff := config.DiffConfigs(r.current, *next)
	if diff.Equal() {
		r.logger.CDebugw(ctx, "config file changed but nothing to apply")
		return
	}
	r.logger.CDebugw(ctx, "applying config change", "diff", diff.PrettyDiff)

	if !diff.LogEqual {
		next.Log.Apply(r.logger)
		r.current.Log = next.Log
	}
	if !diff.TouchEqual {
		if err := r.ctrl.Reconfigure(ctx, next.Calibration, next.Orientation); err != nil {
			r.logger.CWarnw(ctx, "keeping previous calibration", "error", err)
		} else {
			r.current.Calibration = next.Calibration
			r.current.Orientation = next.Orientation
		}
	}
	r.current.SampleInterval = next.SampleInterval
	if diff.NeedsRestart() {
		r.logger.CWarnw(ctx, "restart touchd to apply board, panel or poll rate changes")
	}
}
