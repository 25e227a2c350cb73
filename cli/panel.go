package cli

import (
	"context"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/viam-modules/resistive-touch/components/board"
	"github.com/viam-modules/resistive-touch/components/board/fake"
	"github.com/viam-modules/resistive-touch/components/board/genericlinux"
	"github.com/viam-modules/resistive-touch/config"
	"github.com/viam-modules/resistive-touch/logging"
	"github.com/viam-modules/resistive-touch/touch"
	"github.com/viam-modules/resistive-touch/touch/fourwire"
)

func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.Path(flagConfig)
	if path == "" {
		return nil, errors.Errorf("no config file given; pass --%s", flagConfig)
	}
	return config.Read(path, logging.Global())
}

// newLogger builds the command's logger from the config and makes it the global logger. The
// returned function closes the log file, if any.
func newLogger(c *cli.Context, conf *config.Config) (logging.Logger, func() error) {
	lc := conf.Log
	if c.Bool(flagDebug) {
		lc.Level = logging.DEBUG
	}
	logger, closeLog := lc.NewLogger("touchd")
	logging.ReplaceGlobal(logger)
	return logger, closeLog
}

// panel is a touch engine reading a panel through a board.
type panel struct {
	board  board.Board
	sensor *fourwire.Sensor
	engine *touch.Engine
}

func openPanel(c *cli.Context, conf *config.Config, logger logging.Logger) (*panel, error) {
	var b board.Board
	var err error
	if c.Bool(flagSimulate) {
		b, err = newSimulatedBoard(conf, logger.Sublogger("board"))
	} else {
		b, err = genericlinux.NewBoard(c.Context, &conf.Board, logger.Sublogger("board"))
	}
	if err != nil {
		return nil, err
	}
	sensor, err := fourwire.NewSensor(b, conf.Panel, logger.Sublogger("panel"))
	if err != nil {
		return nil, multierr.Combine(err, b.Close(c.Context))
	}
	engine, err := touch.NewEngine(sensor, conf.Calibration, logger.Sublogger("touch"))
	if err != nil {
		return nil, multierr.Combine(err, b.Close(c.Context))
	}
	return &panel{board: b, sensor: sensor, engine: engine}, nil
}

// Close floats the panel lines and releases the board.
func (p *panel) Close(ctx context.Context) error {
	return multierr.Combine(p.sensor.Release(ctx), p.board.Close(ctx))
}

// newSimulatedBoard returns a fake board with the configured pin names. Every analog input reads
// mid-scale, which the panel reads as a firm press near the center of the screen.
func newSimulatedBoard(conf *config.Config, logger logging.Logger) (*fake.Board, error) {
	b, err := fake.NewBoard(&fake.Config{
		Analogs:  conf.Board.Analogs,
		GPIOPins: conf.Board.GPIOPins,
	}, logger)
	if err != nil {
		return nil, err
	}
	for _, a := range b.Analogs {
		a.Set(fake.DefaultAnalogMax / 2)
	}
	return b, nil
}
