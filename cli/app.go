// Package cli contains the touchd command line: running the touch controller, sampling and
// calibrating a panel, and checking a calibration.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	flagConfig   = "config"
	flagDebug    = "debug"
	flagSimulate = "simulate"
	flagNoWatch  = "no-watch"
	flagCount    = "count"
	flagInterval = "interval"
	flagWindow   = "window"
	flagDuration = "duration"
)

var app = &cli.App{
	Name:            "touchd",
	Usage:           "read taps from a 4-wire resistive touch panel",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.PathFlag{
			Name:    flagConfig,
			Aliases: []string{"c"},
			Usage:   "load configuration from `FILE`",
			EnvVars: []string{"TOUCHD_CONFIG"},
		},
		&cli.BoolFlag{
			Name:    flagDebug,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
		&cli.BoolFlag{
			Name:  flagSimulate,
			Usage: "read a simulated panel held at its center instead of the configured hardware",
		},
	},
	Commands: []*cli.Command{
		{
			Name:  "run",
			Usage: "poll the panel and report taps until interrupted",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  flagNoWatch,
					Usage: "do not reload the calibration when the config file changes",
				},
			},
			Action: RunAction,
		},
		{
			Name:  "sample",
			Usage: "print raw panel readings and summarize them",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  flagCount,
					Usage: "number of readings to take, or 0 to read until interrupted",
					Value: 20,
				},
				&cli.DurationFlag{
					Name:  flagInterval,
					Usage: "time between readings (default from the config's sample_interval)",
				},
				&cli.IntFlag{
					Name:  flagWindow,
					Usage: "number of readings in the running pressure average",
					Value: 5,
				},
			},
			Action: SampleAction,
		},
		{
			Name:  "calibrate",
			Usage: "derive the resistance ranges from readings taken while the panel's edges are traced",
			Flags: []cli.Flag{
				&cli.DurationFlag{
					Name:  flagDuration,
					Usage: "how long to collect readings",
					Value: defaultCalibrateDuration,
				},
				&cli.DurationFlag{
					Name:  flagInterval,
					Usage: "time between readings (default from the config's sample_interval)",
				},
			},
			Action: CalibrateAction,
		},
		{
			Name:   "selftest",
			Usage:  "check the calibration maps the panel's corners and center onto the screen's",
			Action: SelfTestAction,
		},
		{
			Name:   "schema",
			Usage:  "print the JSON schema of the config file",
			Action: SchemaAction,
		},
	},
}

// NewApp returns a new app with the CLI command.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
