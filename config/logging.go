package config

import (
	"github.com/viam-modules/resistive-touch/logging"
)

// NewLogger builds a logger writing to stdout and, when File is set, to a rotated log file. The
// returned function closes the file.
func (lc LogConfig) NewLogger(name string) (logging.Logger, func() error) {
	logger := logging.NewLogger(name)
	lc.Apply(logger)
	if lc.File == "" {
		return logger, func() error { return nil }
	}
	appender := logging.NewFileAppender(lc.File, lc.MaxSizeMB, lc.MaxBackups)
	logger.AddAppender(appender)
	return logger, appender.Close
}

// Apply sets the level of logger and of zap loggers derived from the global level.
func (lc LogConfig) Apply(logger logging.Logger) {
	logger.SetLevel(lc.Level)
	logging.GlobalLogLevel.SetLevel(lc.Level.AsZap())
}
