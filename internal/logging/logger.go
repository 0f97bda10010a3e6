// Package logging builds the logrus loggers used by the commands.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New creates a logger writing to w. level is parsed with logrus.ParseLevel
// and falls back to info; format "json" selects the JSON formatter, anything
// else the text formatter.
func New(level, format string, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)

	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	return logger
}

// Discard returns a logger that drops everything
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
