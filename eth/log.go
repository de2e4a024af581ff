package eth

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns the logger used when callers do not supply one.
// A quiet logger discards everything.
func NewLogger(quiet bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetOutput(os.Stderr)
	if quiet {
		logger.SetOutput(io.Discard)
	}
	return logger
}
