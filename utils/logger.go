package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  = logrus.New()
	ErrorLogger = logrus.New()
)

// InitLogger configures the shared loggers. Safe to skip in tests; the
// loggers work with logrus defaults until it runs.
func InitLogger() {
	InfoLogger.SetOutput(os.Stdout)
	InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	InfoLogger.SetLevel(logrus.InfoLevel)

	ErrorLogger.SetOutput(os.Stderr)
	ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	ErrorLogger.SetLevel(logrus.ErrorLevel)
}

// SecurityEvent logs a security-relevant failure (e.g. webhook signature
// mismatch) through the error logger with a tag log pipelines can filter on.
func SecurityEvent(format string, args ...interface{}) {
	ErrorLogger.WithField("event", "security").Errorf(format, args...)
}
