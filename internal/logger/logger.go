// Package logger provides the process-wide structured logger for clog.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log *logrus.Logger

// Options configures the logger. Empty fields fall back to CLOG_LOG_LEVEL,
// CLOG_LOG_FORMAT and stderr.
type Options struct {
	Level   string
	Format  string
	Output  io.Writer
	Verbose bool // forces debug level
}

// Init initializes the logger with proper configuration
func Init(opts Options) {
	log = logrus.New()

	output := opts.Output
	if output == nil {
		output = os.Stderr
	}
	log.SetOutput(output)

	level := opts.Level
	if level == "" {
		level = os.Getenv("CLOG_LOG_LEVEL")
	}
	log.SetLevel(parseLevel(level))
	if opts.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	format := opts.Format
	if format == "" {
		format = os.Getenv("CLOG_LOG_FORMAT")
	}
	if strings.EqualFold(format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
	}
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.WarnLevel
	}
}

// GetLogger returns the configured logger instance
func GetLogger() *logrus.Logger {
	if log == nil {
		Init(Options{})
	}
	return log
}

// WithField adds a field to the logger
func WithField(key string, value interface{}) *logrus.Entry {
	return GetLogger().WithField(key, value)
}

// WithFields adds multiple fields to the logger
func WithFields(fields logrus.Fields) *logrus.Entry {
	return GetLogger().WithFields(fields)
}

// Debugf logs a formatted debug message
func Debugf(format string, args ...interface{}) {
	GetLogger().Debugf(format, args...)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	GetLogger().Warnf(format, args...)
}
