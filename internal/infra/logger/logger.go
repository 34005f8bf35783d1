// Package logger configures the process-wide logrus logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"student_dropout_map/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// Log is shared by every component; Init must run before the first request.
var Log = logrus.New()

const serviceName = "student-dropout-map"

// Init writes to stdout with the configured level, falling back to info.
func Init(cfg *config.AppConfig) {
	if err := Configure(Log, os.Stdout, cfg.LogLevel, cfg.Environment); err != nil {
		Log.WithError(err).Warn("Falling back to info log level")
	}
	Log.WithFields(logrus.Fields{
		"level":       Log.GetLevel().String(),
		"environment": cfg.Environment,
	}).Debug("Logger configured")
}

// Configure sets output, level and formatter on l. Deployed environments log
// JSON with message/timestamp keys; everything else gets colored text.
func Configure(l *logrus.Logger, w io.Writer, level, environment string) error {
	l.SetOutput(w)

	var err error
	parsed, parseErr := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if parseErr != nil {
		parsed = logrus.InfoLevel
		err = fmt.Errorf("invalid log level %q: %w", level, parseErr)
	}
	l.SetLevel(parsed)

	switch strings.ToLower(environment) {
	case "production", "staging":
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyMsg:  "message",
				logrus.FieldKeyTime: "timestamp",
			},
		})
	default:
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000",
		})
	}
	return err
}

// Component returns an entry tagged with the service and component names.
func Component(name string) *logrus.Entry {
	return Log.WithFields(logrus.Fields{
		"service":   serviceName,
		"component": name,
	})
}
