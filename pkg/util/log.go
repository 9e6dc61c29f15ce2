package util

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is shared by the CLI, the server and every console agent. It writes
// to stderr so "gnsconf watch --plain" and "gnsconf plan" keep stdout clean.
var Logger = logrus.New()

func init() {
	Logger.SetOutput(os.Stderr)
	Logger.SetLevel(logrus.InfoLevel)
	Logger.SetFormatter(textFormatter())
}

func textFormatter() logrus.Formatter {
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	}
}

// ConfigureLogging applies the log_level and log_format settings. The root
// command resolves -v to "debug" before calling it. Any format other than
// "json" selects the text formatter.
func ConfigureLogging(level, format string) error {
	if err := SetLogLevel(level); err != nil {
		return err
	}
	if format == "json" {
		SetJSONFormat()
	} else {
		Logger.SetFormatter(textFormatter())
	}
	return nil
}

// SetLogLevel parses a logrus level name ("debug", "info", "warn", ...).
func SetLogLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	Logger.SetLevel(lvl)
	return nil
}

// SetLogOutput redirects log output; tests point it at a buffer.
func SetLogOutput(w io.Writer) {
	Logger.SetOutput(w)
}

// SetJSONFormat switches to one JSON object per line (log_format: json).
func SetJSONFormat() {
	Logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})
}

func WithField(key string, value interface{}) *logrus.Entry {
	return Logger.WithField(key, value)
}

func WithFields(fields map[string]interface{}) *logrus.Entry {
	return Logger.WithFields(fields)
}

// WithTarget tags an entry with the GNS3 console a command sequence is
// sent to.
func WithTarget(host, port string) *logrus.Entry {
	return Logger.WithFields(logrus.Fields{"host": host, "port": port})
}

// WithDispatch tags an entry with the configuration operation being applied
// (e.g. "static-route") and its console target.
func WithDispatch(operation, host, port string) *logrus.Entry {
	return WithTarget(host, port).WithField("operation", operation)
}

func Warnf(format string, args ...interface{}) {
	Logger.Warnf(format, args...)
}
