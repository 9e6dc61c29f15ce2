package util

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

// saveLoggerState saves the current logger state for restoration
func saveLoggerState() (io.Writer, logrus.Level, logrus.Formatter) {
	return Logger.Out, Logger.Level, Logger.Formatter
}

// restoreLoggerState restores the logger to its previous state
func restoreLoggerState(out io.Writer, level logrus.Level, formatter logrus.Formatter) {
	Logger.SetOutput(out)
	Logger.SetLevel(level)
	Logger.SetFormatter(formatter)
}

func TestSetLogLevel(t *testing.T) {
	out, level, formatter := saveLoggerState()
	defer restoreLoggerState(out, level, formatter)

	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"warn", false},
		{"warning", false},
		{"error", false},
		{"invalid", true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			err := SetLogLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("SetLogLevel(%q) error = %v, wantErr %v", tt.level, err, tt.wantErr)
			}
		})
	}
}

func TestWithTarget(t *testing.T) {
	out, level, formatter := saveLoggerState()
	defer restoreLoggerState(out, level, formatter)

	var buf bytes.Buffer
	SetLogOutput(&buf)
	SetLogLevel("info")

	WithTarget("127.0.0.1", "5000").Info("dispatching")

	got := buf.String()
	if !strings.Contains(got, "host=127.0.0.1") {
		t.Errorf("log output missing host field: %s", got)
	}
	if !strings.Contains(got, "port=5000") {
		t.Errorf("log output missing port field: %s", got)
	}
}

func TestSetJSONFormat(t *testing.T) {
	out, level, formatter := saveLoggerState()
	defer restoreLoggerState(out, level, formatter)

	var buf bytes.Buffer
	SetLogOutput(&buf)
	SetLogLevel("info")
	SetJSONFormat()

	WithDispatch("static-route", "127.0.0.1", "5000").Info("planned")

	got := buf.String()
	if !strings.HasPrefix(strings.TrimSpace(got), "{") {
		t.Errorf("expected JSON output, got %s", got)
	}
	if !strings.Contains(got, `"operation":"static-route"`) {
		t.Errorf("JSON output missing operation field: %s", got)
	}
}

func TestConfigureLogging(t *testing.T) {
	out, level, formatter := saveLoggerState()
	defer restoreLoggerState(out, level, formatter)

	var buf bytes.Buffer
	SetLogOutput(&buf)

	if err := ConfigureLogging("debug", "json"); err != nil {
		t.Fatalf("ConfigureLogging() error = %v", err)
	}
	if Logger.Level != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", Logger.Level)
	}
	WithTarget("127.0.0.1", "5001").Debug("connected")
	if got := buf.String(); !strings.Contains(got, `"port":"5001"`) {
		t.Errorf("JSON output missing port field: %s", got)
	}

	buf.Reset()
	if err := ConfigureLogging("warn", ""); err != nil {
		t.Fatalf("ConfigureLogging() error = %v", err)
	}
	WithTarget("127.0.0.1", "5001").Info("hidden")
	WithTarget("127.0.0.1", "5001").Warn("shown")
	got := buf.String()
	if strings.Contains(got, "hidden") || !strings.Contains(got, "port=5001") {
		t.Errorf("text output = %s", got)
	}

	if err := ConfigureLogging("loud", "text"); err == nil {
		t.Error("ConfigureLogging(\"loud\") error = nil, want error")
	}
}
