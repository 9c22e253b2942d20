package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
		expectJSON  bool
	}{
		{name: "debug text", level: "debug", format: "text", expectLevel: logrus.DebugLevel},
		{name: "info json", level: "info", format: "json", expectLevel: logrus.InfoLevel, expectJSON: true},
		{name: "upper case level", level: "WARN", format: "text", expectLevel: logrus.WarnLevel},
		{name: "invalid level falls back to info", level: "loud", format: "text", expectLevel: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogrusAdapterWithOutput(tt.level, tt.format, &buf)
			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok)
			assert.Equal(t, tt.expectLevel, adapter.logger.Level)

			_, isJSON := adapter.logger.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.expectJSON, isJSON)
		})
	}
}

func newBufferedAdapter(level logrus.Level) (Logger, *bytes.Buffer) {
	l := logrus.New()
	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return NewLogrusAdapterFromLogger(l), &buf
}

func TestLogrusAdapter_LevelsAndFields(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(Logger, string, ...Field)
	}{
		{"debug", func(l Logger, m string, f ...Field) { l.Debug(m, f...) }},
		{"info", func(l Logger, m string, f ...Field) { l.Info(m, f...) }},
		{"warn", func(l Logger, m string, f ...Field) { l.Warn(m, f...) }},
		{"error", func(l Logger, m string, f ...Field) { l.Error(m, f...) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferedAdapter(logrus.DebugLevel)
			tt.logFunc(logger, "rows classified", F(FieldCampaign, "cured-list"), F(FieldCount, 12))

			out := buf.String()
			assert.Contains(t, out, "rows classified")
			assert.Contains(t, out, "campaign=cured-list")
			assert.Contains(t, out, "count=12")
		})
	}
}

func TestLogrusAdapter_ChildLoggers(t *testing.T) {
	logger, buf := newBufferedAdapter(logrus.InfoLevel)

	logger.
		WithField(FieldRunID, "run-1").
		WithFields(F(FieldSheet, "Sheet1")).
		WithError(errors.New("boom")).
		Error("export failed")

	out := buf.String()
	assert.Contains(t, out, "export failed")
	assert.Contains(t, out, "run_id=run-1")
	assert.Contains(t, out, "sheet=Sheet1")
	assert.Contains(t, out, "boom")
}

func TestLogrusAdapter_LevelFiltering(t *testing.T) {
	logger, buf := newBufferedAdapter(logrus.WarnLevel)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestConvertFields(t *testing.T) {
	fields := convertFields([]Field{F("a", 1), F("b", "x"), F("a", 2)})
	assert.Len(t, fields, 2)
	assert.Equal(t, 2, fields["a"])
	assert.Equal(t, "x", fields["b"])
	assert.Empty(t, convertFields(nil))
}

func TestLogrusAdapter_ImplementsInterface(t *testing.T) {
	var _ Logger = (*LogrusAdapter)(nil)
	var _ Logger = (*MockLogger)(nil)
}
