package logutil

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestParseSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		" debug ": slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := parseSlogLevel(in)
		if err != nil {
			t.Fatalf("parseSlogLevel(%q) error = %v", in, err)
		}
		if got != want {
			t.Fatalf("parseSlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := parseSlogLevel("loud"); err == nil {
		t.Fatalf("parseSlogLevel(loud) error = nil")
	}
}

func TestNewLoggerFromConfigJSONRedacts(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLoggerFromConfig(loggerConfig{Format: "json", RedactKeys: defaultRedactKeys}, &buf)
	if err != nil {
		t.Fatalf("newLoggerFromConfig() error = %v", err)
	}
	logger.Info("telegram_start", "bot_token", "123:abc", "chat_id", 7)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line error = %v (%s)", err, buf.String())
	}
	if line["msg"] != "telegram_start" {
		t.Fatalf("msg = %v", line["msg"])
	}
	if line["bot_token"] != "[redacted]" {
		t.Fatalf("bot_token = %v, want [redacted]", line["bot_token"])
	}
	if line["chat_id"] != float64(7) {
		t.Fatalf("chat_id = %v, want 7", line["chat_id"])
	}
}

func TestNewLoggerFromConfigRejectsUnknownFormat(t *testing.T) {
	if _, err := newLoggerFromConfig(loggerConfig{Format: "xml"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("newLoggerFromConfig(xml) error = nil")
	}
}

func TestLoggerFromViperTraceEnablesDebug(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("trace", true)

	logger, err := LoggerFromViper()
	if err != nil {
		t.Fatalf("LoggerFromViper() error = %v", err)
	}
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatalf("debug level not enabled with trace")
	}
}

func TestNewLoggerFromConfigTextLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLoggerFromConfig(loggerConfig{Level: "warn"}, &buf)
	if err != nil {
		t.Fatalf("newLoggerFromConfig() error = %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("output = %q", buf.String())
	}
}
