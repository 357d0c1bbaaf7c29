package logutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

var defaultRedactKeys = []string{"token", "bot_token", "api_key", "authorization"}

type loggerConfig struct {
	Level      string
	Format     string
	AddSource  bool
	RedactKeys []string
}

func LoggerFromViper() (*slog.Logger, error) {
	logCfg := loggerConfig{
		Level:      viper.GetString("logging.level"),
		Format:     viper.GetString("logging.format"),
		AddSource:  viper.GetBool("logging.add_source"),
		RedactKeys: defaultRedactKeys,
	}
	if !viper.IsSet("logging.level") && viper.GetBool("trace") {
		logCfg.Level = "debug"
	}
	if viper.IsSet("logging.redact_keys") {
		if keys := viper.GetStringSlice("logging.redact_keys"); len(keys) > 0 {
			logCfg.RedactKeys = keys
		}
	}
	return newLoggerFromConfig(logCfg, os.Stderr)
}

func newLoggerFromConfig(cfg loggerConfig, w io.Writer) (*slog.Logger, error) {
	level, err := parseSlogLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level:       level,
		AddSource:   cfg.AddSource,
		ReplaceAttr: redactAttr(cfg.RedactKeys),
	}

	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown logging.format: %s", cfg.Format)
	}

	return slog.New(h), nil
}

// redactAttr masks attribute values whose key matches one of keys,
// case-insensitively.
func redactAttr(keys []string) func([]string, slog.Attr) slog.Attr {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			set[k] = true
		}
	}
	if len(set) == 0 {
		return nil
	}
	return func(_ []string, a slog.Attr) slog.Attr {
		if set[strings.ToLower(a.Key)] {
			return slog.String(a.Key, "[redacted]")
		}
		return a
	}
}

func parseSlogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown logging.level: %s", s)
	}
}
