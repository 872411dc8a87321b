package slogx

import (
	"log/slog"
	"os"
	"strings"
)

// Config names the service identity fields stamped on every log record.
type Config struct {
	Service string
	Version string
	Env     string // "dev" additionally enables source locations
	Level   string // "debug", "info", "warn", "error"
	Format  string // "json" (default) or "text"
}

// New builds the service logger: JSON unless text is asked for, with the
// service identity attached to every record. The logger is also installed
// as slog's default so stray slog.Info calls land in the same stream.
func New(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     levelFrom(cfg.Level),
		AddSource: cfg.Env == "dev",
	}

	var h slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With(
		slog.String("service", cfg.Service),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	slog.SetDefault(logger)
	return logger
}

// levelFrom parses the configured level, falling back to info on anything
// slog does not recognize.
func levelFrom(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
