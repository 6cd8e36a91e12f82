package config

import (
	"log/slog"
	"os"
)

// SetupLog installs the default slog logger at the configured level.
func SetupLog(cfg *Config) {
	var lv slog.LevelVar
	lv.Set(cfg.GetLogLevel())
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &lv})))
}
