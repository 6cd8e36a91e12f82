// Package config resolves settings from flags, environment and an optional
// .env file.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces the environment variables read by the CLI.
const EnvPrefix = "GAME_BACKLOG"

// Config wraps a viper instance with typed getters.
type Config struct{ v *viper.Viper }

// New loads .env (if present) and binds the environment.
func New() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env", "err", err)
	}

	vv := viper.New()
	vv.SetEnvPrefix(EnvPrefix)
	vv.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	vv.AutomaticEnv()

	// Unprefixed names are accepted for compatibility with existing server deployments.
	vv.BindEnv("twitch_client_id", EnvPrefix+"_TWITCH_CLIENT_ID", "TWITCH_CLIENT_ID")
	vv.BindEnv("twitch_client_secret", EnvPrefix+"_TWITCH_CLIENT_SECRET", "TWITCH_CLIENT_SECRET")
	vv.BindEnv("port", EnvPrefix+"_PORT", "PORT")
	vv.BindEnv("log_level", EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL")

	vv.SetDefault("cover_url", "http://localhost:3000")
	vv.SetDefault("placeholder", "/img/placeholder.svg")
	vv.SetDefault("port", "3000")
	vv.SetDefault("igdb_rate", 4.0)
	return &Config{v: vv}
}

// BindFlags lets command flags take precedence over the environment.
// Flag names use dashes; keys use underscores.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		c.v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
}

// GetDBPath returns the SQLite path; defaults to ~/.game-backlog/backlog.db.
func (c *Config) GetDBPath() string {
	if p := c.v.GetString("db"); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".game-backlog", "backlog.db")
}

// GetCoverURL returns the base URL of the cover lookup endpoint. Empty disables lookups.
func (c *Config) GetCoverURL() string { return c.v.GetString("cover_url") }

func (c *Config) GetPlaceholder() string { return c.v.GetString("placeholder") }

// GetAddr returns the listen address of the proxy server.
func (c *Config) GetAddr() string {
	host := c.v.GetString("host")
	return host + ":" + c.v.GetString("port")
}

// GetAllowedOrigins returns the CORS origins; empty means any origin.
func (c *Config) GetAllowedOrigins() []string {
	var out []string
	for _, o := range c.v.GetStringSlice("allowed_origins") {
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// GetIGDBRate returns the IGDB request budget in requests per second.
func (c *Config) GetIGDBRate() float64 { return c.v.GetFloat64("igdb_rate") }

func (c *Config) GetTwitchClientID() string     { return c.v.GetString("twitch_client_id") }
func (c *Config) GetTwitchClientSecret() string { return c.v.GetString("twitch_client_secret") }

// GetLogLevel maps log_level to a slog.Level.
// Recognized values: debug, info (default), warn|warning, error.
func (c *Config) GetLogLevel() slog.Level {
	switch strings.ToLower(c.v.GetString("log_level")) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
