package config

import (
	"log/slog"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
	c := New()
	if c.GetCoverURL() != "http://localhost:3000" {
		t.Errorf("unexpected cover url %q", c.GetCoverURL())
	}
	if c.GetPlaceholder() != "/img/placeholder.svg" {
		t.Errorf("unexpected placeholder %q", c.GetPlaceholder())
	}
	if c.GetIGDBRate() != 4 {
		t.Errorf("unexpected rate %v", c.GetIGDBRate())
	}
	if !strings.HasSuffix(c.GetDBPath(), filepath.Join(".game-backlog", "backlog.db")) {
		t.Errorf("unexpected db path %q", c.GetDBPath())
	}
	if c.GetLogLevel() != slog.LevelInfo {
		t.Errorf("expected info level, got %v", c.GetLogLevel())
	}
}

func TestEnvironment(t *testing.T) {
	t.Setenv("GAME_BACKLOG_DB", "/tmp/x.db")
	t.Setenv("TWITCH_CLIENT_ID", "cid")
	t.Setenv("GAME_BACKLOG_TWITCH_CLIENT_SECRET", "secret")
	t.Setenv("PORT", "8081")
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("GAME_BACKLOG_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	c := New()
	if c.GetDBPath() != "/tmp/x.db" {
		t.Errorf("unexpected db path %q", c.GetDBPath())
	}
	if c.GetTwitchClientID() != "cid" || c.GetTwitchClientSecret() != "secret" {
		t.Errorf("credentials not read: %q %q", c.GetTwitchClientID(), c.GetTwitchClientSecret())
	}
	if c.GetAddr() != ":8081" {
		t.Errorf("unexpected addr %q", c.GetAddr())
	}
	if c.GetLogLevel() != slog.LevelWarn {
		t.Errorf("expected warn, got %v", c.GetLogLevel())
	}
	if got := c.GetAllowedOrigins(); !reflect.DeepEqual(got, []string{"http://a.test", "http://b.test"}) {
		t.Errorf("unexpected origins %v", got)
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("GAME_BACKLOG_COVER_URL", "http://env.test")
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("cover-url", "", "")
	fs.String("db", "", "")
	if err := fs.Parse([]string{"--cover-url", "http://flag.test"}); err != nil {
		t.Fatal(err)
	}

	c := New()
	c.BindFlags(fs)
	if c.GetCoverURL() != "http://flag.test" {
		t.Errorf("expected flag value, got %q", c.GetCoverURL())
	}
}
