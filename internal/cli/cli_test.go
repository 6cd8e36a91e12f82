package cli

import (
	"testing"

	"github.com/rcliao/game-backlog/internal/model"
)

func TestParseStatus(t *testing.T) {
	cases := map[string]model.Status{
		"backlog":           model.StatusBacklog,
		"playing":           model.StatusCurrentlyPlaying,
		"Currently Playing": model.StatusCurrentlyPlaying,
		"played":            model.StatusPlayed,
		"favorites":         model.StatusFavorites,
	}
	for in, want := range cases {
		got, err := parseStatus(in)
		if err != nil {
			t.Fatalf("parseStatus(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("parseStatus(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := parseStatus("Wishlist"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, path := range [][]string{
		{"add"}, {"edit"}, {"rm"}, {"get"}, {"list"}, {"search"}, {"view"},
		{"stats"}, {"export"}, {"import"}, {"serve"}, {"covers", "refresh"},
	} {
		cmd, _, err := RootCmd.Find(path)
		if err != nil {
			t.Fatalf("find %v: %v", path, err)
		}
		if cmd.Name() != path[len(path)-1] {
			t.Errorf("find %v resolved to %q", path, cmd.Name())
		}
	}
}
