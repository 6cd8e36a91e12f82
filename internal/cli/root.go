// Package cli implements the game-backlog CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/game-backlog/internal/config"
	"github.com/rcliao/game-backlog/internal/cover"
	"github.com/rcliao/game-backlog/internal/model"
	"github.com/rcliao/game-backlog/internal/storage"
	"github.com/rcliao/game-backlog/internal/store"
)

var cfg = config.New()

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "game-backlog",
	Short: "Track your video game collection",
	Long:  "Track games through Backlog, Currently Playing, Played and Favorites. SQLite-backed, covers from IGDB.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg.BindFlags(cmd.InheritedFlags())
		cfg.BindFlags(cmd.PersistentFlags())
		config.SetupLog(cfg)
	},
}

func init() {
	RootCmd.PersistentFlags().StringP("db", "d", "", "Database path (default: $GAME_BACKLOG_DB or ~/.game-backlog/backlog.db)")
	RootCmd.PersistentFlags().String("cover-url", "", "Cover lookup server base URL (default: http://localhost:3000)")
	RootCmd.PersistentFlags().String("placeholder", "", "Image used when no cover is found")
	RootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

// session is a Store plus the slot it must close.
type session struct {
	*store.Store
	slot   *storage.SQLiteSlot
	dbPath string
}

func (s *session) Close() error { return s.slot.Close() }

func openStore(ctx context.Context) (*session, error) {
	dbPath := cfg.GetDBPath()
	slot, err := storage.NewSQLiteSlot(dbPath)
	if err != nil {
		return nil, err
	}

	opts := []store.Option{
		store.WithPlaceholder(cfg.GetPlaceholder()),
		store.WithNotifier(store.NotifierFunc(func(msg string) {
			fmt.Fprintln(os.Stderr, msg)
		})),
	}
	if u := cfg.GetCoverURL(); u != "" {
		opts = append(opts, store.WithResolver(cover.NewClient(u)))
	}
	return &session{Store: store.New(ctx, slot, opts...), slot: slot, dbPath: dbPath}, nil
}

// parseStatus validates a status flag value, accepting short aliases.
func parseStatus(s string) (model.Status, error) {
	st := model.ParseStatus(s)
	if !model.IsValidStatus(st) {
		return "", fmt.Errorf("invalid status %q (valid: backlog, playing, played, favorites)", s)
	}
	return st, nil
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

// exitErr prints err and exits. Validation messages were already delivered
// by the store's notifier.
func exitErr(msg string, err error) {
	var ve *store.ValidationError
	if !errors.As(err, &ve) {
		fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	}
	os.Exit(1)
}
