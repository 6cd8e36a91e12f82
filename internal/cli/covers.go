package cli

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const coverRefreshWorkers = 4

func init() {
	coversCmd := &cobra.Command{
		Use:   "covers",
		Short: "Manage cover images",
	}

	refreshCmd := &cobra.Command{
		Use:   "refresh [id...]",
		Short: "Look up covers again",
		Long:  "Look up covers again. With no ids, only games showing the placeholder are retried; --all retries every game.",
		Run:   runCoversRefresh,
	}
	refreshCmd.Flags().Bool("all", false, "Refresh every game, not just placeholders")

	coversCmd.AddCommand(refreshCmd)
	RootCmd.AddCommand(coversCmd)
}

func runCoversRefresh(cmd *cobra.Command, args []string) {
	all, _ := cmd.Flags().GetBool("all")

	if cfg.GetCoverURL() == "" {
		exitErr("covers refresh", fmt.Errorf("no cover lookup server configured (set --cover-url)"))
	}

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	ids := args
	if len(ids) == 0 {
		placeholder := cfg.GetPlaceholder()
		for _, g := range s.List() {
			if all || g.ImageURL == placeholder {
				ids = append(ids, g.ID)
			}
		}
	}

	var updated atomic.Int64
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(coverRefreshWorkers)
	for _, id := range ids {
		g.Go(func() error {
			ok, err := s.RefreshCover(ctx, id)
			if err != nil {
				return fmt.Errorf("refresh %s: %w", id, err)
			}
			if ok {
				updated.Add(1)
				slog.Debug("cover refreshed", "id", id)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		exitErr("covers refresh", err)
	}

	fmt.Printf(`{"ok":true,"checked":%d,"updated":%d}`+"\n", len(ids), updated.Load())
}
