package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/game-backlog/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a game",
		Long:  "Add a game to the collection. The cover is looked up by title; a placeholder is used when none is found.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runAdd,
	}

	cmd.Flags().StringP("status", "s", "backlog", "Status: backlog, playing, played, favorites")
	cmd.Flags().IntP("rating", "r", 0, "Rating 1-5 (omit for unrated)")

	RootCmd.AddCommand(cmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	statusStr, _ := cmd.Flags().GetString("status")
	title := strings.Join(args, " ")

	var rating *int
	if cmd.Flags().Changed("rating") {
		r, _ := cmd.Flags().GetInt("rating")
		rating = &r
	}

	// Unknown statuses are passed through so the store reports them.
	status := model.ParseStatus(statusStr)

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	g, err := s.AddGame(cmd.Context(), title, status, rating)
	if err != nil {
		exitErr("add", err)
	}

	printJSON(g)
	if g.ImageURL == cfg.GetPlaceholder() {
		fmt.Fprintln(cmd.ErrOrStderr(), "no cover found, using placeholder")
	}
}
