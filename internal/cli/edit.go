package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/game-backlog/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Change a game's status or rating",
		Long:  "Change status and/or rating. Titles cannot be edited; remove and re-add instead.",
		Args:  cobra.ExactArgs(1),
		Run:   runEdit,
	}

	cmd.Flags().StringP("status", "s", "", "Status: backlog, playing, played, favorites")
	cmd.Flags().IntP("rating", "r", 0, "Rating 1-5")
	cmd.Flags().Bool("clear-rating", false, "Remove the rating")

	cmd.MarkFlagsMutuallyExclusive("rating", "clear-rating")

	RootCmd.AddCommand(cmd)
}

func runEdit(cmd *cobra.Command, args []string) {
	id := args[0]
	var patch model.Patch

	if cmd.Flags().Changed("status") {
		statusStr, _ := cmd.Flags().GetString("status")
		patch = patch.WithStatus(model.ParseStatus(statusStr))
	}
	if cmd.Flags().Changed("rating") {
		r, _ := cmd.Flags().GetInt("rating")
		patch = patch.WithRating(r)
	}
	if clearRating, _ := cmd.Flags().GetBool("clear-rating"); clearRating {
		patch = patch.WithoutRating()
	}
	if patch.Status == nil && !patch.SetRating {
		exitErr("edit", fmt.Errorf("nothing to change (use --status, --rating or --clear-rating)"))
	}

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.UpdateGame(cmd.Context(), id, patch); err != nil {
		exitErr("edit", err)
	}

	g, ok := s.Get(id)
	if !ok {
		fmt.Fprintf(cmd.OutOrStdout(), `{"ok":false,"id":%q}`+"\n", id)
		return
	}
	printJSON(g)
}
