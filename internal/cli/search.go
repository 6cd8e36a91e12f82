package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/game-backlog/internal/model"
	"github.com/rcliao/game-backlog/internal/query"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search games by title",
		Long:  "Case-insensitive title substring search across every section.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().String("sort", "lastAdded", "Sort: lastAdded, lastPlayed, rating, titleAsc, titleDesc")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	sortStr, _ := cmd.Flags().GetString("sort")

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	results := query.QueryAndSort(s.List(), model.QuerySpec{
		SearchText: strings.Join(args, " "),
		SortKey:    model.ParseSortKey(sortStr),
	})

	if len(results) == 0 {
		fmt.Println("[]")
		return
	}
	printJSON(results)
}
