package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/game-backlog/internal/model"
	"github.com/rcliao/game-backlog/internal/query"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List games",
		Run:   runList,
	}

	cmd.Flags().StringP("search", "q", "", "Filter by title substring")
	cmd.Flags().StringP("status", "s", "", "Filter by status")
	cmd.Flags().Bool("favorites", false, "Only favorites")
	cmd.Flags().String("sort", "lastAdded", "Sort: lastAdded, lastPlayed, rating, titleAsc, titleDesc")
	cmd.Flags().IntP("limit", "l", 0, "Max results (0 = all)")
	cmd.Flags().Bool("titles-only", false, "Only output id and title")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	search, _ := cmd.Flags().GetString("search")
	statusStr, _ := cmd.Flags().GetString("status")
	favorites, _ := cmd.Flags().GetBool("favorites")
	sortStr, _ := cmd.Flags().GetString("sort")
	limit, _ := cmd.Flags().GetInt("limit")
	titlesOnly, _ := cmd.Flags().GetBool("titles-only")

	qs := model.QuerySpec{
		SearchText:    search,
		FavoritesOnly: favorites,
		SortKey:       model.ParseSortKey(sortStr),
	}
	if statusStr != "" {
		st, err := parseStatus(statusStr)
		if err != nil {
			exitErr("list", err)
		}
		qs = qs.Scoped(st)
	}

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	games := query.QueryAndSort(s.List(), qs)
	if limit > 0 && len(games) > limit {
		games = games[:limit]
	}

	if titlesOnly {
		for _, g := range games {
			fmt.Printf("%s\t%s\n", g.ID, g.Title)
		}
		return
	}

	printJSON(games)
}
