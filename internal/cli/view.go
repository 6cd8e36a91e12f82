package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/game-backlog/internal/model"
	"github.com/rcliao/game-backlog/internal/query"
)

func init() {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Render every section, shelf and chart series as JSON",
		Run:   runView,
	}

	cmd.Flags().StringP("search", "q", "", "Filter section lists by title substring")
	cmd.Flags().Bool("favorites", false, "Only favorites in section lists")
	cmd.Flags().String("sort", "lastAdded", "Sort: lastAdded, lastPlayed, rating, titleAsc, titleDesc")

	RootCmd.AddCommand(cmd)
}

func runView(cmd *cobra.Command, args []string) {
	search, _ := cmd.Flags().GetString("search")
	favorites, _ := cmd.Flags().GetBool("favorites")
	sortStr, _ := cmd.Flags().GetString("sort")

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	printJSON(query.Project(s.List(), model.QuerySpec{
		SearchText:    search,
		FavoritesOnly: favorites,
		SortKey:       model.ParseSortKey(sortStr),
	}))
}
