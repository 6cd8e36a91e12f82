package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/game-backlog/internal/query"
)

// Stats is the output of the stats command.
type Stats struct {
	DBPath      string          `json:"db_path"`
	DBSizeBytes int64           `json:"db_size_bytes"`
	Tally       query.Tally     `json:"tally"`
	Series      []int           `json:"status_series"`
	Histogram   query.Histogram `json:"ratings"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show status counts and rating distribution",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	games := s.List()
	tally := query.StatusTally(games)
	printJSON(Stats{
		DBPath:      s.dbPath,
		DBSizeBytes: s.slot.Size(),
		Tally:       tally,
		Series:      tally.Series(),
		Histogram:   query.RatingHistogram(games),
	})
}
