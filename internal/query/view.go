package query

import "github.com/rcliao/game-backlog/internal/model"

// Shelf sizes of the profile summary.
const (
	PlayingShelfSize   = 3
	FavoritesShelfSize = 5
)

// View is everything a render cycle needs, derived from (collection, query).
type View struct {
	Lists          map[model.Status][]model.GameRecord `json:"lists"`
	PlayingShelf   []model.GameRecord                  `json:"playing_shelf"`
	FavoritesShelf []model.GameRecord                  `json:"favorites_shelf"`
	Tally          Tally                               `json:"tally"`
	Histogram      Histogram                           `json:"histogram"`
	Badges         map[model.Status]int                `json:"badges"`
}

// Project builds the View. Lists honour the full query; shelves ignore the
// search text but follow the sort; aggregates cover the whole collection.
func Project(records []model.GameRecord, qs model.QuerySpec) View {
	v := View{
		Lists:     make(map[model.Status][]model.GameRecord, len(model.Statuses)),
		Tally:     StatusTally(records),
		Histogram: RatingHistogram(records),
		Badges:    make(map[model.Status]int, len(model.Statuses)),
	}
	for _, s := range model.Statuses {
		v.Lists[s] = QueryAndSort(records, qs.Scoped(s))
		v.Badges[s] = v.Tally.Count(s)
	}

	shelf := model.QuerySpec{SortKey: qs.SortKey}
	v.PlayingShelf = head(QueryAndSort(records, shelf.Scoped(model.StatusCurrentlyPlaying)), PlayingShelfSize)
	v.FavoritesShelf = head(QueryAndSort(records, shelf.Scoped(model.StatusFavorites)), FavoritesShelfSize)
	return v
}

func head(records []model.GameRecord, n int) []model.GameRecord {
	if len(records) > n {
		return records[:n]
	}
	return records
}
