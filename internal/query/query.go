// Package query filters, sorts and aggregates a game collection for display.
// Nothing here mutates its input.
package query

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rcliao/game-backlog/internal/model"
)

// QueryAndSort returns the records matching qs, ordered by qs.SortKey.
// Filters compose by AND; the sort is stable so ties keep insertion order.
func QueryAndSort(records []model.GameRecord, qs model.QuerySpec) []model.GameRecord {
	q := strings.ToLower(strings.TrimSpace(qs.SearchText))

	out := make([]model.GameRecord, 0, len(records))
	for _, g := range records {
		if qs.StatusScope != nil && g.Status != *qs.StatusScope {
			continue
		}
		if qs.FavoritesOnly && g.Status != model.StatusFavorites {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(g.Title), q) {
			continue
		}
		out = append(out, g.Clone())
	}

	slices.SortStableFunc(out, comparator(qs.SortKey))
	return out
}

func comparator(key model.SortKey) func(a, b model.GameRecord) int {
	switch key {
	case model.SortLastPlayed:
		return func(a, b model.GameRecord) int {
			return playedAt(b).Compare(playedAt(a))
		}
	case model.SortRating:
		return func(a, b model.GameRecord) int {
			return ratingOf(b) - ratingOf(a)
		}
	case model.SortTitleAsc:
		c := newTitleCollator()
		return func(a, b model.GameRecord) int {
			return c.CompareString(a.Title, b.Title)
		}
	case model.SortTitleDesc:
		c := newTitleCollator()
		return func(a, b model.GameRecord) int {
			return c.CompareString(b.Title, a.Title)
		}
	default:
		return func(a, b model.GameRecord) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	}
}

// newTitleCollator compares base letters only, ignoring case and accents.
// Collators are not safe for concurrent use, so each sort gets its own.
func newTitleCollator() *collate.Collator {
	return collate.New(language.Und, collate.Loose)
}

// playedAt treats unplayed records as the earliest possible time.
func playedAt(g model.GameRecord) time.Time {
	if g.LastPlayedAt == nil {
		return time.Time{}
	}
	return *g.LastPlayedAt
}

// ratingOf ranks unrated below 1.
func ratingOf(g model.GameRecord) int {
	if g.Rating == nil {
		return -1
	}
	return *g.Rating
}
