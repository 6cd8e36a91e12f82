package query

import (
	"math"

	"github.com/rcliao/game-backlog/internal/model"
)

// ChartOrder is the series order used for the status chart.
var ChartOrder = []model.Status{
	model.StatusPlayed,
	model.StatusCurrentlyPlaying,
	model.StatusBacklog,
	model.StatusFavorites,
}

// Tally holds the number of records per status. Every status has an entry.
type Tally struct {
	Counts map[model.Status]int `json:"counts"`
	Total  int                  `json:"total"`
}

// Count returns the tally for s.
func (t Tally) Count(s model.Status) int { return t.Counts[s] }

// Series returns the counts in ChartOrder.
func (t Tally) Series() []int {
	out := make([]int, len(ChartOrder))
	for i, s := range ChartOrder {
		out[i] = t.Counts[s]
	}
	return out
}

// StatusTally counts records per status over the full collection.
func StatusTally(records []model.GameRecord) Tally {
	t := Tally{Counts: make(map[model.Status]int, len(model.Statuses))}
	for _, s := range model.Statuses {
		t.Counts[s] = 0
	}
	for _, g := range records {
		if _, ok := t.Counts[g.Status]; ok {
			t.Counts[g.Status]++
			t.Total++
		}
	}
	return t
}

// Histogram holds rating counts; index r-1 is rating r.
type Histogram struct {
	Counts [5]int `json:"counts"`
	// Rated is the number of records with any rating.
	Rated int `json:"rated"`
	// Percent is each count as a rounded share of Rated.
	Percent [5]int `json:"percent"`
}

// Count returns the number of records rated exactly r.
func (h Histogram) Count(r int) int {
	if r < 1 || r > 5 {
		return 0
	}
	return h.Counts[r-1]
}

// Empty reports whether no record is rated.
func (h Histogram) Empty() bool { return h.Rated == 0 }

// RatingHistogram counts records per rating 1..5. Unrated records are
// excluded from both the counts and the percentage base.
func RatingHistogram(records []model.GameRecord) Histogram {
	var h Histogram
	for _, g := range records {
		if g.Rating == nil || !model.IsValidRating(g.Rating) {
			continue
		}
		h.Counts[*g.Rating-1]++
		h.Rated++
	}
	if h.Rated > 0 {
		for i, c := range h.Counts {
			h.Percent[i] = int(math.Round(float64(c) / float64(h.Rated) * 100))
		}
	}
	return h
}
