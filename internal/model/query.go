package model

// SortKey selects the ordering applied by the query engine.
type SortKey string

const (
	SortLastAdded  SortKey = "lastAdded"
	SortLastPlayed SortKey = "lastPlayed"
	SortRating     SortKey = "rating"
	SortTitleAsc   SortKey = "titleAsc"
	SortTitleDesc  SortKey = "titleDesc"
)

// ParseSortKey accepts the canonical keys plus the titleAZ/titleZA aliases.
// Anything unrecognised falls back to SortLastAdded.
func ParseSortKey(s string) SortKey {
	switch s {
	case "lastPlayed":
		return SortLastPlayed
	case "rating":
		return SortRating
	case "titleAsc", "titleAZ":
		return SortTitleAsc
	case "titleDesc", "titleZA":
		return SortTitleDesc
	default:
		return SortLastAdded
	}
}

// QuerySpec holds the transient search/filter/sort parameters of one render.
type QuerySpec struct {
	SearchText    string
	StatusScope   *Status
	FavoritesOnly bool
	SortKey       SortKey
}

// Scoped returns a copy of q restricted to status s.
func (q QuerySpec) Scoped(s Status) QuerySpec {
	q.StatusScope = &s
	return q
}
