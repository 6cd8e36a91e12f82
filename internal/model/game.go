// Package model defines the core game collection types.
package model

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a tracked game.
type Status string

const (
	StatusBacklog          Status = "Backlog"
	StatusCurrentlyPlaying Status = "Currently Playing"
	StatusPlayed           Status = "Played"
	StatusFavorites        Status = "Favorites"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{
	StatusBacklog,
	StatusCurrentlyPlaying,
	StatusPlayed,
	StatusFavorites,
}

var statusAliases = map[string]Status{
	"backlog":           StatusBacklog,
	"playing":           StatusCurrentlyPlaying,
	"currently playing": StatusCurrentlyPlaying,
	"currentlyplaying":  StatusCurrentlyPlaying,
	"played":            StatusPlayed,
	"favorites":         StatusFavorites,
	"favorite":          StatusFavorites,
}

// ParseStatus maps a wire name or short alias to a Status.
// Unknown input is returned as-is so validation can reject it.
func ParseStatus(s string) Status {
	if st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st
	}
	return Status(s)
}

// PlaceholderImage is used when no cover could be resolved.
const PlaceholderImage = "/img/placeholder.svg"

// GameRecord represents one tracked title.
type GameRecord struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Status       Status     `json:"status"`
	Rating       *int       `json:"rating"`
	ImageURL     string     `json:"imageUrl"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	LastPlayedAt *time.Time `json:"lastPlayedAt"`
}

// Clone returns a copy that shares no pointers with g.
func (g GameRecord) Clone() GameRecord {
	if g.Rating != nil {
		r := *g.Rating
		g.Rating = &r
	}
	if g.LastPlayedAt != nil {
		t := *g.LastPlayedAt
		g.LastPlayedAt = &t
	}
	return g
}

// Patch is a partial update. Title is deliberately absent.
type Patch struct {
	Status *Status
	// SetRating replaces the rating with Rating (nil clears it).
	SetRating bool
	Rating    *int
}

// WithStatus returns a copy of p that sets the status.
func (p Patch) WithStatus(s Status) Patch {
	p.Status = &s
	return p
}

// WithRating returns a copy of p that sets the rating.
func (p Patch) WithRating(r int) Patch {
	p.SetRating = true
	p.Rating = &r
	return p
}

// WithoutRating returns a copy of p that clears the rating.
func (p Patch) WithoutRating() Patch {
	p.SetRating = true
	p.Rating = nil
	return p
}

// IntPtr is a convenience for optional ratings.
func IntPtr(v int) *int { return &v }
