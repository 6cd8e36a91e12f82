package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rcliao/game-backlog/internal/model"
)

// CollectionKey is the slot key holding the whole serialized collection.
const CollectionKey = "gbr.games.v1"

// LoadCollection reads the collection from the slot. A missing key, unreadable
// slot, or malformed content all yield an empty collection; the failure is
// logged and never returned. Records repeating an earlier id are dropped;
// out-of-range ratings load as unrated and unknown statuses as Backlog.
func LoadCollection(ctx context.Context, slot Slot) []model.GameRecord {
	raw, err := slot.Get(ctx, CollectionKey)
	if errors.Is(err, ErrNotFound) {
		return []model.GameRecord{}
	}
	if err != nil {
		slog.Warn("collection read failed, starting empty", "key", CollectionKey, "err", err)
		return []model.GameRecord{}
	}

	var records []model.GameRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		slog.Warn("collection is corrupt, starting empty", "key", CollectionKey, "err", err)
		return []model.GameRecord{}
	}

	seen := make(map[string]bool, len(records))
	out := make([]model.GameRecord, 0, len(records))
	for _, r := range records {
		if r.ID == "" || seen[r.ID] {
			slog.Debug("skipping stored record without unique id", "id", r.ID, "title", r.Title)
			continue
		}
		seen[r.ID] = true
		out = append(out, normalize(r))
	}
	return out
}

// SaveCollection serializes the full collection and writes it in one Set call.
func SaveCollection(ctx context.Context, slot Slot, records []model.GameRecord) error {
	if records == nil {
		records = []model.GameRecord{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	return slot.Set(ctx, CollectionKey, b)
}

func normalize(r model.GameRecord) model.GameRecord {
	if !model.IsValidRating(r.Rating) {
		slog.Debug("clearing invalid stored rating", "id", r.ID, "rating", *r.Rating)
		r.Rating = nil
	}
	if st := model.ParseStatus(string(r.Status)); model.IsValidStatus(st) {
		r.Status = st
	} else {
		slog.Debug("unknown stored status, using Backlog", "id", r.ID, "status", r.Status)
		r.Status = model.StatusBacklog
	}
	return r
}
