// Package store owns the game collection and is its only write path.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/game-backlog/internal/cover"
	"github.com/rcliao/game-backlog/internal/model"
	"github.com/rcliao/game-backlog/internal/storage"
)

// Store holds the collection in insertion order. Every mutator validates,
// mutates, persists and then notifies subscribers.
type Store struct {
	mu          sync.Mutex
	slot        storage.Slot
	covers      cover.Resolver
	notifier    Notifier
	placeholder string
	now         func() time.Time
	newID       func() string

	games     []model.GameRecord
	listeners map[int]func()
	nextSub   int
}

// Option configures a Store.
type Option func(*Store)

// WithResolver sets the cover resolver. Without one every game gets the placeholder.
func WithResolver(r cover.Resolver) Option {
	return func(s *Store) { s.covers = r }
}

// WithNotifier sets the collaborator that receives rejection messages.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithPlaceholder overrides the image reference used when no cover resolves.
func WithPlaceholder(p string) Option {
	return func(s *Store) { s.placeholder = p }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides ULID id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// New loads the collection from slot and returns a Store owning it.
func New(ctx context.Context, slot storage.Slot, opts ...Option) *Store {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	s := &Store{
		slot:        slot,
		placeholder: model.PlaceholderImage,
		now:         func() time.Time { return time.Now().UTC() },
		listeners:   map[int]func(){},
	}
	s.newID = func() string {
		return ulid.MustNew(ulid.Timestamp(s.now()), entropy).String()
	}
	for _, opt := range opts {
		opt(s)
	}
	s.games = storage.LoadCollection(ctx, slot)
	return s
}

// Subscribe registers fn to run after every successful mutation.
// The returned func removes the subscription.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(id string) (model.GameRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.games[i].Clone(), true
	}
	return model.GameRecord{}, false
}

// List returns a copy of the collection in insertion order.
func (s *Store) List() []model.GameRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.GameRecord, len(s.games))
	for i, g := range s.games {
		out[i] = g.Clone()
	}
	return out
}

// Len returns the collection size.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.games)
}

// AddGame creates a new record. An empty status means Backlog.
// The cover lookup runs without holding the lock, so the duplicate check is
// repeated before the append.
func (s *Store) AddGame(ctx context.Context, title string, status model.Status, rating *int) (*model.GameRecord, error) {
	if status == "" {
		status = model.StatusBacklog
	}
	t := strings.TrimSpace(title)

	s.mu.Lock()
	err := s.checkNew(t, status, rating)
	s.mu.Unlock()
	if err != nil {
		return nil, s.reject(err, "title", t)
	}

	imageURL := s.resolve(ctx, t)

	s.mu.Lock()
	if s.hasTitle(t) {
		s.mu.Unlock()
		return nil, s.reject(ErrDuplicateTitle, "title", t)
	}
	now := s.now()
	g := model.GameRecord{
		ID:        s.newID(),
		Title:     t,
		Status:    status,
		ImageURL:  imageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if rating != nil {
		g.Rating = model.IntPtr(*rating)
	}
	if status == model.StatusPlayed {
		g.LastPlayedAt = &now
	}
	s.games = append(s.games, g)
	if err := s.persist(ctx); err != nil {
		s.games = s.games[:len(s.games)-1]
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	s.changed()
	out := g.Clone()
	return &out, nil
}

// UpdateGame applies patch to the record with the given id. A missing id is
// a silent no-op. Rating is validated before status and the first failure
// aborts the whole update.
func (s *Store) UpdateGame(ctx context.Context, id string, patch model.Patch) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	cur := s.games[i]
	next := cur.Clone()
	if patch.Status != nil {
		next.Status = *patch.Status
	}
	if patch.SetRating {
		next.Rating = nil
		if patch.Rating != nil {
			next.Rating = model.IntPtr(*patch.Rating)
		}
	}
	next.UpdatedAt = s.stamp(cur.UpdatedAt)

	if !model.IsValidRating(next.Rating) {
		s.mu.Unlock()
		return s.reject(ErrInvalidRating, "id", id)
	}
	if !model.IsValidStatus(next.Status) {
		s.mu.Unlock()
		return s.reject(ErrInvalidStatus, "id", id)
	}
	if cur.Status != model.StatusPlayed && next.Status == model.StatusPlayed {
		at := next.UpdatedAt
		next.LastPlayedAt = &at
	}

	s.games[i] = next
	if err := s.persist(ctx); err != nil {
		s.games[i] = cur
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.changed()
	return nil
}

// RemoveGame deletes the record with the given id. A missing id is a no-op.
func (s *Store) RemoveGame(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	prev := s.games
	next := make([]model.GameRecord, 0, len(prev)-1)
	next = append(next, prev[:i]...)
	next = append(next, prev[i+1:]...)
	s.games = next
	if err := s.persist(ctx); err != nil {
		s.games = prev
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.changed()
	return nil
}

// RefreshCover re-resolves the cover of an existing record. The URL is only
// written back if the record still exists once the lookup returns. It
// reports whether the record was updated.
func (s *Store) RefreshCover(ctx context.Context, id string) (bool, error) {
	g, ok := s.Get(id)
	if !ok {
		return false, nil
	}
	if s.covers == nil {
		return false, nil
	}
	u := s.covers.Resolve(ctx, g.Title)
	if u == "" {
		return false, nil
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		slog.Debug("record removed during cover lookup", "id", id)
		return false, nil
	}
	cur := s.games[i]
	if cur.ImageURL == u {
		s.mu.Unlock()
		return false, nil
	}
	next := cur.Clone()
	next.ImageURL = u
	next.UpdatedAt = s.stamp(cur.UpdatedAt)
	s.games[i] = next
	if err := s.persist(ctx); err != nil {
		s.games[i] = cur
		s.mu.Unlock()
		return false, err
	}
	s.mu.Unlock()

	s.changed()
	return true, nil
}

// Import adds previously exported records, keeping their ids, timestamps and
// cover URLs. Records failing validation or colliding on title are skipped.
// It returns the number of records imported.
func (s *Store) Import(ctx context.Context, records []model.GameRecord) (int, error) {
	s.mu.Lock()
	prev := s.games
	next := append(make([]model.GameRecord, 0, len(prev)+len(records)), prev...)
	s.games = next

	imported := 0
	for _, r := range records {
		g := r.Clone()
		g.Title = strings.TrimSpace(g.Title)
		if g.Status == "" {
			g.Status = model.StatusBacklog
		}
		if err := s.checkNew(g.Title, g.Status, g.Rating); err != nil {
			slog.Debug("skipping import", "title", g.Title, "reason", err)
			continue
		}
		if g.ID == "" || s.indexOf(g.ID) >= 0 {
			g.ID = s.newID()
		}
		now := s.now()
		if g.CreatedAt.IsZero() {
			g.CreatedAt = now
		}
		if g.UpdatedAt.Before(g.CreatedAt) {
			g.UpdatedAt = g.CreatedAt
		}
		if g.ImageURL == "" {
			g.ImageURL = s.placeholder
		}
		s.games = append(s.games, g)
		imported++
	}

	if imported == 0 {
		s.games = prev
		s.mu.Unlock()
		return 0, nil
	}
	if err := s.persist(ctx); err != nil {
		s.games = prev
		s.mu.Unlock()
		return 0, err
	}
	s.mu.Unlock()

	s.changed()
	return imported, nil
}

// checkNew runs the creation rules in order: title, uniqueness, rating, status.
// Callers hold s.mu.
func (s *Store) checkNew(title string, status model.Status, rating *int) error {
	switch {
	case title == "":
		return ErrTitleRequired
	case s.hasTitle(title):
		return ErrDuplicateTitle
	case !model.IsValidRating(rating):
		return ErrInvalidRating
	case !model.IsValidStatus(status):
		return ErrInvalidStatus
	}
	return nil
}

func (s *Store) hasTitle(title string) bool {
	for _, g := range s.games {
		if strings.EqualFold(g.Title, title) {
			return true
		}
	}
	return false
}

func (s *Store) indexOf(id string) int {
	for i, g := range s.games {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) resolve(ctx context.Context, title string) string {
	if s.covers != nil {
		if u := s.covers.Resolve(ctx, title); u != "" {
			return u
		}
	}
	return s.placeholder
}

// stamp returns now, never earlier than prev.
func (s *Store) stamp(prev time.Time) time.Time {
	now := s.now()
	if now.Before(prev) {
		return prev
	}
	return now
}

func (s *Store) persist(ctx context.Context) error {
	if err := storage.SaveCollection(ctx, s.slot, s.games); err != nil {
		return fmt.Errorf("persist collection: %w", err)
	}
	return nil
}

func (s *Store) reject(err error, attrs ...any) error {
	var ve *ValidationError
	if errors.As(err, &ve) && s.notifier != nil {
		s.notifier.Notify(ve.Msg)
	}
	slog.Debug("mutation rejected", append([]any{"reason", err}, attrs...)...)
	return err
}

func (s *Store) changed() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
