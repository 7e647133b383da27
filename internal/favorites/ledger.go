// Package favorites keeps the persisted set of event ids the local user has
// marked. The set lives under a single key as a JSON array of integers.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"event-explorer/internal/apperr"
	"event-explorer/internal/catalog"
	"event-explorer/internal/kvstore"
	"event-explorer/internal/logger"
	"event-explorer/internal/models"
)

// Key is the kvstore key holding the favorites array.
const Key = "favorites"

const (
	ActionAdd    = "ADD"
	ActionRemove = "REMOVE"
	ActionClear  = "CLEAR"
)

// Publisher receives a change notice after every committed mutation.
type Publisher interface {
	PublishFavoritesChanged(ctx context.Context, evt models.FavoritesChangedEvent) error
}

type Option func(*Ledger)

// WithPublisher adds p to the publishers notified after each change.
func WithPublisher(p Publisher) Option {
	return func(l *Ledger) { l.publishers = append(l.publishers, p) }
}

type Ledger struct {
	// writeMu serializes mutations across the persisted write.
	writeMu sync.Mutex

	mu  sync.RWMutex
	ids map[int]struct{}

	kv         kvstore.Store
	logger     *logger.Logger
	publishers []Publisher
}

// Open loads the stored set. A missing or empty entry is an empty set; an
// entry that does not decode is an error, so nothing overwrites it blindly.
func Open(ctx context.Context, kv kvstore.Store, log *logger.Logger, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		ids:    make(map[int]struct{}),
		kv:     kv,
		logger: log,
	}
	for _, opt := range opts {
		opt(l)
	}

	raw, err := kv.Get(ctx, Key)
	switch {
	case errors.Is(err, kvstore.ErrNotFound):
		log.Debug("FAVORITES", "No stored favorites, starting empty")
		return l, nil
	case err != nil:
		return nil, fmt.Errorf("%w: load favorites: %v", apperr.ErrPersistence, err)
	}

	if len(raw) == 0 {
		return l, nil
	}
	var ids []int
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("%w: decode favorites: %v", apperr.ErrPersistence, err)
	}
	for _, id := range ids {
		l.ids[id] = struct{}{}
	}

	log.Info("FAVORITES", fmt.Sprintf("Loaded %d favorites", len(l.ids)))
	return l, nil
}

func (l *Ledger) IsFavorite(id int) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.ids[id]
	return ok
}

// List returns the favorite ids in ascending order.
func (l *Ledger) List() []int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return sortedIDs(l.ids)
}

// Events resolves the favorites against cat, in catalog order. Ids no longer
// in the catalog are skipped.
func (l *Ledger) Events(cat *catalog.Store) []models.Event {
	return cat.Select(l.List())
}

// Add marks id. Adding a present id writes nothing.
func (l *Ledger) Add(ctx context.Context, id int) error {
	return l.mutate(ctx, id, ActionAdd)
}

// Remove unmarks id. Removing an absent id writes nothing.
func (l *Ledger) Remove(ctx context.Context, id int) error {
	return l.mutate(ctx, id, ActionRemove)
}

// Toggle flips id and reports whether it is a favorite afterwards.
func (l *Ledger) Toggle(ctx context.Context, id int) (bool, error) {
	l.writeMu.Lock()
	action := ActionAdd
	if l.IsFavorite(id) {
		action = ActionRemove
	}
	evt, err := l.apply(ctx, id, action)
	l.writeMu.Unlock()
	if err != nil {
		return l.IsFavorite(id), err
	}

	l.publish(ctx, evt)
	return action == ActionAdd, nil
}

// Clear drops every favorite and the stored entry. Clearing an empty set
// publishes nothing.
func (l *Ledger) Clear(ctx context.Context) error {
	l.writeMu.Lock()
	had := len(l.List())
	if err := l.kv.Delete(ctx, Key); err != nil {
		l.writeMu.Unlock()
		l.logger.Error("FAVORITES", fmt.Sprintf("Failed to clear favorites: %v", err))
		return fmt.Errorf("%w: clear favorites: %v", apperr.ErrPersistence, err)
	}
	l.mu.Lock()
	l.ids = make(map[int]struct{})
	l.mu.Unlock()
	l.writeMu.Unlock()

	if had == 0 {
		return nil
	}
	l.logger.LogFavorite(ActionClear, 0, fmt.Sprintf("cleared %d favorites", had))
	l.publish(ctx, &models.FavoritesChangedEvent{Action: ActionClear, Favorites: []int{}})
	return nil
}

func (l *Ledger) mutate(ctx context.Context, id int, action string) error {
	l.writeMu.Lock()
	evt, err := l.apply(ctx, id, action)
	l.writeMu.Unlock()
	if err != nil {
		return err
	}

	l.publish(ctx, evt)
	return nil
}

// apply must be called with writeMu held. The in-memory set is swapped only
// after the store accepted the new value. It returns the committed change,
// or nil when nothing changed.
func (l *Ledger) apply(ctx context.Context, id int, action string) (*models.FavoritesChangedEvent, error) {
	present := l.IsFavorite(id)
	if (action == ActionAdd && present) || (action == ActionRemove && !present) {
		return nil, nil
	}

	l.mu.RLock()
	next := make(map[int]struct{}, len(l.ids)+1)
	for k := range l.ids {
		next[k] = struct{}{}
	}
	l.mu.RUnlock()

	if action == ActionAdd {
		next[id] = struct{}{}
	} else {
		delete(next, id)
	}

	ids := sortedIDs(next)
	data, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("%w: encode favorites: %v", apperr.ErrPersistence, err)
	}
	if err := l.kv.Set(ctx, Key, data); err != nil {
		l.logger.Error("FAVORITES", fmt.Sprintf("Failed to persist %s of event %d: %v", action, id, err))
		return nil, fmt.Errorf("%w: save favorites: %v", apperr.ErrPersistence, err)
	}

	l.mu.Lock()
	l.ids = next
	l.mu.Unlock()

	l.logger.LogFavorite(action, id, "persisted")
	return &models.FavoritesChangedEvent{EventID: id, Action: action, Favorites: ids}, nil
}

// publish runs outside writeMu so a slow publisher never holds up other
// mutations.
func (l *Ledger) publish(ctx context.Context, evt *models.FavoritesChangedEvent) {
	if evt == nil {
		return
	}
	for _, p := range l.publishers {
		if err := p.PublishFavoritesChanged(ctx, *evt); err != nil {
			l.logger.Warn("FAVORITES", fmt.Sprintf("Failed to publish favorites change for event %d: %v", evt.EventID, err))
		}
	}
}

func sortedIDs(set map[int]struct{}) []int {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
