package query

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned for a call that a newer call with the same key
// replaced before it finished. Its result must not be shown.
var ErrSuperseded = errors.New("query superseded by a newer request")

// Sequencer tracks the latest call per key (one key per client) and cancels
// the older in-flight call when a new one begins.
type Sequencer struct {
	mu      sync.Mutex
	next    uint64
	current map[string]slot
}

type slot struct {
	n      uint64
	cancel context.CancelFunc
}

func NewSequencer() *Sequencer {
	return &Sequencer{current: make(map[string]slot)}
}

// Ticket identifies one call. It stays current until a later call for the
// same key begins or until Release.
type Ticket struct {
	s   *Sequencer
	key string
	n   uint64
}

// begin issues a new ticket for key, superseding any earlier one. The caller
// must Release the ticket or the key stays tracked.
func (s *Sequencer) begin(key string, cancel context.CancelFunc) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.current[key]; ok && prev.cancel != nil {
		prev.cancel()
	}
	s.next++
	s.current[key] = slot{n: s.next, cancel: cancel}
	return Ticket{s: s, key: key, n: s.next}
}

// Current reports whether no newer ticket has been issued for the key.
func (t Ticket) Current() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	cur, ok := t.s.current[t.key]
	return ok && cur.n == t.n
}

// Release drops the key if t is still current, and reports whether it was.
func (t Ticket) Release() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	cur, ok := t.s.current[t.key]
	if !ok || cur.n != t.n {
		return false
	}
	delete(t.s.current, t.key)
	return true
}

// Do runs fn as the current call for key. If another Do for the same key
// starts before fn returns, fn's context is cancelled and Do
// returns ErrSuperseded whatever fn returned.
func (s *Sequencer) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t := s.begin(key, cancel)
	err := fn(ctx)
	if !t.Release() {
		return ErrSuperseded
	}
	return err
}
