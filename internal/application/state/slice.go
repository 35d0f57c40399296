// Package state keeps the last fetched collection of each entity together with
// the state of the request that produced it.
package state

import (
	"context"
	"sync"
	"time"
)

// Phase is the request state of a slice
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseLoading   Phase = "loading"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

// Outcome labels reported to observers
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeStale     = "stale"
)

// Observer receives the result of every load
type Observer interface {
	ObserveLoad(slice, outcome string, elapsed time.Duration)
}

// Snapshot is a copy of a slice at one point in time
type Snapshot[T any] struct {
	Items    []T       `json:"-"`
	Phase    Phase     `json:"phase"`
	Error    string    `json:"error,omitempty"`
	LoadedAt time.Time `json:"loaded_at,omitempty"`
}

// Slice holds one entity collection. It is the only writer of that collection;
// readers always receive copies.
type Slice[T any] struct {
	name     string
	fallback string
	key      func(T) string
	observer Observer
	now      func() time.Time

	mu        sync.RWMutex
	items     []T
	phase     Phase
	prevPhase Phase
	err       string
	loadedAt  time.Time
	seq       uint64
}

// Option configures a Slice
type Option func(*options)

type options struct {
	observer Observer
	now      func() time.Time
}

// WithObserver reports load outcomes, e.g. to metrics
func WithObserver(o Observer) Option {
	return func(opts *options) { opts.observer = o }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(opts *options) { opts.now = now }
}

// New creates an idle slice. fallback is the error message used when a failed
// load carries none; key identifies items for Upsert and Remove.
func New[T any](name, fallback string, key func(T) string, opts ...Option) *Slice[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Slice[T]{
		name:     name,
		fallback: fallback,
		key:      key,
		observer: o.observer,
		now:      o.now,
		phase:    PhaseIdle,
	}
}

// Name returns the slice name
func (s *Slice[T]) Name() string { return s.name }

// Snapshot returns a copy of the current state
func (s *Slice[T]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot[T]{
		Items:    append([]T(nil), s.items...),
		Phase:    s.phase,
		Error:    s.err,
		LoadedAt: s.loadedAt,
	}
}

// Begin marks a load as started and returns its sequence number
func (s *Slice[T]) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if s.phase != PhaseLoading {
		s.prevPhase = s.phase
	}
	s.phase = PhaseLoading
	s.err = ""
	return s.seq
}

// Succeed stores the result of load seq. It returns false, leaving the slice
// untouched, when a newer load has begun since.
func (s *Slice[T]) Succeed(seq uint64, items []T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.items = append(make([]T, 0, len(items)), items...)
	s.phase = PhaseSucceeded
	s.err = ""
	s.loadedAt = s.now()
	return true
}

// Fail records the failure of load seq. Previously loaded items are kept.
func (s *Slice[T]) Fail(seq uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.phase = PhaseFailed
	s.err = Message(err, s.fallback)
	return true
}

// abandon drops load seq without a result, restoring the phase it replaced
func (s *Slice[T]) abandon(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq == s.seq && s.phase == PhaseLoading {
		s.phase = s.prevPhase
	}
}

// Load runs Begin, fetch and Succeed or Fail. The fetched items are returned to the
// caller even when a newer load superseded this one; only the slice ignores them.
// A load whose context ends before fetch returns is abandoned.
func (s *Slice[T]) Load(ctx context.Context, fetch func(context.Context) ([]T, error)) ([]T, error) {
	start := s.now()
	seq := s.Begin()
	items, err := fetch(ctx)

	if ctx.Err() != nil {
		s.abandon(seq)
		s.observe(OutcomeStale, start)
		if err == nil {
			err = ctx.Err()
		}
		return nil, Describe(err, s.fallback)
	}

	if err != nil {
		if s.Fail(seq, err) {
			s.observe(OutcomeFailed, start)
		} else {
			s.observe(OutcomeStale, start)
		}
		return nil, Describe(err, s.fallback)
	}

	if s.Succeed(seq, items) {
		s.observe(OutcomeSucceeded, start)
	} else {
		s.observe(OutcomeStale, start)
	}
	return items, nil
}

func (s *Slice[T]) observe(outcome string, start time.Time) {
	if s.observer != nil {
		s.observer.ObserveLoad(s.name, outcome, s.now().Sub(start))
	}
}

// Fresh reports whether the slice holds a successful load younger than maxAge
func (s *Slice[T]) Fresh(maxAge time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.phase != PhaseSucceeded {
		return false
	}
	return maxAge <= 0 || s.now().Sub(s.loadedAt) < maxAge
}

// Find returns the item with the given key
func (s *Slice[T]) Find(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if s.key(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Upsert replaces the item with the same key, or appends it
func (s *Slice[T]) Upsert(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersedeLoad()
	id := s.key(item)
	for i, it := range s.items {
		if s.key(it) == id {
			s.items[i] = item
			return
		}
	}
	s.items = append(s.items, item)
}

// Remove drops the item with the given key and reports whether it was present
func (s *Slice[T]) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersedeLoad()
	for i, it := range s.items {
		if s.key(it) == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// supersedeLoad discards the load in flight, if any. Its snapshot was taken before
// the mutation landed and would undo it. The phase returns to the one the load
// replaced. Callers hold mu.
func (s *Slice[T]) supersedeLoad() {
	if s.phase != PhaseLoading {
		return
	}
	s.seq++
	s.phase = s.prevPhase
}

// Reset returns the slice to idle and forgets its items
func (s *Slice[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.items = nil
	s.phase = PhaseIdle
	s.err = ""
	s.loadedAt = time.Time{}
}
