package state

import (
	"context"
	"fmt"
	"time"
)

// Page is a filtered, presentation-ready view of a slice
type Page[R any] struct {
	Rows       []R       `json:"rows"`
	Count      int       `json:"count"`
	Total      int       `json:"total"`
	Summary    string    `json:"summary"`
	Categories []string  `json:"categories,omitempty"`
	Phase      Phase     `json:"phase"`
	LoadedAt   time.Time `json:"loadedAt"`
}

// NewPage maps filtered items to rows. total is the size of the unfiltered collection.
func NewPage[T, R any](items []T, total int, snap Snapshot[T], row func(T) R) Page[R] {
	rows := make([]R, 0, len(items))
	for _, it := range items {
		rows = append(rows, row(it))
	}
	return Page[R]{
		Rows:     rows,
		Count:    len(rows),
		Total:    total,
		Summary:  ShowingSummary(len(rows)),
		Phase:    snap.Phase,
		LoadedAt: snap.LoadedAt,
	}
}

// ShowingSummary is the footer line under every table
func ShowingSummary(n int) string {
	return fmt.Sprintf("Showing %d entries", n)
}

// Settings controls how services read their slices
type Settings struct {
	// CacheTTL is how long a loaded collection is served without reloading
	CacheTTL time.Duration
	// Location is the zone used by date filters; nil means UTC
	Location *time.Location
	Observer Observer
	Clock    func() time.Time
}

// SliceOptions returns the slice options implied by the settings
func (s Settings) SliceOptions() []Option {
	var opts []Option
	if s.Observer != nil {
		opts = append(opts, WithObserver(s.Observer))
	}
	if s.Clock != nil {
		opts = append(opts, WithClock(s.Clock))
	}
	return opts
}

// Current returns the cached items when they are fresh. Otherwise it calls reload,
// which loads s itself, e.g. a service Fetch built on s.Load.
func Current[T any](ctx context.Context, s *Slice[T], maxAge time.Duration, refresh bool, reload func(context.Context) ([]T, error)) ([]T, error) {
	if !refresh && s.Fresh(maxAge) {
		return s.Snapshot().Items, nil
	}
	return reload(ctx)
}
