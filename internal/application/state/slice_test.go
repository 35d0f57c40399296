package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocery/admin/internal/domain/shared"
)

type item struct {
	ID   string
	Name string
}

func itemKey(i item) string { return i.ID }

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (r *recordingObserver) ObserveLoad(slice, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, slice+":"+outcome)
}

type bodyError struct{ msg string }

func (e bodyError) Error() string         { return "upstream: " + e.msg }
func (e bodyError) PublicMessage() string { return e.msg }

func newSlice(opts ...Option) *Slice[item] {
	return New("items", "Failed to fetch items", itemKey, opts...)
}

// ==================== Phases ====================

func TestSlice_Phases(t *testing.T) {
	s := newSlice()
	assert.Equal(t, PhaseIdle, s.Snapshot().Phase)

	seq := s.Begin()
	assert.Equal(t, PhaseLoading, s.Snapshot().Phase)

	require.True(t, s.Succeed(seq, []item{{ID: "1"}}))
	snap := s.Snapshot()
	assert.Equal(t, PhaseSucceeded, snap.Phase)
	assert.Len(t, snap.Items, 1)
	assert.False(t, snap.LoadedAt.IsZero())

	seq = s.Begin()
	require.True(t, s.Fail(seq, errors.New("boom")))
	snap = s.Snapshot()
	assert.Equal(t, PhaseFailed, snap.Phase)
	assert.Equal(t, "Failed to fetch items", snap.Error)
	assert.Len(t, snap.Items, 1, "failed load keeps previous items")
}

func TestSlice_SnapshotIsACopy(t *testing.T) {
	s := newSlice()
	s.Succeed(s.Begin(), []item{{ID: "1", Name: "a"}})

	snap := s.Snapshot()
	snap.Items[0].Name = "mutated"
	assert.Equal(t, "a", s.Snapshot().Items[0].Name)
}

// ==================== Load ====================

func TestSlice_Load(t *testing.T) {
	obs := &recordingObserver{}
	s := newSlice(WithObserver(obs))

	t.Run("success", func(t *testing.T) {
		items, err := s.Load(context.Background(), func(context.Context) ([]item, error) {
			return []item{{ID: "1"}, {ID: "2"}}, nil
		})
		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, PhaseSucceeded, s.Snapshot().Phase)
	})

	t.Run("failure message from error body", func(t *testing.T) {
		_, err := s.Load(context.Background(), func(context.Context) ([]item, error) {
			return nil, bodyError{msg: "Database offline"}
		})
		require.Error(t, err)
		assert.Equal(t, "Database offline", err.Error())
		assert.Equal(t, "Database offline", s.Snapshot().Error)
		assert.ErrorAs(t, err, new(bodyError))
	})

	assert.Equal(t, []string{"items:succeeded", "items:failed"}, obs.outcomes)
}

func TestSlice_StaleLoadIsDiscarded(t *testing.T) {
	s := newSlice()

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan []item)
	go func() {
		items, _ := s.Load(context.Background(), func(context.Context) ([]item, error) {
			close(started)
			<-release
			return []item{{ID: "old"}}, nil
		})
		done <- items
	}()
	<-started

	_, err := s.Load(context.Background(), func(context.Context) ([]item, error) {
		return []item{{ID: "new"}}, nil
	})
	require.NoError(t, err)

	close(release)
	staleItems := <-done
	assert.Equal(t, "old", staleItems[0].ID, "caller still gets its own result")

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "new", snap.Items[0].ID)
	assert.Equal(t, PhaseSucceeded, snap.Phase)
}

func TestSlice_StaleSeqRejected(t *testing.T) {
	s := newSlice()
	first := s.Begin()
	second := s.Begin()

	assert.False(t, s.Succeed(first, []item{{ID: "x"}}))
	assert.False(t, s.Fail(first, errors.New("x")))
	assert.Equal(t, PhaseLoading, s.Snapshot().Phase)
	assert.True(t, s.Succeed(second, nil))
}

func TestSlice_CanceledLoadIsAbandoned(t *testing.T) {
	s := newSlice()
	s.Succeed(s.Begin(), []item{{ID: "1"}})

	ctx, cancel := context.WithCancel(context.Background())
	_, err := s.Load(ctx, func(ctx context.Context) ([]item, error) {
		cancel()
		return nil, ctx.Err()
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	snap := s.Snapshot()
	assert.Equal(t, PhaseSucceeded, snap.Phase, "phase restored")
	assert.Empty(t, snap.Error)
}

func TestSlice_ConcurrentReaders(t *testing.T) {
	s := newSlice()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, _ = s.Load(context.Background(), func(context.Context) ([]item, error) {
				return []item{{ID: fmt.Sprint(i)}}, nil
			})
		}(i)
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
		}()
	}
	wg.Wait()
	assert.Equal(t, PhaseSucceeded, s.Snapshot().Phase)
}

// ==================== Mutations ====================

func TestSlice_Mutations(t *testing.T) {
	s := newSlice()
	s.Succeed(s.Begin(), []item{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}})

	s.Upsert(item{ID: "2", Name: "B"})
	s.Upsert(item{ID: "3", Name: "c"})
	got, ok := s.Find("2")
	require.True(t, ok)
	assert.Equal(t, "B", got.Name)
	assert.Len(t, s.Snapshot().Items, 3)

	assert.True(t, s.Remove("1"))
	assert.False(t, s.Remove("1"))
	assert.Equal(t, []item{{ID: "2", Name: "B"}, {ID: "3", Name: "c"}}, s.Snapshot().Items)

	_, ok = s.Find("1")
	assert.False(t, ok)

	s.Reset()
	assert.Equal(t, PhaseIdle, s.Snapshot().Phase)
	assert.Empty(t, s.Snapshot().Items)
}

func TestSlice_MutationSupersedesLoad(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Slice[item])
		want   []item
	}{
		{"upsert", func(s *Slice[item]) { s.Upsert(item{ID: "3", Name: "created"}) },
			[]item{{ID: "1"}, {ID: "2"}, {ID: "3", Name: "created"}}},
		{"remove", func(s *Slice[item]) { s.Remove("2") }, []item{{ID: "1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := &recordingObserver{}
			s := newSlice(WithObserver(obs))
			s.Succeed(s.Begin(), []item{{ID: "1"}, {ID: "2"}})

			// the upstream snapshot was taken before the mutation
			_, err := s.Load(context.Background(), func(context.Context) ([]item, error) {
				tt.mutate(s)
				return []item{{ID: "1"}, {ID: "2"}}, nil
			})
			require.NoError(t, err)

			snap := s.Snapshot()
			assert.Equal(t, tt.want, snap.Items)
			assert.Equal(t, PhaseSucceeded, snap.Phase, "phase restored")
			assert.Equal(t, []string{"items:stale"}, obs.outcomes)
		})
	}
}

func TestSlice_MutationOutsideLoadKeepsSeq(t *testing.T) {
	s := newSlice()
	seq := s.Begin()
	require.True(t, s.Succeed(seq, []item{{ID: "1"}}))

	s.Upsert(item{ID: "2"})
	next := s.Begin()
	assert.Equal(t, seq+1, next)
	assert.True(t, s.Succeed(next, []item{{ID: "1"}, {ID: "2"}}))
}

func TestCurrent(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	obs := &recordingObserver{}
	s := newSlice(WithObserver(obs), WithClock(func() time.Time { return now }))

	reloads := 0
	reload := func(ctx context.Context) ([]item, error) {
		reloads++
		return s.Load(ctx, func(context.Context) ([]item, error) {
			return []item{{ID: "1"}}, nil
		})
	}

	items, err := Current(context.Background(), s, time.Minute, false, reload)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, []string{"items:succeeded"}, obs.outcomes, "one load per miss")

	_, err = Current(context.Background(), s, time.Minute, false, reload)
	require.NoError(t, err)
	assert.Equal(t, 1, reloads, "fresh slice is served from memory")

	_, err = Current(context.Background(), s, time.Minute, true, reload)
	require.NoError(t, err)
	assert.Equal(t, 2, reloads)
	assert.Equal(t, []string{"items:succeeded", "items:succeeded"}, obs.outcomes)
}

func TestSlice_Fresh(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newSlice(WithClock(func() time.Time { return now }))
	assert.False(t, s.Fresh(time.Minute))

	s.Succeed(s.Begin(), nil)
	assert.True(t, s.Fresh(time.Minute))

	now = now.Add(2 * time.Minute)
	assert.False(t, s.Fresh(time.Minute))
	assert.True(t, s.Fresh(0), "zero max age never expires")
}

// ==================== Messages ====================

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil, "x"))
	assert.Equal(t, "fallback", Message(errors.New("dial tcp: refused"), "fallback"))
	assert.Equal(t, "Invalid credentials", Message(fmt.Errorf("login: %w", bodyError{msg: "Invalid credentials"}), "Login failed"))
	assert.Equal(t, "Login failed", Message(bodyError{}, "Login failed"))
	assert.Equal(t, "Resource not found", Message(shared.ErrNotFound, "x"))

	wrapped := Describe(errors.New("x"), "Failed")
	assert.Equal(t, "Failed", Message(fmt.Errorf("outer: %w", wrapped), "other"))
	assert.Same(t, wrapped, Describe(wrapped, "other"))
	assert.Nil(t, Describe(nil, "x"))
}
