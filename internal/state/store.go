package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/fauna/internal/criteria"
	"github.com/five82/fauna/internal/paging"
)

// Phase summarizes what a table should show besides its rows.
type Phase int

const (
	// PhaseIdle means no fetch has been allowed yet (autoload off).
	PhaseIdle Phase = iota
	// PhaseLoading means the first page is in flight and nothing can be shown.
	PhaseLoading
	// PhaseRefreshing means older rows are shown, marked stale, while a page loads.
	PhaseRefreshing
	// PhaseReady means the rows match the current criteria.
	PhaseReady
	// PhaseError means the last fetch for the current criteria failed.
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseRefreshing:
		return "refreshing"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot represents what a list view displays.
type Snapshot[T any] struct {
	Criteria       criteria.Criteria // criteria currently in effect
	Result         paging.Result[T]  // last good page, possibly for older criteria
	ResultCriteria criteria.Criteria // criteria that produced Result
	HasResult      bool
	Fetching       bool
	AwaitingInput  bool

	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// Phase derives the display phase. Errors win over loading so the banner is
// never hidden; rows stay visible underneath either way.
func (s Snapshot[T]) Phase() Phase {
	switch {
	case s.LastError != nil && !s.Fetching:
		return PhaseError
	case s.Fetching && s.HasResult:
		return PhaseRefreshing
	case s.Fetching:
		return PhaseLoading
	case !s.HasResult && s.AwaitingInput:
		return PhaseIdle
	case !s.HasResult:
		return PhaseLoading
	default:
		return PhaseReady
	}
}

// Stale reports whether the rows on display belong to other criteria.
func (s Snapshot[T]) Stale() bool {
	return s.HasResult && (s.Fetching || s.ResultCriteria != s.Criteria)
}

// Store coordinates concurrent updates to the snapshot.
type Store[T any] struct {
	mu       sync.RWMutex
	snapshot Snapshot[T]
}

// SetCriteria records criteria that did not lead to a fetch.
func (s *Store[T]) SetCriteria(c criteria.Criteria, awaitingInput bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Criteria = c
	s.snapshot.AwaitingInput = awaitingInput
}

// Begin marks a fetch for c as in flight. The previous rows are kept as
// placeholder data and the previous error is cleared.
func (s *Store[T]) Begin(c criteria.Criteria) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Criteria = c
	s.snapshot.Fetching = true
	s.snapshot.AwaitingInput = false
	s.snapshot.LastError = nil
}

// Update records the outcome of the fetch for c. When err is non-nil the
// previous rows are kept but the error is recorded for visibility.
func (s *Store[T]) Update(c criteria.Criteria, result *paging.Result[T], err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Criteria = c
	s.snapshot.Fetching = false
	s.snapshot.LastUpdated = time.Now()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	if result != nil {
		s.snapshot.Result = cloneResult(*result)
		s.snapshot.ResultCriteria = c
		s.snapshot.HasResult = true
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Result = cloneResult(s.snapshot.Result)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneResult[T any](r paging.Result[T]) paging.Result[T] {
	if len(r.Items) == 0 {
		r.Items = nil
		return r
	}
	dup := make([]T, len(r.Items))
	copy(dup, r.Items)
	r.Items = dup
	return r
}
