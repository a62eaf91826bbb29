package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/fauna/internal/criteria"
	"github.com/five82/fauna/internal/paging"
)

type row struct{ ID int }

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store[row]
	c := criteria.Criteria{Query: "a", PageSize: 25}

	before := time.Now()
	s.Begin(c)
	s.Update(c, &paging.Result[row]{Items: []row{{ID: 1}, {ID: 2}}, PageSize: 25, Total: 2}, nil)

	snap := s.Snapshot()
	if !snap.HasResult || len(snap.Result.Items) != 2 || snap.Result.Items[0].ID != 1 {
		t.Fatalf("snapshot result = %#v, want 2 items", snap.Result)
	}
	if snap.ResultCriteria != c || snap.Criteria != c {
		t.Fatalf("criteria = %+v / %+v, want %+v", snap.Criteria, snap.ResultCriteria, c)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.Phase() != PhaseReady || snap.Stale() {
		t.Fatalf("phase = %v stale = %v, want ready and fresh", snap.Phase(), snap.Stale())
	}

	// Returned snapshot should be independent of the stored one.
	snap.Result.Items[0].ID = 999
	snap2 := s.Snapshot()
	if snap2.Result.Items[0].ID != 1 {
		t.Fatalf("Snapshot should clone items; got id %d want 1", snap2.Result.Items[0].ID)
	}
}

func TestStore_BeginKeepsPlaceholderRows(t *testing.T) {
	var s Store[row]
	first := criteria.Criteria{PageSize: 25}
	second := criteria.Criteria{Page: 1, PageSize: 25}

	s.Begin(first)
	if got := s.Snapshot().Phase(); got != PhaseLoading {
		t.Fatalf("first fetch phase = %v, want loading", got)
	}
	s.Update(first, &paging.Result[row]{Items: []row{{ID: 1}}}, nil)

	s.Begin(second)
	snap := s.Snapshot()
	if snap.Phase() != PhaseRefreshing || !snap.Stale() {
		t.Fatalf("phase = %v stale = %v, want refreshing and stale", snap.Phase(), snap.Stale())
	}
	if len(snap.Result.Items) != 1 || snap.ResultCriteria != first {
		t.Fatalf("placeholder rows lost: %#v", snap.Result)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store[row]
	c := criteria.Criteria{PageSize: 25}
	next := criteria.Criteria{Page: 1, PageSize: 25}

	s.Update(c, &paging.Result[row]{Items: []row{{ID: 1}}}, nil)

	origErr := errors.New("boom")
	s.Begin(next)
	s.Update(next, nil, origErr)

	snap := s.Snapshot()
	if len(snap.Result.Items) != 1 || snap.Result.Items[0].ID != 1 {
		t.Fatalf("rows changed on error: %#v", snap.Result.Items)
	}
	if snap.Phase() != PhaseError {
		t.Fatalf("phase = %v, want error", snap.Phase())
	}
	if snap.Criteria != next || snap.ResultCriteria != c {
		t.Fatalf("error should stay tied to current criteria: %+v / %+v", snap.Criteria, snap.ResultCriteria)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}

	// Retrying clears the banner while the request is in flight.
	s.Begin(next)
	if got := s.Snapshot(); got.LastError != nil || got.Phase() != PhaseRefreshing {
		t.Fatalf("after retry Begin: err = %v phase = %v", got.LastError, got.Phase())
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store[row]
	c := criteria.Criteria{PageSize: 25}

	for i := 1; i <= 3; i++ {
		s.Update(c, nil, errors.New("fail"))
		if got := s.Snapshot().ConsecutiveFailures; got != i {
			t.Fatalf("ConsecutiveFailures = %d, want %d", got, i)
		}
	}

	s.Update(c, &paging.Result[row]{}, nil)
	if got := s.Snapshot().ConsecutiveFailures; got != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0 after success", got)
	}
}

func TestSnapshot_IdleUntilRequested(t *testing.T) {
	var s Store[row]
	s.SetCriteria(criteria.Criteria{Query: "zorro", PageSize: 25}, true)

	snap := s.Snapshot()
	if snap.Phase() != PhaseIdle {
		t.Fatalf("phase = %v, want idle", snap.Phase())
	}
	if snap.Criteria.Query != "zorro" {
		t.Fatalf("criteria not recorded: %+v", snap.Criteria)
	}
}
