package criteria

import "strings"

// Event is a request to change the Criteria of a list. UI affordances only
// ever produce Events; the controller applies them through Reduce.
type Event interface {
	isEvent()
}

// SearchSettled carries debounced search text.
type SearchSettled struct{ Query string }

// SearchSubmitted is an explicit search (Enter, blur). It always refetches,
// even when the query is unchanged.
type SearchSubmitted struct{ Query string }

// PageRequested jumps to a page.
type PageRequested struct{ Page int }

// PageStep moves relative to the current page. PageCount bounds the step
// when known; zero means unknown.
type PageStep struct {
	Delta     int
	PageCount int
}

// PageSizeChanged selects a new rows-per-page value.
type PageSizeChanged struct{ Size int }

// SortRequested selects an explicit sort.
type SortRequested struct{ Sort Sort }

// SortToggled cycles the sort on Field: asc, desc, then unsorted.
type SortToggled struct{ Field string }

// Synced replaces the Criteria from outside the list (a location, a
// bookmark, the back action, restored state).
type Synced struct{ Criteria Criteria }

// Refresh refetches the current Criteria.
type Refresh struct{}

func (SearchSettled) isEvent()   {}
func (SearchSubmitted) isEvent() {}
func (PageRequested) isEvent()   {}
func (PageStep) isEvent()        {}
func (PageSizeChanged) isEvent() {}
func (SortRequested) isEvent()   {}
func (SortToggled) isEvent()     {}
func (Synced) isEvent()          {}
func (Refresh) isEvent()         {}

// Transition is the outcome of applying an Event.
type Transition struct {
	Criteria Criteria
	// Force requests a fetch even when Criteria equals the last fetched one.
	Force bool
	// Explicit marks a deliberate user action (Enter, click, key press) as
	// opposed to debounced typing or an external sync.
	Explicit bool
}

// Reduce applies ev to current. It never mutates its inputs and always
// returns a clamped Criteria.
func Reduce(current Criteria, ev Event, limits Limits) Transition {
	current = limits.Clamp(current)
	next := current
	var t Transition

	switch e := ev.(type) {
	case SearchSettled:
		q := strings.TrimSpace(e.Query)
		if q != current.Query {
			next.Query = q
			next.Page = 0
		}
	case SearchSubmitted:
		next.Query = strings.TrimSpace(e.Query)
		next.Page = 0
		t.Force = true
		t.Explicit = true
	case PageRequested:
		next.Page = e.Page
		t.Explicit = true
	case PageStep:
		next.Page = current.Page + e.Delta
		if e.PageCount > 0 && next.Page > e.PageCount-1 {
			next.Page = e.PageCount - 1
		}
		t.Explicit = true
	case PageSizeChanged:
		size := limits.ClampPageSize(e.Size)
		if size != current.PageSize {
			next.PageSize = size
			next.Page = 0
		}
		t.Explicit = true
	case SortRequested:
		next.Sort = e.Sort
		t.Explicit = true
	case SortToggled:
		next.Sort = toggleSort(current.Sort, e.Field)
		t.Explicit = true
	case Synced:
		next = e.Criteria
		t.Force = true
	case Refresh:
		t.Force = true
		t.Explicit = true
	}

	t.Criteria = limits.Clamp(next)
	return t
}

func toggleSort(current Sort, field string) Sort {
	field = strings.TrimSpace(field)
	if field == "" {
		return Sort{}
	}
	if current.Field != field {
		return Sort{Field: field, Direction: Asc}
	}
	if current.Direction == Asc {
		return Sort{Field: field, Direction: Desc}
	}
	return Sort{}
}

// ShouldFetch reports whether t warrants a request given the last fetched
// Criteria. hasFetched is false before the first fetch of a list.
func ShouldFetch(lastFetched Criteria, hasFetched bool, t Transition) bool {
	if t.Force || !hasFetched {
		return true
	}
	return t.Criteria != lastFetched
}
