// Package criteria holds the search, pagination and sort parameters that
// select one page of a list, along with the pure transition rules that decide
// when a change warrants a new fetch.
package criteria

import (
	"strings"
)

// Direction is a sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort selects an ordering. The zero value means unsorted.
type Sort struct {
	Field     string
	Direction Direction
}

// IsZero reports whether no sort is selected.
func (s Sort) IsZero() bool {
	return s.Field == ""
}

// Criteria selects one page of a list. It is a comparable value; two
// Criteria are equal when == holds. Never mutate one that has been handed
// to a controller, build a new one instead.
type Criteria struct {
	Query    string
	Page     int // zero-based
	PageSize int
	Sort     Sort
}

// Limits bound the values a Criteria may take.
type Limits struct {
	DefaultPageSize int
	PageSizes       []int // allowed page sizes, ascending
}

const fallbackPageSize = 25

// DefaultLimits mirrors the dashboard's rows-per-page selector.
var DefaultLimits = Limits{
	DefaultPageSize: fallbackPageSize,
	PageSizes:       []int{10, 25, 50, 100},
}

// Default returns the Criteria a list starts from.
func (l Limits) Default() Criteria {
	return Criteria{PageSize: l.defaultPageSize()}
}

func (l Limits) defaultPageSize() int {
	size := l.DefaultPageSize
	if size <= 0 {
		size = fallbackPageSize
	}
	return l.nearestOption(size)
}

// ClampPageSize snaps size to the closest allowed option. Non-positive sizes
// resolve to the default.
func (l Limits) ClampPageSize(size int) int {
	if size <= 0 {
		return l.defaultPageSize()
	}
	return l.nearestOption(size)
}

func (l Limits) nearestOption(size int) int {
	if len(l.PageSizes) == 0 {
		return size
	}
	best := l.PageSizes[0]
	bestDist := abs(size - best)
	for _, opt := range l.PageSizes[1:] {
		if d := abs(size - opt); d < bestDist {
			best, bestDist = opt, d
		}
	}
	return best
}

// NextPageSize returns the option after size, wrapping around.
func (l Limits) NextPageSize(size int) int {
	if len(l.PageSizes) == 0 {
		return l.ClampPageSize(size)
	}
	current := l.ClampPageSize(size)
	for i, opt := range l.PageSizes {
		if opt == current {
			return l.PageSizes[(i+1)%len(l.PageSizes)]
		}
	}
	return l.PageSizes[0]
}

// PrevPageSize returns the option before size, wrapping around.
func (l Limits) PrevPageSize(size int) int {
	if len(l.PageSizes) == 0 {
		return l.ClampPageSize(size)
	}
	current := l.ClampPageSize(size)
	for i, opt := range l.PageSizes {
		if opt == current {
			return l.PageSizes[(i-1+len(l.PageSizes))%len(l.PageSizes)]
		}
	}
	return l.PageSizes[0]
}

// Clamp normalizes c to the nearest valid Criteria: trimmed query, page >= 0,
// page size within the option set and a well-formed sort.
func (l Limits) Clamp(c Criteria) Criteria {
	c.Query = strings.TrimSpace(c.Query)
	if c.Page < 0 {
		c.Page = 0
	}
	c.PageSize = l.ClampPageSize(c.PageSize)
	c.Sort = normalizeSort(c.Sort)
	return c
}

func normalizeSort(s Sort) Sort {
	s.Field = strings.TrimSpace(s.Field)
	if s.Field == "" {
		return Sort{}
	}
	switch Direction(strings.ToLower(string(s.Direction))) {
	case Desc:
		s.Direction = Desc
	default:
		s.Direction = Asc
	}
	return s
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
