// Package paging defines the contract between list views and whatever serves
// their pages.
package paging

import "context"

// Request describes a single page fetch.
type Request struct {
	Query     string
	Page      int // zero-based
	PageSize  int
	SortField string
	SortOrder string // "asc", "desc" or empty
}

// Result is one page of items as returned by a Fetcher. It is treated as
// immutable once received.
type Result[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

// PageCount returns the number of pages implied by Total and PageSize.
func (r Result[T]) PageCount() int {
	if r.PageSize <= 0 || r.Total <= 0 {
		return 0
	}
	return (r.Total + r.PageSize - 1) / r.PageSize
}

// Fetcher loads pages. The same Request must describe the same data; errors
// should carry a message fit to show a user.
type Fetcher[T any] interface {
	Fetch(ctx context.Context, req Request) (Result[T], error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc[T any] func(ctx context.Context, req Request) (Result[T], error)

// Fetch calls f(ctx, req).
func (f FetcherFunc[T]) Fetch(ctx context.Context, req Request) (Result[T], error) {
	return f(ctx, req)
}
