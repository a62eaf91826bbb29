// Package listing drives one paginated list: it owns the list's Criteria,
// turns UI events into at most one fetch per distinct Criteria, and decides
// which responses may reach the display.
package listing

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/fauna/internal/criteria"
	"github.com/five82/fauna/internal/paging"
	"github.com/five82/fauna/internal/prefs"
	"github.com/five82/fauna/internal/resultcache"
	"github.com/five82/fauna/internal/state"
)

const (
	// KeyPrefix scopes persisted criteria in the preference store.
	KeyPrefix = "criteria."

	maxHistory = 50
)

// Key returns the preference key holding the criteria of list id.
func Key(id string) string {
	return KeyPrefix + id
}

// ResultMsg carries a settled fetch back into the update loop.
type ResultMsg[T any] struct {
	ListID   string
	Key      string
	Criteria criteria.Criteria
	Result   paging.Result[T]
	Err      error
	Shared   bool
	Elapsed  time.Duration
}

// Options configure a Controller.
type Options struct {
	// ID identifies the list. It scopes cache keys and persisted criteria.
	ID     string
	Limits criteria.Limits
	// Autoload fetches on mount and on debounced typing. When false nothing
	// is fetched until the first explicit action.
	Autoload bool
	// Store persists the criteria of the list; nil disables persistence.
	Store   prefs.Store
	Logger  *slog.Logger
	Context context.Context
}

// Controller owns the Criteria of one list.
type Controller[T any] struct {
	id       string
	fetcher  paging.Fetcher[T]
	cache    *resultcache.Cache[paging.Result[T]]
	limits   criteria.Limits
	autoload bool
	store    prefs.Store
	logger   *slog.Logger
	ctx      context.Context

	current     criteria.Criteria
	lastFetched criteria.Criteria
	hasFetched  bool
	activated   bool
	history     []criteria.Criteria
	goingBack   bool

	view state.Store[T]
}

// New builds a Controller. cache may be shared by controllers of the same
// list so that they share requests; nil gives the controller its own.
func New[T any](fetcher paging.Fetcher[T], cache *resultcache.Cache[paging.Result[T]], opts Options) (*Controller[T], error) {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("list", opts.ID)
	if cache == nil {
		var err error
		cache, err = resultcache.New[paging.Result[T]](ctx, resultcache.Options{Logger: logger})
		if err != nil {
			return nil, err
		}
	}
	limits := opts.Limits
	if len(limits.PageSizes) == 0 && limits.DefaultPageSize == 0 {
		limits = criteria.DefaultLimits
	}

	c := &Controller[T]{
		id:       opts.ID,
		fetcher:  fetcher,
		cache:    cache,
		limits:   limits,
		autoload: opts.Autoload,
		store:    opts.Store,
		logger:   logger,
		ctx:      ctx,
		current:  limits.Default(),
	}
	c.view.SetCriteria(c.current, !c.autoload)
	return c, nil
}

// ID returns the list identifier.
func (c *Controller[T]) ID() string { return c.id }

// Limits returns the bounds applied to every Criteria.
func (c *Controller[T]) Limits() criteria.Limits { return c.limits }

// Criteria returns the Criteria currently in effect.
func (c *Controller[T]) Criteria() criteria.Criteria { return c.current }

// Location renders the current Criteria as an address.
func (c *Controller[T]) Location() string {
	return criteria.Location(c.id, c.current, c.limits)
}

// Snapshot returns what the list should display.
func (c *Controller[T]) Snapshot() state.Snapshot[T] { return c.view.Snapshot() }

// CanGoBack reports whether Back has anywhere to go.
func (c *Controller[T]) CanGoBack() bool { return len(c.history) > 0 }

// Restore returns the persisted Criteria of the list, if any.
func (c *Controller[T]) Restore() (criteria.Criteria, bool) {
	if c.store == nil {
		return criteria.Criteria{}, false
	}
	raw, ok := c.store.Get(Key(c.id))
	if !ok {
		return criteria.Criteria{}, false
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		c.logger.Warn("discarding corrupt saved criteria", "value", raw, "error", err)
		c.store.Delete(Key(c.id))
		return criteria.Criteria{}, false
	}
	return criteria.FromValues(values, c.limits), true
}

// Mount applies the starting Criteria of the list as an external sync:
// initial when given, else the persisted Criteria, else the defaults.
func (c *Controller[T]) Mount(initial *criteria.Criteria) tea.Cmd {
	start := c.limits.Default()
	switch {
	case initial != nil:
		start = *initial
	default:
		if restored, ok := c.Restore(); ok {
			start = restored
		}
	}
	return c.Dispatch(criteria.Synced{Criteria: start})
}

// Dispatch applies ev and returns the command that fetches the resulting
// page, or nil when no fetch is warranted.
func (c *Controller[T]) Dispatch(ev criteria.Event) tea.Cmd {
	t := criteria.Reduce(c.current, ev, c.limits)
	if t.Explicit {
		c.activated = true
	}
	if t.Criteria != c.current {
		c.current = t.Criteria
		c.persist()
	}

	if !c.autoload && !c.activated {
		c.view.SetCriteria(c.current, true)
		return nil
	}
	if !criteria.ShouldFetch(c.lastFetched, c.hasFetched, t) {
		c.view.SetCriteria(c.current, false)
		return nil
	}
	return c.fetch(t.Force)
}

// Back returns to the Criteria in effect before the last fetch-issuing
// change.
func (c *Controller[T]) Back() tea.Cmd {
	n := len(c.history)
	if n == 0 {
		return nil
	}
	prev := c.history[n-1]
	c.history = c.history[:n-1]

	c.goingBack = true
	defer func() { c.goingBack = false }()
	return c.Dispatch(criteria.Synced{Criteria: prev})
}

// Step moves delta pages, bounded by the page count of the rows on display.
func (c *Controller[T]) Step(delta int) tea.Cmd {
	snap := c.view.Snapshot()
	pages := 0
	if snap.HasResult && snap.ResultCriteria.PageSize == c.current.PageSize &&
		snap.ResultCriteria.Query == c.current.Query {
		// An empty result still has its one (empty) page.
		pages = max(snap.Result.PageCount(), 1)
	}
	return c.Dispatch(criteria.PageStep{Delta: delta, PageCount: pages})
}

// Handle applies a fetch result. It reports whether msg belonged to this
// list. Results for Criteria that are no longer current are dropped.
func (c *Controller[T]) Handle(msg ResultMsg[T]) bool {
	if msg.ListID != c.id {
		return false
	}
	if msg.Criteria != c.current {
		c.logger.Debug("dropping stale page", "key", msg.Key, "current", criteria.FetchKey(c.id, c.current))
		return true
	}
	if msg.Err != nil {
		c.view.Update(msg.Criteria, nil, msg.Err)
		return true
	}
	c.logger.Debug("page loaded",
		"key", msg.Key,
		"items", len(msg.Result.Items),
		"total", msg.Result.Total,
		"shared", msg.Shared,
		"elapsed", msg.Elapsed,
	)
	c.view.Update(msg.Criteria, &msg.Result, nil)
	return true
}

func (c *Controller[T]) fetch(force bool) tea.Cmd {
	if c.hasFetched && c.current != c.lastFetched && !c.goingBack {
		c.history = append(c.history, c.lastFetched)
		if len(c.history) > maxHistory {
			c.history = c.history[len(c.history)-maxHistory:]
		}
	}

	crit := c.current
	key := criteria.FetchKey(c.id, crit)
	c.lastFetched = crit
	c.hasFetched = true

	fut := c.cache.Request(key, force, func(ctx context.Context) (paging.Result[T], error) {
		return c.fetcher.Fetch(ctx, Request(crit))
	})
	if fut.Cached {
		res, _ := fut.Wait(c.ctx)
		c.logger.Debug("page served from cache", "key", key)
		c.view.Update(crit, &res, nil)
		return nil
	}

	c.logger.Debug("fetching page", "key", key, "force", force)
	c.view.Begin(crit)
	id := c.id
	ctx := c.ctx
	started := time.Now()
	return func() tea.Msg {
		res, err := fut.Wait(ctx)
		return ResultMsg[T]{
			ListID:   id,
			Key:      key,
			Criteria: crit,
			Result:   res,
			Err:      err,
			Shared:   fut.Shared,
			Elapsed:  time.Since(started),
		}
	}
}

func (c *Controller[T]) persist() {
	if c.store == nil {
		return
	}
	c.store.Set(Key(c.id), criteria.Values(c.current, c.limits).Encode())
}

// Request converts Criteria into a fetch request.
func Request(c criteria.Criteria) paging.Request {
	return paging.Request{
		Query:     c.Query,
		Page:      c.Page,
		PageSize:  c.PageSize,
		SortField: c.Sort.Field,
		SortOrder: string(c.Sort.Direction),
	}
}
