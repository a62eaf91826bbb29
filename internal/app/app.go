package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/five82/fauna/internal/config"
	"github.com/five82/fauna/internal/criteria"
	"github.com/five82/fauna/internal/dashboard"
	"github.com/five82/fauna/internal/layout"
	"github.com/five82/fauna/internal/listing"
	"github.com/five82/fauna/internal/logging"
	"github.com/five82/fauna/internal/paging"
	"github.com/five82/fauna/internal/prefs"
	"github.com/five82/fauna/internal/resultcache"
	"github.com/five82/fauna/internal/search"
	"github.com/five82/fauna/internal/ui"
)

// DefaultResource is opened when neither a resource nor a location is given.
const DefaultResource = dashboard.ResourceSpecies

// Options configure the fauna application.
type Options struct {
	ConfigPath string
	// Resource names the list to open; empty uses DefaultResource.
	Resource string
	// Location overrides both the resource and its stored criteria, e.g.
	// "species?q=lynx&page=2".
	Location   string
	NoAutoload bool
}

// App holds the shared dependencies of every list.
type App struct {
	Config config.Config
	Logger *slog.Logger
	Store  prefs.Backend
	Client *dashboard.Client

	ctx     context.Context
	closers []io.Closer
}

// Open loads configuration and builds the logger, preference store and
// dashboard client. Callers must Close the App.
func Open(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.NoAutoload {
		cfg.Autoload = false
	}

	logger, logCloser, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	a := &App{Config: cfg, Logger: logger, ctx: ctx, closers: []io.Closer{logCloser}}

	store, err := prefs.Open(cfg.Store, cfg.StorePath, logger)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("open preference store: %w", err)
	}
	a.Store = store
	a.closers = append(a.closers, store)

	client, err := dashboard.NewClient(cfg.APIURL, dashboard.WithLogger(logger))
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("init dashboard client: %w", err)
	}
	a.Client = client

	logger.Info("fauna starting",
		"api_url", client.BaseURL(),
		"store", cfg.Store,
		"autoload", cfg.Autoload,
		"refresh", cfg.Refresh,
	)
	return a, nil
}

// Close releases the preference store and the log file.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Resolve picks the list to open and the criteria to start it with. A
// location wins over resource; with no location the stored criteria apply
// and the returned criteria is nil.
func Resolve(resource, location string, limits criteria.Limits) (dashboard.Resource, *criteria.Criteria, error) {
	if location != "" {
		name, crit := criteria.ParseLocation(location, limits)
		if name == "" {
			name = resource
		}
		res, err := resolveResource(name)
		if err != nil {
			return "", nil, err
		}
		return res, &crit, nil
	}
	res, err := resolveResource(resource)
	if err != nil {
		return "", nil, err
	}
	return res, nil, nil
}

func resolveResource(name string) (dashboard.Resource, error) {
	if name == "" {
		return DefaultResource, nil
	}
	return dashboard.ParseResource(name)
}

// Tab builds the console tab of res, restoring its criteria and column
// layout from the preference store.
func (a *App) Tab(res dashboard.Resource) (ui.Tab, error) {
	switch res {
	case dashboard.ResourceRecords:
		return newTab[dashboard.Record](a, res)
	case dashboard.ResourceTraits:
		return newTab[dashboard.Trait](a, res)
	case dashboard.ResourceBiomes:
		return newTab[dashboard.Biome](a, res)
	case dashboard.ResourceSpecies:
		return newTab[dashboard.Species](a, res)
	case dashboard.ResourceEcosystems:
		return newTab[dashboard.Ecosystem](a, res)
	default:
		return nil, fmt.Errorf("no tab for resource %q", res)
	}
}

func newTab[T dashboard.Row](a *App, res dashboard.Resource) (ui.Tab, error) {
	ctrl, err := newController[T](a.ctx, a, res, a.Store, a.Config.Autoload)
	if err != nil {
		return nil, err
	}
	table := layout.Mount(string(res), res.Columns(), a.Store, a.Logger)
	return ui.NewTab(res.Title(), ctrl, table), nil
}

func newController[T any](ctx context.Context, a *App, res dashboard.Resource, store prefs.Store, autoload bool) (*listing.Controller[T], error) {
	logger := a.Logger.With("list", string(res))
	cache, err := resultcache.New[paging.Result[T]](ctx, resultcache.Options{
		Size:   a.Config.CacheSize,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	ctrl, err := listing.New[T](dashboard.NewLister[T](a.Client, res), cache, listing.Options{
		ID:       string(res),
		Limits:   a.Config.Limits(),
		Autoload: autoload,
		Store:    store,
		Logger:   a.Logger,
		Context:  ctx,
	})
	if err != nil {
		return nil, fmt.Errorf("build %s list: %w", res, err)
	}
	return ctrl, nil
}

// Page is one fetched page ready for printing.
type Page struct {
	Resource dashboard.Resource
	Rows     []dashboard.Row
	Page     int // zero-based
	Pages    int
	Total    int
	PageSize int
	Location string
	Table    *layout.Table
}

// FetchPage loads the page of res described by crit through a throwaway
// controller. Criteria are clamped but not persisted; the stored column
// layout is honored.
func (a *App) FetchPage(ctx context.Context, res dashboard.Resource, crit criteria.Criteria) (Page, error) {
	switch res {
	case dashboard.ResourceRecords:
		return fetchPage[dashboard.Record](ctx, a, res, crit)
	case dashboard.ResourceTraits:
		return fetchPage[dashboard.Trait](ctx, a, res, crit)
	case dashboard.ResourceBiomes:
		return fetchPage[dashboard.Biome](ctx, a, res, crit)
	case dashboard.ResourceSpecies:
		return fetchPage[dashboard.Species](ctx, a, res, crit)
	case dashboard.ResourceEcosystems:
		return fetchPage[dashboard.Ecosystem](ctx, a, res, crit)
	default:
		return Page{}, fmt.Errorf("unknown resource %q", res)
	}
}

func fetchPage[T dashboard.Row](ctx context.Context, a *App, res dashboard.Resource, crit criteria.Criteria) (Page, error) {
	ctrl, err := newController[T](ctx, a, res, nil, true)
	if err != nil {
		return Page{}, err
	}
	if cmd := ctrl.Mount(&crit); cmd != nil {
		if msg, ok := cmd().(listing.ResultMsg[T]); ok {
			ctrl.Handle(msg)
		}
	}

	snap := ctrl.Snapshot()
	if snap.LastError != nil {
		return Page{}, snap.LastError
	}
	if !snap.HasResult {
		return Page{}, fmt.Errorf("list %s: no result", res)
	}

	rows := make([]dashboard.Row, 0, len(snap.Result.Items))
	for _, item := range snap.Result.Items {
		rows = append(rows, item)
	}
	current := ctrl.Criteria()
	return Page{
		Resource: res,
		Rows:     rows,
		Page:     current.Page,
		Pages:    snap.Result.PageCount(),
		Total:    snap.Result.Total,
		PageSize: current.PageSize,
		Location: ctrl.Location(),
		Table:    layout.Mount(string(res), res.Columns(), a.Store, a.Logger),
	}, nil
}

// Run boots the console until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	a, err := Open(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	active, initial, err := Resolve(opts.Resource, opts.Location, a.Config.Limits())
	if err != nil {
		return err
	}

	tabs := make([]ui.Tab, 0, len(dashboard.Resources))
	activeIdx := 0
	for i, res := range dashboard.Resources {
		tab, err := a.Tab(res)
		if err != nil {
			return err
		}
		if res == active {
			activeIdx = i
		}
		tabs = append(tabs, tab)
	}

	err = ui.Run(ctx, ui.Options{
		Tabs:      tabs,
		Active:    activeIdx,
		Initial:   initial,
		Search:    search.New(searchDelay(a.Config.Debounce)),
		Store:     a.Store,
		ThemeName: a.Config.Theme,
		Refresh:   a.Config.Refresh,
		APIURL:    a.Client.BaseURL(),
		LogFile:   a.Config.LogFile,
		Logger:    a.Logger,
	})
	a.Logger.Info("fauna stopped", "error", err)
	return err
}

// searchDelay maps a zero debounce to the shortest tick so typing settles
// on the next frame instead of falling back to the default delay.
func searchDelay(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Millisecond
	}
	return d
}
