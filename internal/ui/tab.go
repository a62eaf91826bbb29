package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/fauna/internal/criteria"
	"github.com/five82/fauna/internal/dashboard"
	"github.com/five82/fauna/internal/layout"
	"github.com/five82/fauna/internal/listing"
	"github.com/five82/fauna/internal/state"
)

// Tab is one list shown by the console. Build tabs with NewTab.
type Tab interface {
	ID() string
	Title() string
	Location() string

	limits() criteria.Limits
	mounted() bool
	mount(initial *criteria.Criteria) tea.Cmd
	dispatch(ev criteria.Event) tea.Cmd
	handle(msg tea.Msg) bool
	back() tea.Cmd
	step(delta int) tea.Cmd
	view() tabView
	columns() *layout.Table
}

// tabView is the type-erased display state of a tab.
type tabView struct {
	Criteria  criteria.Criteria
	Rows      []dashboard.Row
	Page      int
	Pages     int
	Total     int
	Phase     state.Phase
	Stale     bool
	Err       error
	Failures  int
	CanGoBack bool
	Location  string
	Updated   string
}

type listTab[T dashboard.Row] struct {
	title     string
	ctrl      *listing.Controller[T]
	table     *layout.Table
	isMounted bool
}

// NewTab binds a list controller and its column layout into a console tab.
func NewTab[T dashboard.Row](title string, ctrl *listing.Controller[T], table *layout.Table) Tab {
	return &listTab[T]{title: title, ctrl: ctrl, table: table}
}

func (t *listTab[T]) ID() string       { return t.ctrl.ID() }
func (t *listTab[T]) Title() string    { return t.title }
func (t *listTab[T]) Location() string { return t.ctrl.Location() }

func (t *listTab[T]) limits() criteria.Limits { return t.ctrl.Limits() }

func (t *listTab[T]) mounted() bool { return t.isMounted }

func (t *listTab[T]) mount(initial *criteria.Criteria) tea.Cmd {
	t.isMounted = true
	return t.ctrl.Mount(initial)
}

func (t *listTab[T]) dispatch(ev criteria.Event) tea.Cmd {
	return t.ctrl.Dispatch(ev)
}

func (t *listTab[T]) handle(msg tea.Msg) bool {
	res, ok := msg.(listing.ResultMsg[T])
	if !ok {
		return false
	}
	return t.ctrl.Handle(res)
}

func (t *listTab[T]) back() tea.Cmd { return t.ctrl.Back() }

func (t *listTab[T]) step(delta int) tea.Cmd { return t.ctrl.Step(delta) }

func (t *listTab[T]) columns() *layout.Table { return t.table }

func (t *listTab[T]) view() tabView {
	snap := t.ctrl.Snapshot()
	v := tabView{
		Criteria:  snap.Criteria,
		Phase:     snap.Phase(),
		Stale:     snap.Stale(),
		Err:       snap.LastError,
		Failures:  snap.ConsecutiveFailures,
		CanGoBack: t.ctrl.CanGoBack(),
		Location:  t.ctrl.Location(),
	}
	if !snap.LastUpdated.IsZero() {
		v.Updated = snap.LastUpdated.Format("15:04:05")
	}
	if snap.HasResult {
		v.Rows = make([]dashboard.Row, len(snap.Result.Items))
		for i, item := range snap.Result.Items {
			v.Rows[i] = item
		}
		v.Page = snap.Result.Page
		v.Pages = snap.Result.PageCount()
		v.Total = snap.Result.Total
	}
	return v
}
