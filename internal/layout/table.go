package layout

import (
	"log/slog"
	"slices"

	"github.com/five82/fauna/internal/prefs"
)

// KeyPrefix scopes layout entries in the preference store.
const KeyPrefix = "layout."

// Key returns the preference key of table id.
func Key(id string) string {
	return KeyPrefix + id
}

// Table is the live layout of one table instance. It loads once when
// mounted and writes every change straight back to the store.
type Table struct {
	id      string
	columns []Column
	layout  ColumnLayout
	store   prefs.Store
	logger  *slog.Logger
}

// Mount loads the layout of table id from store, merged over the column
// defaults. A nil store keeps the layout in memory only.
func Mount(id string, columns []Column, store prefs.Store, logger *slog.Logger) *Table {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("table", id)

	raw := ""
	if store != nil {
		raw, _ = store.Get(Key(id))
	}
	return &Table{
		id:      id,
		columns: append([]Column(nil), columns...),
		layout:  Decode(raw, columns, logger),
		store:   store,
		logger:  logger,
	}
}

// ID returns the table identifier.
func (t *Table) ID() string { return t.id }

// Columns returns the column definitions in declaration order.
func (t *Table) Columns() []Column { return append([]Column(nil), t.columns...) }

// Layout returns a copy of the current layout.
func (t *Table) Layout() ColumnLayout { return t.layout.Clone() }

// Column looks up a column definition.
func (t *Table) Column(id string) (Column, bool) {
	for _, c := range t.columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// SetVisible shows or hides a column.
func (t *Table) SetVisible(id string, visible bool) {
	if _, ok := t.Column(id); !ok || t.layout.Visible(id) == visible {
		return
	}
	t.layout.Visibility[id] = visible
	t.persist()
}

// ToggleVisible flips a column's visibility.
func (t *Table) ToggleVisible(id string) {
	t.SetVisible(id, !t.layout.Visible(id))
}

// Pin moves a column to the innermost position of side. Pinning to
// Unpinned is the same as Unpin.
func (t *Table) Pin(id string, side Side) {
	if _, ok := t.Column(id); !ok || t.layout.PinnedSide(id) == side {
		return
	}
	t.unpin(id)
	switch side {
	case Left:
		t.layout.Pinning.Left = append(t.layout.Pinning.Left, id)
	case Right:
		t.layout.Pinning.Right = append([]string{id}, t.layout.Pinning.Right...)
	}
	t.persist()
}

// Unpin releases a column from either edge.
func (t *Table) Unpin(id string) {
	if t.layout.PinnedSide(id) == Unpinned {
		return
	}
	t.unpin(id)
	t.persist()
}

// CyclePin moves a column through none → left → right → none.
func (t *Table) CyclePin(id string) {
	switch t.layout.PinnedSide(id) {
	case Unpinned:
		t.Pin(id, Left)
	case Left:
		t.Pin(id, Right)
	default:
		t.Unpin(id)
	}
}

func (t *Table) unpin(id string) {
	t.layout.Pinning.Left = slices.DeleteFunc(t.layout.Pinning.Left, func(s string) bool { return s == id })
	t.layout.Pinning.Right = slices.DeleteFunc(t.layout.Pinning.Right, func(s string) bool { return s == id })
}

// Resize sets a column width, bounded by its minimum and MaxWidth.
func (t *Table) Resize(id string, width int) {
	c, ok := t.Column(id)
	if !ok {
		return
	}
	width = c.clampWidth(width)
	if t.layout.Sizing[id] == width {
		return
	}
	t.layout.Sizing[id] = width
	t.persist()
}

// Grow changes a column width by delta cells.
func (t *Table) Grow(id string, delta int) {
	t.Resize(id, t.layout.Sizing[id]+delta)
}

// SetDensity changes row density.
func (t *Table) SetDensity(d Density) {
	if d != Normal && d != Compact {
		return
	}
	if t.layout.Density == d {
		return
	}
	t.layout.Density = d
	t.persist()
}

// ToggleDensity flips between normal and compact rows.
func (t *Table) ToggleDensity() {
	if t.layout.Density == Compact {
		t.SetDensity(Normal)
		return
	}
	t.SetDensity(Compact)
}

// Reset restores the defaults and forgets the stored layout.
func (t *Table) Reset() {
	t.layout = Defaults(t.columns)
	if t.store != nil {
		t.store.Delete(Key(t.id))
	}
}

func (t *Table) persist() {
	if t.store == nil {
		return
	}
	raw, err := Encode(t.layout)
	if err != nil {
		t.logger.Error("encode column layout", "error", err)
		return
	}
	t.store.Set(Key(t.id), raw)
}
