// Package layout owns the client-local presentation of a table: which
// columns are visible, which are pinned to either edge, how wide each one is,
// and the row density. Layouts are persisted per table and never influence
// what is fetched.
package layout

import (
	"encoding/json"
	"log/slog"
	"math"
	"slices"
)

// MaxWidth bounds every column width in cells.
const MaxWidth = 200

// Density controls row padding.
type Density string

const (
	Normal  Density = "normal"
	Compact Density = "compact"
)

// Side is a pinning edge.
type Side int

const (
	Unpinned Side = iota
	Left
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// Column describes one column a table can show.
type Column struct {
	ID       string
	Title    string
	Width    int // default width in cells
	MinWidth int
	Hidden   bool // hidden unless the user shows it
	Sortable bool // the API accepts ID as a sort field
}

func (c Column) minWidth() int {
	if c.MinWidth > 0 {
		return c.MinWidth
	}
	return 3
}

func (c Column) clampWidth(w int) int {
	return min(max(w, c.minWidth()), MaxWidth)
}

// Pinning lists pinned column ids per edge, outermost first on the left and
// innermost first on the right.
type Pinning struct {
	Left  []string `json:"left"`
	Right []string `json:"right"`
}

// ColumnLayout is the persisted presentation state of a table.
type ColumnLayout struct {
	Visibility map[string]bool `json:"columnVisibility"`
	Pinning    Pinning         `json:"columnPinning"`
	Sizing     map[string]int  `json:"columnSizing"`
	Density    Density         `json:"density"`
}

// Defaults builds the layout a table starts with.
func Defaults(columns []Column) ColumnLayout {
	l := ColumnLayout{
		Visibility: make(map[string]bool, len(columns)),
		Pinning:    Pinning{Left: []string{}, Right: []string{}},
		Sizing:     make(map[string]int, len(columns)),
		Density:    Normal,
	}
	for _, c := range columns {
		l.Visibility[c.ID] = !c.Hidden
		l.Sizing[c.ID] = c.clampWidth(c.Width)
	}
	return l
}

// Clone returns a deep copy.
func (l ColumnLayout) Clone() ColumnLayout {
	out := ColumnLayout{
		Visibility: make(map[string]bool, len(l.Visibility)),
		Pinning: Pinning{
			Left:  append([]string{}, l.Pinning.Left...),
			Right: append([]string{}, l.Pinning.Right...),
		},
		Sizing:  make(map[string]int, len(l.Sizing)),
		Density: l.Density,
	}
	for k, v := range l.Visibility {
		out.Visibility[k] = v
	}
	for k, v := range l.Sizing {
		out.Sizing[k] = v
	}
	return out
}

// Visible reports whether column id is shown.
func (l ColumnLayout) Visible(id string) bool {
	v, ok := l.Visibility[id]
	return !ok || v
}

// PinnedSide reports the edge column id is pinned to.
func (l ColumnLayout) PinnedSide(id string) Side {
	switch {
	case slices.Contains(l.Pinning.Left, id):
		return Left
	case slices.Contains(l.Pinning.Right, id):
		return Right
	default:
		return Unpinned
	}
}

// Decode merges a stored blob over defaults. Fields that are missing keep
// their defaults; fields that fail to decode are dropped with a warning, and
// a blob that is not a JSON object yields the defaults unchanged. Unknown
// column ids are ignored.
func Decode(raw string, columns []Column, logger *slog.Logger) ColumnLayout {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	l := Defaults(columns)
	if raw == "" {
		return l
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		logger.Warn("discarding corrupt column layout", "error", err)
		return l
	}

	known := make(map[string]Column, len(columns))
	for _, c := range columns {
		known[c.ID] = c
	}

	if msg, ok := fields["columnVisibility"]; ok {
		var vis map[string]bool
		if err := json.Unmarshal(msg, &vis); err != nil {
			logger.Warn("ignoring corrupt column visibility", "error", err)
		} else {
			for id, v := range vis {
				if _, ok := known[id]; ok {
					l.Visibility[id] = v
				}
			}
		}
	}

	if msg, ok := fields["columnSizing"]; ok {
		var sizing map[string]float64
		if err := json.Unmarshal(msg, &sizing); err != nil {
			logger.Warn("ignoring corrupt column sizing", "error", err)
		} else {
			for id, w := range sizing {
				c, ok := known[id]
				if !ok {
					continue
				}
				if math.IsNaN(w) || math.IsInf(w, 0) || math.Abs(w) > MaxWidth {
					logger.Warn("ignoring out-of-range column width", "column", id, "width", w)
					continue
				}
				l.Sizing[id] = max(int(w), c.minWidth())
			}
		}
	}

	if msg, ok := fields["columnPinning"]; ok {
		var pins Pinning
		if err := json.Unmarshal(msg, &pins); err != nil {
			logger.Warn("ignoring corrupt column pinning", "error", err)
		} else {
			seen := map[string]bool{}
			l.Pinning.Left = filterPins(pins.Left, known, seen)
			l.Pinning.Right = filterPins(pins.Right, known, seen)
		}
	}

	if msg, ok := fields["density"]; ok {
		var d Density
		if err := json.Unmarshal(msg, &d); err != nil {
			logger.Warn("ignoring corrupt density", "error", err)
		} else if d == Normal || d == Compact {
			l.Density = d
		}
	}

	return l
}

func filterPins(ids []string, known map[string]Column, seen map[string]bool) []string {
	out := []string{}
	for _, id := range ids {
		if _, ok := known[id]; !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Encode renders the persisted JSON form.
func Encode(l ColumnLayout) (string, error) {
	b, err := json.Marshal(l)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
