package layout

// Placed is a visible column with its resolved width and sticky offset.
// Offset is measured from the table's left edge for Left pins and from the
// right edge for Right pins; it is zero for unpinned columns.
type Placed struct {
	Column
	Width  int
	Pin    Side
	Offset int
}

// Project orders the visible columns left pins first, then unpinned columns
// in declaration order, then right pins. selectionWidth reserves space ahead
// of the left pins for a selection marker; pass 0 when rows are not
// selectable. Offsets are computed on every call from the given layout.
func Project(columns []Column, l ColumnLayout, selectionWidth int) []Placed {
	byID := make(map[string]Column, len(columns))
	for _, c := range columns {
		byID[c.ID] = c
	}

	width := func(c Column) int {
		if w, ok := l.Sizing[c.ID]; ok && w > 0 {
			return c.clampWidth(w)
		}
		return c.clampWidth(c.Width)
	}

	var left, middle, right []Placed

	offset := max(selectionWidth, 0)
	for _, id := range l.Pinning.Left {
		c, ok := byID[id]
		if !ok || !l.Visible(id) {
			continue
		}
		p := Placed{Column: c, Width: width(c), Pin: Left, Offset: offset}
		offset += p.Width
		left = append(left, p)
	}

	for _, c := range columns {
		if !l.Visible(c.ID) || l.PinnedSide(c.ID) != Unpinned {
			continue
		}
		middle = append(middle, Placed{Column: c, Width: width(c)})
	}

	for _, id := range l.Pinning.Right {
		c, ok := byID[id]
		if !ok || !l.Visible(id) {
			continue
		}
		right = append(right, Placed{Column: c, Width: width(c), Pin: Right})
	}
	offset = 0
	for i := len(right) - 1; i >= 0; i-- {
		right[i].Offset = offset
		offset += right[i].Width
	}

	out := make([]Placed, 0, len(left)+len(middle)+len(right))
	out = append(out, left...)
	out = append(out, middle...)
	return append(out, right...)
}

// Offsets returns the sticky offset of every visible pinned column.
func Offsets(columns []Column, l ColumnLayout, selectionWidth int) map[string]int {
	out := map[string]int{}
	for _, p := range Project(columns, l, selectionWidth) {
		if p.Pin != Unpinned {
			out[p.ID] = p.Offset
		}
	}
	return out
}

// Window picks which unpinned columns fit in width cells after the pinned
// ones, starting at the scroll-th unpinned column. gap is the spacing drawn
// between columns. The result keeps Project's order.
func Window(placed []Placed, width, scroll, gap int) []Placed {
	var pinned int
	var middle []Placed
	for _, p := range placed {
		if p.Pin == Unpinned {
			middle = append(middle, p)
			continue
		}
		pinned += p.Width + gap
	}
	if scroll > len(middle)-1 {
		scroll = len(middle) - 1
	}
	if scroll < 0 {
		scroll = 0
	}

	budget := width - pinned
	keep := map[string]bool{}
	for i := scroll; i < len(middle); i++ {
		need := middle[i].Width + gap
		if need > budget && len(keep) > 0 {
			break
		}
		keep[middle[i].ID] = true
		budget -= need
	}

	out := make([]Placed, 0, len(placed))
	for _, p := range placed {
		if p.Pin != Unpinned || keep[p.ID] {
			out = append(out, p)
		}
	}
	return out
}
