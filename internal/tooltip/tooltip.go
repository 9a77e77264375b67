// Package tooltip models the formatted hover block of a status-bar
// segment: an optional title, free text, and a named, possibly jagged
// grid of cells. Tooltips combine side by side, transpose, and render
// to styled printable rows.
//
// A tooltip is a plain value: construction and mutation never fail,
// and row/column caps apply when fields are read, not when they are
// written. Combination therefore always operates on capped views
// while the underlying storage keeps everything it was given.
package tooltip

import "strings"

// DefaultBar separates combined tables.
const DefaultBar = "│"

// Caps bound what readers see. They are passed to the reading and
// rendering operations explicitly; a Tooltip itself carries no
// configuration.
type Caps struct {
	// MaxRows caps table rows and row names; zero or negative means
	// uncapped
	MaxRows int
	// MaxCols caps column names; zero or negative means uncapped
	MaxCols int
	// MaxCellWidth clips cell content at render time unless the cell
	// style class carries its own clip attribute
	MaxCellWidth int
	// Bar is the separator glyph injected between combined tables
	Bar string
}

// DefaultCaps returns the caps used when no configuration overrides
// them.
func DefaultCaps() Caps {
	return Caps{
		MaxRows:      16,
		MaxCols:      16,
		MaxCellWidth: 30,
		Bar:          DefaultBar,
	}
}

// Tooltip is the unit of hover display. The zero value is empty and
// acts as the identity-like element of Combine.
type Tooltip struct {
	title    string
	text     string
	rowNames []string
	colNames []string
	table    [][]string
	idxCols  map[int]struct{}
}

// Fields seeds a tooltip. Zero values mean "absent". Row is a 1-D
// convenience that becomes a single table row; it is ignored when
// Table is set.
type Fields struct {
	Title    string
	Text     string
	RowNames []string
	ColNames []string
	Table    [][]string
	Row      []string
	IdxCols  []int
	// ColumnMajor marks Table as supplied column-wise; it is
	// transposed immediately after construction
	ColumnMajor bool
}

// New returns an empty tooltip.
func New() *Tooltip {
	return &Tooltip{idxCols: map[int]struct{}{}}
}

// Build constructs a tooltip from seed fields.
func Build(f Fields) *Tooltip {
	t := New()
	t.title = f.Title
	t.text = f.Text
	t.SetRowNames(f.RowNames)
	t.SetColNames(f.ColNames)
	switch {
	case f.Table != nil:
		t.SetTable(f.Table)
	case f.Row != nil:
		t.SetRow(f.Row...)
	}
	for _, col := range f.IdxCols {
		t.MarkIdxCol(col)
	}
	if f.ColumnMajor && t.table != nil {
		t.Transpose()
	}

	return t
}

// FromText returns a titled paragraph tooltip.
func FromText(title, text string) *Tooltip {
	return Build(Fields{Title: title, Text: text})
}

// FromTemplate returns an independent copy of parent.
func FromTemplate(parent *Tooltip) *Tooltip {
	t := New()
	if parent != nil {
		t.CopyFrom(parent)
	}

	return t
}

// Title returns the title, empty when absent.
func (t *Tooltip) Title() string { return t.title }

// SetTitle sets the title.
func (t *Tooltip) SetTitle(title string) { t.title = title }

// ClearTitle removes the title.
func (t *Tooltip) ClearTitle() { t.title = "" }

// Text returns the free text, empty when absent.
func (t *Tooltip) Text() string { return t.text }

// SetText sets the free text.
func (t *Tooltip) SetText(text string) { t.text = text }

// ClearText removes the free text.
func (t *Tooltip) ClearText() { t.text = "" }

// RowNames returns at most caps.MaxRows row names, nil when absent.
func (t *Tooltip) RowNames(caps Caps) []string {
	return capStrings(t.rowNames, caps.MaxRows)
}

// SetRowNames stores row names; nil clears them.
func (t *Tooltip) SetRowNames(names []string) {
	t.rowNames = cloneStrings(names)
}

// ClearRowNames removes the row names.
func (t *Tooltip) ClearRowNames() { t.rowNames = nil }

// ColNames returns at most caps.MaxCols column names, nil when absent.
func (t *Tooltip) ColNames(caps Caps) []string {
	return capStrings(t.colNames, caps.MaxCols)
}

// SetColNames stores column names; nil clears them.
func (t *Tooltip) SetColNames(names []string) {
	t.colNames = cloneStrings(names)
}

// ClearColNames removes the column names.
func (t *Tooltip) ClearColNames() { t.colNames = nil }

// Table returns at most caps.MaxRows rows, nil when absent. Rows may
// be jagged; no padding happens at read time.
func (t *Tooltip) Table(caps Caps) [][]string {
	if t.table == nil {
		return nil
	}
	rows := t.table
	if caps.MaxRows > 0 && len(rows) > caps.MaxRows {
		rows = rows[:caps.MaxRows]
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = cloneStrings(row)
	}

	return out
}

// SetTable stores a 2-D grid; nil clears it. Inner rows may have
// unequal lengths.
func (t *Tooltip) SetTable(rows [][]string) {
	if rows == nil {
		t.table = nil
		return
	}
	t.table = make([][]string, len(rows))
	for i, row := range rows {
		t.table[i] = cloneStrings(row)
		if t.table[i] == nil {
			t.table[i] = []string{}
		}
	}
}

// SetRow normalizes a flat sequence of cells to a single-row table.
func (t *Tooltip) SetRow(cells ...string) {
	t.SetTable([][]string{cells})
}

// ClearTable removes the table.
func (t *Tooltip) ClearTable() { t.table = nil }

// MarkIdxCol marks a table column for row-name styling.
func (t *Tooltip) MarkIdxCol(col int) {
	t.idxCols[col] = struct{}{}
}

// IdxCols reports the marked column set.
func (t *Tooltip) IdxCols() map[int]struct{} {
	out := make(map[int]struct{}, len(t.idxCols))
	for col := range t.idxCols {
		out[col] = struct{}{}
	}

	return out
}

func (t *Tooltip) isIdxCol(col int) bool {
	_, ok := t.idxCols[col]
	return ok
}

// IsEmpty reports whether every attribute is absent. Empty tooltips
// are the identity-like element of Combine.
func (t *Tooltip) IsEmpty() bool {
	return t.title == "" && t.text == "" &&
		t.rowNames == nil && t.colNames == nil && t.table == nil
}

// Equal compares title, text, row names, column names and table, all
// as capped views. Index-column markers do not participate.
func (t *Tooltip) Equal(other *Tooltip, caps Caps) bool {
	if other == nil {
		return false
	}
	if t.title != other.title || t.text != other.text {
		return false
	}
	if !equalStrings(t.RowNames(caps), other.RowNames(caps)) {
		return false
	}
	if !equalStrings(t.ColNames(caps), other.ColNames(caps)) {
		return false
	}

	return equalTable(t.Table(caps), other.Table(caps))
}

// CopyFrom overwrites text with the parent's and fills title, column
// names, row names and table only where this tooltip lacks a value.
// Index columns become the union of both sets.
func (t *Tooltip) CopyFrom(parent *Tooltip) {
	t.text = parent.text
	if t.title == "" {
		t.title = parent.title
	}
	if t.colNames == nil {
		t.SetColNames(parent.colNames)
	}
	if t.rowNames == nil {
		t.SetRowNames(parent.rowNames)
	}
	if t.table == nil {
		t.SetTable(parent.table)
	}
	for col := range parent.idxCols {
		t.MarkIdxCol(col)
	}
}

// Transpose replaces the table with its transpose. Ragged rows are
// padded with empty strings up to the longest row. No-op without a
// table.
func (t *Tooltip) Transpose() {
	if t.table == nil {
		return
	}
	width := 0
	for _, row := range t.table {
		if len(row) > width {
			width = len(row)
		}
	}
	flipped := make([][]string, width)
	for c := 0; c < width; c++ {
		flipped[c] = make([]string, len(t.table))
		for r, row := range t.table {
			if c < len(row) {
				flipped[c][r] = row[c]
			}
		}
	}
	t.table = flipped
}

func capStrings(values []string, limit int) []string {
	if values == nil {
		return nil
	}
	if limit > 0 && len(values) > limit {
		values = values[:limit]
	}

	return cloneStrings(values)
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}

	return append([]string(nil), values...)
}

func equalStrings(a, b []string) bool {
	if (a == nil) != (b == nil) || len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func equalTable(a, b [][]string) bool {
	if (a == nil) != (b == nil) || len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalStrings(a[i], b[i]) {
			return false
		}
	}

	return true
}

func padRow(row []string, width int) []string {
	out := make([]string, 0, width)
	out = append(out, row...)
	for len(out) < width {
		out = append(out, "")
	}

	return out
}

func joinTexts(a, b string) string {
	return strings.Trim(a+"\n"+b, "\n")
}
