package tooltip

// Combine merges another tooltip into this one, producing a fresh
// value. The operation is asymmetric: t's title wins, t's table sits
// on the left, and the other side's row names are injected as an
// inline column after the separator bar. Combining with an empty
// tooltip yields the other operand.
//
// Both operands contribute their capped views, so rows beyond
// caps.MaxRows never enter the merged grid.
func (t *Tooltip) Combine(other *Tooltip, caps Caps) *Tooltip {
	bar := caps.Bar
	if bar == "" {
		bar = DefaultBar
	}

	out := New()
	out.title = t.title
	if out.title == "" {
		out.title = other.title
	}
	out.text = joinTexts(t.text, other.text)

	myTable := t.Table(caps)
	itsTable := other.Table(caps)

	switch {
	case itsTable == nil:
		out.SetColNames(t.ColNames(caps))
		out.SetRowNames(t.RowNames(caps))
		out.SetTable(myTable)
		for col := range t.idxCols {
			out.MarkIdxCol(col)
		}
	case myTable == nil:
		// the surviving table brings its own row names along
		out.SetColNames(other.ColNames(caps))
		out.SetRowNames(other.RowNames(caps))
		out.SetTable(itsTable)
		for col := range other.idxCols {
			out.MarkIdxCol(col)
		}
	default:
		t.combineGrids(other, out, myTable, itsTable, bar, caps)
	}

	return out
}

func (t *Tooltip) combineGrids(other, out *Tooltip, myTable, itsTable [][]string, bar string, caps Caps) {
	myCols := 0
	for _, row := range myTable {
		if len(row) > myCols {
			myCols = len(row)
		}
	}

	out.SetRowNames(t.RowNames(caps))

	// header: my names padded to my width, the bar, a corner
	// placeholder when the other side carries row names, then its
	// names
	itsRowNames := other.RowNames(caps)
	colNames := padRow(t.ColNames(caps), myCols)
	colNames = append(colNames, bar)
	if itsRowNames != nil {
		colNames = append(colNames, "")
	}
	colNames = append(colNames, other.ColNames(caps)...)
	out.SetColNames(colNames)

	rows := len(myTable)
	if len(itsTable) > rows {
		rows = len(itsTable)
	}
	grid := make([][]string, 0, rows)
	for i := 0; i < rows; i++ {
		var row []string
		if i < len(myTable) {
			row = padRow(myTable[i], myCols)
		} else {
			row = padRow(nil, myCols)
		}
		row = append(row, bar)
		if itsRowNames != nil {
			name := ""
			if i < len(itsRowNames) {
				name = itsRowNames[i]
			}
			row = append(row, name)
		}
		if i < len(itsTable) {
			row = append(row, itsTable[i]...)
		}
		grid = append(grid, row)
	}
	out.SetTable(grid)

	for col := range t.idxCols {
		out.MarkIdxCol(col)
	}
	if itsRowNames != nil {
		out.MarkIdxCol(myCols + 1)
	}
	for col := range other.idxCols {
		out.MarkIdxCol(col + myCols + 1)
	}
}
