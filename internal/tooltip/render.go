package tooltip

import (
	"strings"

	"codeberg.org/mutker/waybarmon/internal/style"
)

// RenderGrid produces the printable rows of the tooltip, each cell
// already styled. Order: title (with a spacer row only when text
// follows), text, column-name header, then data rows with row names
// prepended. Cells are clipped to the cell class clip length, falling
// back to caps.MaxCellWidth.
func (t *Tooltip) RenderGrid(sheet *style.Sheet, caps Caps) ([][]string, error) {
	var grid [][]string

	if t.title != "" {
		cell, err := sheet.Stylize(t.title, style.Title)
		if err != nil {
			return nil, err
		}
		grid = append(grid, []string{cell})
		if t.text != "" {
			grid = append(grid, []string{})
		}
	}

	if t.text != "" {
		cell, err := sheet.Stylize(t.text, style.Text)
		if err != nil {
			return nil, err
		}
		grid = append(grid, []string{cell})
	}

	table := t.Table(caps)
	if table == nil {
		return grid, nil
	}

	rowNames := t.RowNames(caps)

	if colNames := t.ColNames(caps); colNames != nil {
		var header []string
		if rowNames != nil {
			header = append(header, "")
		}
		for _, name := range colNames {
			cell, err := sheet.Stylize(name, style.ColName)
			if err != nil {
				return nil, err
			}
			header = append(header, cell)
		}
		grid = append(grid, header)
	}

	clip := sheet.Clip(style.Cell, caps.MaxCellWidth)

	if rowNames == nil {
		for _, row := range table {
			styled, err := t.renderRow(sheet, row, clip)
			if err != nil {
				return nil, err
			}
			grid = append(grid, styled)
		}

		return grid, nil
	}

	rows := len(table)
	if len(rowNames) > rows {
		rows = len(rowNames)
	}
	for i := 0; i < rows; i++ {
		name := ""
		if i < len(rowNames) {
			name = rowNames[i]
		}
		nameCell, err := sheet.Stylize(name, style.RowName)
		if err != nil {
			return nil, err
		}
		row := []string{nameCell}
		if i < len(table) {
			cells, err := t.renderRow(sheet, table[i], clip)
			if err != nil {
				return nil, err
			}
			row = append(row, cells...)
		}
		grid = append(grid, row)
	}

	return grid, nil
}

func (t *Tooltip) renderRow(sheet *style.Sheet, row []string, clip int) ([]string, error) {
	out := make([]string, 0, len(row))
	for col, cell := range row {
		class := style.Cell
		if t.isIdxCol(col) {
			class = style.RowName
		}
		styled, err := sheet.Stylize(clipString(cell, clip), class)
		if err != nil {
			return nil, err
		}
		out = append(out, styled)
	}

	return out, nil
}

// Render joins the styled grid with tabs between cells and newlines
// between rows, the form waybar expects in the tooltip field.
func (t *Tooltip) Render(sheet *style.Sheet, caps Caps) (string, error) {
	grid, err := t.RenderGrid(sheet, caps)
	if err != nil {
		return "", err
	}
	rows := make([]string, len(grid))
	for i, row := range grid {
		rows[i] = strings.Join(row, "\t")
	}

	return strings.Join(rows, "\n"), nil
}

func clipString(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	return string(runes[:max])
}
