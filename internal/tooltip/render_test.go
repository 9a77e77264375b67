package tooltip_test

import (
	"strings"
	"testing"

	"codeberg.org/mutker/waybarmon/internal/style"
	"codeberg.org/mutker/waybarmon/internal/tooltip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bare sheet: every class passes text through unwrapped
func bareSheet() *style.Sheet {
	return style.NewSheet()
}

func TestRenderGridTitledTable(t *testing.T) {
	tip := tooltip.Build(tooltip.Fields{
		Title:    "Load",
		ColNames: []string{"1 min", "5 min", "15 min"},
		Table:    [][]string{{"0.1", "0.2", "0.3"}},
	})

	grid, err := tip.RenderGrid(bareSheet(), caps())
	require.NoError(t, err)
	require.Len(t, grid, 3)
	assert.Equal(t, []string{"Load"}, grid[0])
	assert.Equal(t, []string{"1 min", "5 min", "15 min"}, grid[1])
	assert.Equal(t, []string{"0.1", "0.2", "0.3"}, grid[2])

	out, err := tip.Render(bareSheet(), caps())
	require.NoError(t, err)
	assert.Equal(t, "Load\n1 min\t5 min\t15 min\n0.1\t0.2\t0.3", out)
}

func TestRenderSpacerOnlyBetweenTitleAndText(t *testing.T) {
	titled := tooltip.FromText("Network", "")
	grid, err := titled.RenderGrid(bareSheet(), caps())
	require.NoError(t, err)
	require.Len(t, grid, 1)

	both := tooltip.FromText("Network", "disconnected")
	grid, err = both.RenderGrid(bareSheet(), caps())
	require.NoError(t, err)
	require.Len(t, grid, 3)
	assert.Empty(t, grid[1])
	assert.Equal(t, []string{"disconnected"}, grid[2])
}

func TestRenderRowNamesPrependedWithHeaderCorner(t *testing.T) {
	grid, err := sampleTip().RenderGrid(bareSheet(), caps())
	require.NoError(t, err)
	// title, spacer, text, header, three data rows
	require.Len(t, grid, 7)
	assert.Equal(t, []string{"", "col 1", "col 2", "col 3"}, grid[3])
	assert.Equal(t, []string{"row 1", "1,1", "1,2", "1,3"}, grid[4])
}

func TestRenderPadsMissingRowNames(t *testing.T) {
	tip := tooltip.Build(tooltip.Fields{
		RowNames: []string{"only"},
		Table:    [][]string{{"a"}, {"b"}},
	})
	grid, err := tip.RenderGrid(bareSheet(), caps())
	require.NoError(t, err)
	require.Len(t, grid, 2)
	assert.Equal(t, []string{"only", "a"}, grid[0])
	assert.Equal(t, []string{"", "b"}, grid[1])
}

func TestRenderStylesIdxColsAsRowNames(t *testing.T) {
	sheet := style.NewSheet()
	sheet.Parse(".row-name {\n    color: green;\n}\n")

	tip := tooltip.Build(tooltip.Fields{
		Table:   [][]string{{"plain", "marked"}},
		IdxCols: []int{1},
	})
	grid, err := tip.RenderGrid(sheet, caps())
	require.NoError(t, err)
	assert.Equal(t, "plain", grid[0][0])
	assert.Equal(t, `<span color="green">marked</span>`, grid[0][1])
}

func TestRenderClipsCells(t *testing.T) {
	sheet := style.NewSheet()
	sheet.Parse(".cell {\n    clip: 5;\n}\n")

	tip := tooltip.Build(tooltip.Fields{Row: []string{"a very long cell value"}})
	grid, err := tip.RenderGrid(sheet, caps())
	require.NoError(t, err)
	assert.Equal(t, "a ver", grid[0][0])

	// fallback to caps when the sheet carries no clip
	grid, err = tip.RenderGrid(bareSheet(), tooltip.Caps{MaxCellWidth: 6})
	require.NoError(t, err)
	assert.Equal(t, "a very", grid[0][0])
}

func TestRenderAppliesRowCap(t *testing.T) {
	tip := tooltip.Build(tooltip.Fields{
		Table: [][]string{{"1"}, {"2"}, {"3"}, {"4"}, {"5"}},
	})
	grid, err := tip.RenderGrid(bareSheet(), tooltip.Caps{MaxRows: 2})
	require.NoError(t, err)
	assert.Len(t, grid, 2)
}

func TestRenderStyledTitle(t *testing.T) {
	sheet := style.NewSheet()
	sheet.Parse(".title {\n    color: blue;\n    weight: bold;\n}\n")

	out, err := tooltip.FromText("CPU", "").Render(sheet, caps())
	require.NoError(t, err)
	assert.Equal(t, `<span color="blue" weight="bold">CPU</span>`, out)
	assert.False(t, strings.Contains(out, "\n"))
}
