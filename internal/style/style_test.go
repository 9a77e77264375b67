package style_test

import (
	"testing"

	"codeberg.org/mutker/waybarmon/internal/errors"
	"codeberg.org/mutker/waybarmon/internal/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSheet = `
.title {
    color: #7fafff;
    weight: bold;
    underline: single;
}

.row-name, .col-name {
    color: #afff7f;
}

.cell {
    clip: 16;
}
`

func parsed(t *testing.T) *style.Sheet {
	t.Helper()
	sheet := style.NewSheet()
	sheet.Parse(testSheet)

	return sheet
}

func TestStylizeTitle(t *testing.T) {
	out, err := parsed(t).Stylize("Load", style.Title)
	require.NoError(t, err)
	assert.Equal(t, `<span color="#7fafff" underline="single" weight="bold">Load</span>`, out)
}

func TestStylizeSharedSelector(t *testing.T) {
	sheet := parsed(t)
	for _, class := range []style.Class{style.RowName, style.ColName} {
		out, err := sheet.Stylize("x", class)
		require.NoError(t, err)
		assert.Contains(t, out, `color="#afff7f"`)
	}
}

func TestStylizeGroupedSelectorWithoutSpaces(t *testing.T) {
	sheet := style.NewSheet()
	sheet.Parse(".title,.text {\n    style: italic;\n}\n")
	for _, class := range []style.Class{style.Title, style.Text} {
		out, err := sheet.Stylize("x", class)
		require.NoError(t, err)
		assert.Contains(t, out, `style="italic"`)
	}
}

func TestStylizeBareClassPassesThrough(t *testing.T) {
	// text has no attributes in the test sheet
	out, err := parsed(t).Stylize("plain words", style.Text)
	require.NoError(t, err)
	assert.Equal(t, "plain words", out)
}

func TestStylizeUnknownClass(t *testing.T) {
	_, err := parsed(t).Stylize("x", style.Class("nonexistent"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrBadStyleClass, errors.CodeOf(err))
}

func TestStylizeEveryKnownClass(t *testing.T) {
	sheet := parsed(t)
	for _, class := range style.Classes {
		_, err := sheet.Stylize("x", class)
		assert.NoError(t, err, "class %s", class)
	}
}

func TestClipExcludedFromMarkup(t *testing.T) {
	sheet := parsed(t)
	out, err := sheet.Stylize("cell", style.Cell)
	require.NoError(t, err)
	assert.NotContains(t, out, "clip")
	assert.Equal(t, 16, sheet.Clip(style.Cell, 30))
	assert.Equal(t, 30, sheet.Clip(style.Text, 30))
}

func TestWildcardSelector(t *testing.T) {
	sheet := style.NewSheet()
	sheet.Parse("* {\n    lang: en;\n}\n")
	for _, class := range style.Classes {
		out, err := sheet.Stylize("x", class)
		require.NoError(t, err)
		assert.Contains(t, out, `lang="en"`)
	}
}

func TestLaterParseOverrides(t *testing.T) {
	sheet := parsed(t)
	sheet.Parse(".title {\n    color: #ff0000;\n}\n")
	out, err := sheet.Stylize("x", style.Title)
	require.NoError(t, err)
	assert.Contains(t, out, `color="#ff0000"`)
	assert.Contains(t, out, `weight="bold"`)
}
