package waybar_test

import (
	"testing"

	"codeberg.org/mutker/waybarmon/internal/style"
	"codeberg.org/mutker/waybarmon/internal/tooltip"
	"codeberg.org/mutker/waybarmon/internal/waybar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, cargo *waybar.Cargo) string {
	t.Helper()
	out, err := cargo.Encode(style.NewSheet(), tooltip.DefaultCaps())
	require.NoError(t, err)

	return string(out)
}

func TestEncodeFull(t *testing.T) {
	cargo := waybar.New()
	cargo.SetText("Display")
	cargo.SetAlt("Alternate")
	cargo.Tooltip = tooltip.New()
	cargo.SetClass("style-class-1", "style-class-2")
	cargo.SetPercentage(50)

	assert.JSONEq(t,
		`{"text":"Display","alt":"Alternate","tooltip":"","class":["style-class-1","style-class-2"],"percentage":"50"}`,
		encode(t, cargo))
}

func TestEncodeAbsentFieldsAreNull(t *testing.T) {
	assert.JSONEq(t,
		`{"text":null,"alt":null,"tooltip":null,"class":null,"percentage":null}`,
		encode(t, waybar.New()))
}

func TestEncodeSingleClassIsBareString(t *testing.T) {
	cargo := waybar.New()
	cargo.SetClass("cpu")
	assert.Contains(t, encode(t, cargo), `"class":"cpu"`)
}

func TestEncodeRendersTooltip(t *testing.T) {
	cargo := waybar.New()
	cargo.Tooltip = tooltip.Build(tooltip.Fields{
		Title: "Load",
		Row:   []string{"0.1", "0.2"},
	})

	assert.Contains(t, encode(t, cargo), `"tooltip":"Load\n0.1\t0.2"`)
}

func TestEncodeFractionalPercentage(t *testing.T) {
	cargo := waybar.New()
	cargo.SetPercentage(12.5)
	assert.Contains(t, encode(t, cargo), `"percentage":"12.5"`)
}
