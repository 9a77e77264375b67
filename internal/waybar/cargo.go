// Package waybar carries the JSON return object a custom waybar
// module prints on stdout, one line per refresh.
package waybar

import (
	"encoding/json"
	"strconv"

	"codeberg.org/mutker/waybarmon/internal/errors"
	"codeberg.org/mutker/waybarmon/internal/style"
	"codeberg.org/mutker/waybarmon/internal/tooltip"
)

// Hidden is the payload that hides the segment entirely.
const Hidden = `{"text": null}`

// Cargo is the per-cycle summary a monitor loads for waybar: display
// text, alternate text, the hover tooltip, style classes, and a
// percentage waybar uses for icon selection. Nil fields serialize as
// JSON null.
type Cargo struct {
	Text       *string
	Alt        *string
	Tooltip    *tooltip.Tooltip
	Classes    []string
	Percentage *float64
}

// New returns a cargo with every field absent.
func New() *Cargo {
	return &Cargo{}
}

// SetText sets the primary display text. A segment with null text is
// hidden by waybar.
func (c *Cargo) SetText(text string) { c.Text = &text }

// HideText clears the display text.
func (c *Cargo) HideText() { c.Text = nil }

// SetAlt sets the alternate text waybar matches icons against.
func (c *Cargo) SetAlt(alt string) { c.Alt = &alt }

// SetClass replaces the style class list.
func (c *Cargo) SetClass(classes ...string) { c.Classes = classes }

// SetPercentage sets the numeric summary value.
func (c *Cargo) SetPercentage(pct float64) { c.Percentage = &pct }

type payload struct {
	Text       *string `json:"text"`
	Alt        *string `json:"alt"`
	Tooltip    *string `json:"tooltip"`
	Class      any     `json:"class"`
	Percentage *string `json:"percentage"`
}

// Encode serializes the cargo, rendering the tooltip against the
// given sheet and caps. The percentage travels as a string; a single
// style class travels as a bare string, several as an array.
func (c *Cargo) Encode(sheet *style.Sheet, caps tooltip.Caps) ([]byte, error) {
	p := payload{
		Text: c.Text,
		Alt:  c.Alt,
	}

	if c.Tooltip != nil {
		rendered, err := c.Tooltip.Render(sheet, caps)
		if err != nil {
			return nil, err
		}
		p.Tooltip = &rendered
	}

	switch len(c.Classes) {
	case 0:
	case 1:
		p.Class = c.Classes[0]
	default:
		p.Class = c.Classes
	}

	if c.Percentage != nil {
		pct := strconv.FormatFloat(*c.Percentage, 'f', -1, 64)
		p.Percentage = &pct
	}

	out, err := json.Marshal(p)
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrInternal, err)
	}

	return out, nil
}
