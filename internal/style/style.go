// Package style resolves the five fixed presentation classes to pango
// markup attributes, parsed from a minimal stylesheet format.
package style

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"codeberg.org/mutker/waybarmon/internal/errors"
	"codeberg.org/mutker/waybarmon/internal/logger"
)

// Class names a presentation role. The set is closed: anything outside
// it is rejected at render time.
type Class string

const (
	Title   Class = "title"
	Text    Class = "text"
	RowName Class = "row-name"
	ColName Class = "col-name"
	Cell    Class = "cell"
)

// Classes lists every recognized style class.
var Classes = [...]Class{Title, Text, RowName, ColName, Cell}

// Known reports whether the class belongs to the fixed set.
func (c Class) Known() bool {
	for _, k := range Classes {
		if c == k {
			return true
		}
	}

	return false
}

// Attrs are markup attributes for one class. The "clip" attribute is
// special: it caps cell width and is never emitted as markup.
type Attrs map[string]string

const clipAttr = "clip"

var (
	// selectorRE picks one selector block with its attribute body
	selectorRE = regexp.MustCompile(`\n\s*?((?:\S+\s*?)*?)\{\s*\n*((?:\s*\S+\s*:\s*\S+\s*;\s*\n*)*)\}`)
	// attrRE picks "key: value;" pairs inside a block
	attrRE = regexp.MustCompile(`\s*(\S+)\s*:\s*(\S+)\s*;\s*\n*`)
	// classRE picks class selectors and the wildcard; the token stops
	// before commas so grouped selectors resolve class by class
	classRE = regexp.MustCompile(`(\.[\w-]+|\*)`)
)

// Sheet holds resolved attributes per style class. Later parses
// override earlier ones attribute by attribute.
type Sheet struct {
	styles map[Class]Attrs
}

// NewSheet returns a sheet with every known class present and bare.
func NewSheet() *Sheet {
	styles := make(map[Class]Attrs, len(Classes))
	for _, c := range Classes {
		styles[c] = Attrs{}
	}

	return &Sheet{styles: styles}
}

// Load builds a sheet from the given stylesheet paths. Missing files
// are skipped; the sheet stays usable with whatever parsed.
func Load(paths ...string) *Sheet {
	sheet := NewSheet()
	for _, path := range paths {
		contents, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		sheet.Parse(string(contents))
		logger.Debug().Str("path", path).Msg("Parsed style sheet")
	}

	return sheet
}

// Parse extracts selector blocks and overwrites current attributes.
func (s *Sheet) Parse(contents string) {
	for _, block := range selectorRE.FindAllStringSubmatch("\n"+contents+"\n", -1) {
		attrs := Attrs{}
		for _, kv := range attrRE.FindAllStringSubmatch(block[2], -1) {
			attrs[kv[1]] = kv[2]
		}
		for _, sel := range classRE.FindAllString(block[1], -1) {
			if sel == "*" {
				for c := range s.styles {
					mergeAttrs(s.styles[c], attrs)
				}
				continue
			}
			c := Class(strings.TrimPrefix(sel, "."))
			if c.Known() {
				mergeAttrs(s.styles[c], attrs)
			}
		}
	}
}

func mergeAttrs(dst, src Attrs) {
	for k, v := range src {
		dst[k] = v
	}
}

// Clip returns the configured clip length for the class, or fallback
// when the class does not carry a usable clip attribute.
func (s *Sheet) Clip(class Class, fallback int) int {
	attrs, ok := s.styles[class]
	if !ok {
		return fallback
	}
	if n, err := strconv.Atoi(attrs[clipAttr]); err == nil && n > 0 {
		return n
	}

	return fallback
}

// Stylize wraps text in a pango span carrying the class attributes.
// Text passes through unwrapped when the class has no attributes.
// An unknown class is a configuration error, not a fallback.
func (s *Sheet) Stylize(text string, class Class) (string, error) {
	attrs, ok := s.styles[class]
	if !ok {
		return "", errors.New().WithData(errors.ErrBadStyleClass, string(class))
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		if k == clipAttr {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return text, nil
	}
	sort.Strings(keys)

	tags := make([]string, 0, len(keys))
	for _, k := range keys {
		tags = append(tags, fmt.Sprintf("%s=%q", k, attrs[k]))
	}

	return fmt.Sprintf("<span %s>%s</span>", strings.Join(tags, " "), text), nil
}
