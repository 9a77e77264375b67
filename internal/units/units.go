// Package units represents raw magnitudes with standard SI/IEC unit
// prefixes, scaling across the fixed prefix ladder in binary (1024) or
// decimal (1000) steps.
package units

import (
	"math"
	"regexp"
	"strconv"

	"codeberg.org/mutker/waybarmon/internal/errors"
)

// ladder of standard prefixes, from quecto to quetta; the bare unit
// sits at index 10
var ladder = [...]string{
	"q", "r", "y", "z", "a", "f", "p", "n", "μ", "m",
	"",
	"k", "M", "G", "T", "P", "E", "Z", "Y", "R", "Q",
}

const bareIndex = 10

// valRE picks a numeric magnitude optionally suffixed with a prefix
var valRE = regexp.MustCompile(`^([0-9]*\.?[0-9]*) *(\p{L})?`)

// Options control string rendering of a scaled value.
type Options struct {
	// Pref is the prefix the input value is already expressed with
	Pref string
	// Decimal selects powers of 1000 instead of powers of 1024
	Decimal bool
	// Spacer separates the value from the prefix
	Spacer string
	// After separates the prefix from the unit that follows
	After string
}

func prefIndex(pref string) (int, error) {
	for i, p := range ladder {
		if p == pref {
			return i, nil
		}
	}

	return 0, errors.New().WithData(errors.ErrBadUnitPrefix, pref)
}

// Scale represents val with the nearest standard unit prefix. The
// input may itself be expressed with a prefix. Binary scaling steps by
// 1024, decimal by 1000.
func Scale(val float64, pref string, binary bool) (float64, string, error) {
	step := 1000.0
	if binary {
		step = 1024.0
	}

	idx, err := prefIndex(pref)
	if err != nil {
		return 0, "", err
	}
	scaled := val * math.Pow(step, float64(idx-bareIndex))

	if scaled <= 0 {
		return round1(scaled), "", nil
	}

	var ord int
	if binary {
		ord = int(math.Floor(math.Log2(scaled) / 10))
	} else {
		ord = int(math.Floor(math.Log10(scaled) / 3))
	}
	ord = clamp(ord, -bareIndex, bareIndex)

	return round1(scaled / math.Pow(step, float64(ord))), ladder[ord+bareIndex], nil
}

// ScaleString is Scale for values supplied as strings, which may carry
// their own unit prefix ("20 M").
func ScaleString(val, pref string, binary bool) (float64, string, error) {
	errFactory := errors.New()

	m := valRE.FindStringSubmatch(val)
	if m == nil || m[1] == "" {
		return 0, "", errFactory.WithData(errors.ErrInvalidArgument, val)
	}

	raw, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, "", errFactory.Wrap(errors.ErrInvalidArgument, err)
	}

	idx, err := prefIndex(m[2])
	if err != nil {
		return 0, "", err
	}

	step := 1000.0
	if binary {
		step = 1024.0
	}

	return Scale(raw*math.Pow(step, float64(idx-bareIndex)), pref, binary)
}

// Format renders val as "<value><spacer><prefix><after>" using the
// nearest standard prefix.
func Format(val float64, opts Options) (string, error) {
	scaled, pref, err := Scale(val, opts.Pref, !opts.Decimal)
	if err != nil {
		return "", err
	}

	return strconv.FormatFloat(scaled, 'f', -1, 64) + opts.Spacer + pref + opts.After, nil
}

// MustFormat is Format for values known to carry a valid prefix. Bare
// numeric magnitudes can never fail.
func MustFormat(val float64, opts Options) string {
	s, err := Format(val, opts)
	if err != nil {
		panic(err)
	}

	return s
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
