package units_test

import (
	"testing"

	"codeberg.org/mutker/waybarmon/internal/errors"
	"codeberg.org/mutker/waybarmon/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScale(t *testing.T) {
	val, pref, err := units.Scale(2000, "", true)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, val, 0.05)
	assert.Equal(t, "k", pref)
}

func TestScaleDecimal(t *testing.T) {
	val, pref, err := units.Scale(2000, "", false)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, val, 0.001)
	assert.Equal(t, "k", pref)
}

func TestScaleZero(t *testing.T) {
	val, pref, err := units.Scale(0, "", true)
	require.NoError(t, err)
	assert.Zero(t, val)
	assert.Empty(t, pref)
}

func TestScaleCarriesInputPrefix(t *testing.T) {
	// 20 M expressed in m lands near k
	val, pref, err := units.ScaleString("20 M", "m", true)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, val, 0.05)
	assert.Equal(t, "k", pref)
}

func TestScaleBadPrefix(t *testing.T) {
	_, _, err := units.Scale(2000, "w", true)
	require.Error(t, err)
	assert.Equal(t, errors.ErrBadUnitPrefix, errors.CodeOf(err))

	_, _, err = units.ScaleString("2000 w", "", true)
	require.Error(t, err)
	assert.Equal(t, errors.ErrBadUnitPrefix, errors.CodeOf(err))
}

func TestScaleSubUnit(t *testing.T) {
	_, pref, err := units.Scale(0.001, "", false)
	require.NoError(t, err)
	assert.Equal(t, "m", pref)
}

func TestFormat(t *testing.T) {
	s, err := units.Format(20000000, units.Options{Spacer: " "})
	require.NoError(t, err)
	assert.Equal(t, "19.1 M", s)

	s, err = units.Format(2000, units.Options{})
	require.NoError(t, err)
	assert.Contains(t, s, "k")
}

func TestMustFormat(t *testing.T) {
	assert.NotPanics(t, func() {
		units.MustFormat(1536, units.Options{})
	})
}
