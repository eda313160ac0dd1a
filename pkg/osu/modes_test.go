package osu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"":         Standard,
		"standard": Standard,
		" Taiko ":  Taiko,
		"CATCH":    Catch,
		"mania":    Mania,
		"0":        Standard,
		"3":        Mania,
	}
	for in, want := range cases {
		got, err := ParseMode(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	for _, bad := range []string{"fruits", "4", "-1", "osu!"} {
		_, err := ParseMode(bad)
		assert.ErrorIs(t, err, ErrInvalidMode, "input %q", bad)
	}
}

func TestZeroModeIsStandard(t *testing.T) {
	var m Mode
	code, ok := m.Code()
	assert.True(t, ok)
	assert.Equal(t, 0, code)
	label, ok := m.Label()
	assert.True(t, ok)
	assert.Equal(t, "osu!", label)
	assert.Equal(t, "standard", m.String())
}

func TestUnknownModeHasNoCode(t *testing.T) {
	_, ok := Mode("fruits").Code()
	assert.False(t, ok)
	_, ok = Mode("fruits").Label()
	assert.False(t, ok)
}

func TestModesOrder(t *testing.T) {
	modes := Modes()
	assert.Equal(t, []Mode{Standard, Taiko, Catch, Mania}, modes)
	modes[0] = Mania
	assert.Equal(t, Standard, Modes()[0], "Modes must return a copy")
}
