package move_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Vadimur/RockPaperScissorsGame/internal/game/move"
)

func TestParse_ValidSelections(t *testing.T) {
	cases := map[string]move.Move{
		"1":    move.Rock,
		"2":    move.Paper,
		"3":    move.Scissors,
		" 2 ":  move.Paper,
		"3\t":  move.Scissors,
		"+1":   move.Rock,
		"0003": move.Scissors,
	}
	for input, want := range cases {
		got, err := move.Parse(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\t"} {
		_, err := move.Parse(input)
		assert.ErrorIs(t, err, move.ErrEmptyInput)
	}
}

func TestParse_UnknownFigure(t *testing.T) {
	for _, input := range []string{"0", "4", "-1", "rock", "1.0", "2a", "99999999999999999999"} {
		got, err := move.Parse(input)
		assert.ErrorIs(t, err, move.ErrUnknownFigure, "input %q", input)
		assert.Equal(t, move.Undefined, got)
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "Rock", move.Rock.String())
	assert.Equal(t, "Paper", move.Paper.String())
	assert.Equal(t, "Scissors", move.Scissors.String())
	assert.Equal(t, "Undefined", move.Undefined.String())
	assert.Equal(t, "Undefined", move.Move(42).String())
}

// Property: numbers outside 1..3 and numbers inside are rejected/accepted the same
// way regardless of surrounding whitespace.
func TestPropertyParse_NumericRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(-1000, 1000).Draw(t, "n")
		pad := rapid.SampledFrom([]string{"", " ", "  ", "\t"}).Draw(t, "pad")
		got, err := move.Parse(pad + strconv.Itoa(n) + pad)
		if n >= 1 && n <= 3 {
			assert.NoError(t, err)
			assert.Equal(t, move.Move(n), got)
		} else {
			assert.ErrorIs(t, err, move.ErrUnknownFigure)
		}
	})
}

// Property: Parse never returns Undefined without an error.
func TestPropertyParse_NeverUndefinedOnSuccess(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.String().Draw(t, "input")
		got, err := move.Parse(input)
		if err == nil {
			assert.True(t, got.Valid())
		}
	})
}
