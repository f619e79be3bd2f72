// Package move defines the figures a player can throw and how console input maps to them.
package move

import (
	"errors"
	"strconv"
	"strings"
)

// Move is a figure submitted for a round. The numeric values are part of the
// wire contract with the server.
type Move int

const (
	// Undefined is submitted on the player's behalf when the round timer expires.
	Undefined Move = iota
	Rock
	Paper
	Scissors
)

var (
	// ErrEmptyInput is returned by Parse for blank input.
	ErrEmptyInput = errors.New("empty input")
	// ErrUnknownFigure is returned by Parse for anything that is not 1, 2 or 3.
	ErrUnknownFigure = errors.New("unknown figure")
)

// Selectable lists the figures a player may choose, in menu order.
var Selectable = []Move{Rock, Paper, Scissors}

// String returns the figure name.
func (m Move) String() string {
	switch m {
	case Rock:
		return "Rock"
	case Paper:
		return "Paper"
	case Scissors:
		return "Scissors"
	default:
		return "Undefined"
	}
}

// Valid reports whether m is one of the selectable figures.
func (m Move) Valid() bool {
	return m >= Rock && m <= Scissors
}

// Parse converts a menu selection into a Move.
//
// Non-numeric and out-of-range input are rejected identically with
// ErrUnknownFigure.
//
// Postcondition: Returns Rock, Paper or Scissors with a nil error, or
// Undefined with ErrEmptyInput or ErrUnknownFigure.
func Parse(input string) (Move, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Undefined, ErrEmptyInput
	}
	n, err := strconv.Atoi(input)
	if err != nil {
		return Undefined, ErrUnknownFigure
	}
	m := Move(n)
	if !m.Valid() {
		return Undefined, ErrUnknownFigure
	}
	return m, nil
}
