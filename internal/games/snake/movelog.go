package snake

import (
	"errors"
	"fmt"
)

// ErrInvalidSymbol is returned when a move log contains a character outside {u,d,l,r}.
var ErrInvalidSymbol = errors.New("snake: invalid move symbol")

// SymbolError reports where a move log failed to decode.
type SymbolError struct {
	Index  int  // Byte offset in the log
	Symbol rune // Offending character
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("snake: invalid move symbol %q at index %d", e.Symbol, e.Index)
}

// Unwrap lets errors.Is match ErrInvalidSymbol.
func (e *SymbolError) Unwrap() error {
	return ErrInvalidSymbol
}

// ParseSymbol maps a move log symbol to its direction.
func ParseSymbol(c byte) (Direction, bool) {
	switch c {
	case 'u':
		return DirUp, true
	case 'd':
		return DirDown, true
	case 'l':
		return DirLeft, true
	case 'r':
		return DirRight, true
	}
	return 0, false
}

// DecodeMoves turns a move log into the ordered moves it records.
// An empty log decodes to an empty slice; length is never an error.
func DecodeMoves(log string) ([]Direction, error) {
	moves := make([]Direction, 0, len(log))
	for i, r := range log {
		if r > 0x7f {
			return nil, &SymbolError{Index: i, Symbol: r}
		}
		d, ok := ParseSymbol(byte(r))
		if !ok {
			return nil, &SymbolError{Index: i, Symbol: r}
		}
		moves = append(moves, d)
	}
	return moves, nil
}

// EncodeMoves is the inverse of DecodeMoves.
func EncodeMoves(moves []Direction) string {
	buf := make([]byte, len(moves))
	for i, d := range moves {
		buf[i] = d.Symbol()
	}
	return string(buf)
}

// Run is a finished game: the unit persisted to the leaderboard and replayed.
type Run struct {
	Seed    string
	MoveLog string
	Score   int
}
