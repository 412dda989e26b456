package snake

import (
	"errors"
	"testing"
)

func TestDecodeMoves(t *testing.T) {
	tests := []struct {
		name     string
		log      string
		expected []Direction
	}{
		{"empty", "", []Direction{}},
		{"single", "r", []Direction{DirRight}},
		{"all symbols", "udlr", []Direction{DirUp, DirDown, DirLeft, DirRight}},
		{"repeats", "rrrdd", []Direction{DirRight, DirRight, DirRight, DirDown, DirDown}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeMoves(tc.log)
			if err != nil {
				t.Fatalf("DecodeMoves(%q) error: %v", tc.log, err)
			}
			if len(got) != len(tc.expected) {
				t.Fatalf("DecodeMoves(%q) len = %d, expected %d", tc.log, len(got), len(tc.expected))
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("Move %d = %v, expected %v", i, got[i], tc.expected[i])
				}
			}
			if enc := EncodeMoves(got); enc != tc.log {
				t.Errorf("EncodeMoves round trip = %q, expected %q", enc, tc.log)
			}
		})
	}
}

func TestDecodeMovesInvalid(t *testing.T) {
	tests := []struct {
		name   string
		log    string
		index  int
		symbol rune
	}{
		{"uppercase", "rrU", 2, 'U'},
		{"digit", "1", 0, '1'},
		{"space", "r d", 1, ' '},
		{"non-ascii", "rré", 2, 'é'},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeMoves(tc.log)
			if err == nil {
				t.Fatalf("DecodeMoves(%q) should fail", tc.log)
			}
			if !errors.Is(err, ErrInvalidSymbol) {
				t.Errorf("Expected ErrInvalidSymbol, got %v", err)
			}
			var se *SymbolError
			if !errors.As(err, &se) {
				t.Fatalf("Expected *SymbolError, got %T", err)
			}
			if se.Index != tc.index || se.Symbol != tc.symbol {
				t.Errorf("SymbolError = {%d %q}, expected {%d %q}", se.Index, se.Symbol, tc.index, tc.symbol)
			}
		})
	}
}

func TestDirection(t *testing.T) {
	tests := []struct {
		dir      Direction
		opposite Direction
		vector   Point
		symbol   byte
	}{
		{DirUp, DirDown, Point{0, -1}, 'u'},
		{DirDown, DirUp, Point{0, 1}, 'd'},
		{DirLeft, DirRight, Point{-1, 0}, 'l'},
		{DirRight, DirLeft, Point{1, 0}, 'r'},
	}

	for _, tc := range tests {
		t.Run(tc.dir.String(), func(t *testing.T) {
			if got := tc.dir.Opposite(); got != tc.opposite {
				t.Errorf("Opposite() = %v, expected %v", got, tc.opposite)
			}
			if got := tc.dir.Vector(); got != tc.vector {
				t.Errorf("Vector() = %v, expected %v", got, tc.vector)
			}
			if got := tc.dir.Symbol(); got != tc.symbol {
				t.Errorf("Symbol() = %q, expected %q", got, tc.symbol)
			}
			parsed, ok := ParseSymbol(tc.symbol)
			if !ok || parsed != tc.dir {
				t.Errorf("ParseSymbol(%q) = %v, %v", tc.symbol, parsed, ok)
			}
		})
	}
}

func TestPointInBounds(t *testing.T) {
	tests := []struct {
		p        Point
		expected bool
	}{
		{Point{0, 0}, true},
		{Point{19, 19}, true},
		{Point{-1, 0}, false},
		{Point{0, 20}, false},
		{Point{20, 5}, false},
	}

	for _, tc := range tests {
		if got := tc.p.InBounds(GridSize); got != tc.expected {
			t.Errorf("%v.InBounds(%d) = %v, expected %v", tc.p, GridSize, got, tc.expected)
		}
	}
}
