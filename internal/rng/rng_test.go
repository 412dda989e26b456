package rng

import (
	"strings"
	"testing"
)

func TestStreamDeterminism(t *testing.T) {
	a := New("AbCdEf1234")
	b := New("AbCdEf1234")

	// Run past a round boundary (8 floats per round).
	for i := 0; i < 50; i++ {
		fa, fb := a.NextFloat(), b.NextFloat()
		if fa != fb {
			t.Fatalf("float %d differs: %v vs %v", i, fa, fb)
		}
	}
}

func TestStreamDifferentSeeds(t *testing.T) {
	a := New("seedA")
	b := New("seedB")

	same := 0
	for i := 0; i < 20; i++ {
		if a.NextFloat() == b.NextFloat() {
			same++
		}
	}
	if same == 20 {
		t.Error("Different seeds produced identical streams")
	}
}

func TestStreamRange(t *testing.T) {
	s := New("range")
	for i := 0; i < 10000; i++ {
		f := s.NextFloat()
		if f < 0 || f >= 1 {
			t.Fatalf("NextFloat() = %v, expected value in [0,1)", f)
		}
	}
}

func TestBytesToFloat(t *testing.T) {
	tests := []struct {
		name     string
		in       [4]byte
		expected float64
	}{
		{"zero", [4]byte{0, 0, 0, 0}, 0},
		{"half", [4]byte{128, 0, 0, 0}, 0.5},
		{"quarter", [4]byte{64, 0, 0, 0}, 0.25},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := bytesToFloat(tc.in); got != tc.expected {
				t.Errorf("bytesToFloat(%v) = %v, expected %v", tc.in, got, tc.expected)
			}
		})
	}

	if top := bytesToFloat([4]byte{255, 255, 255, 255}); top >= 1 {
		t.Errorf("bytesToFloat(max) = %v, expected < 1", top)
	}
}

func TestNewSeed(t *testing.T) {
	s := NewSeed(10)
	if len(s) != 10 {
		t.Errorf("Expected seed length 10, got %d", len(s))
	}
	for _, c := range s {
		if !strings.ContainsRune(SeedAlphabet, c) {
			t.Errorf("Seed contains %q outside alphabet", c)
		}
	}
	if !ValidSeed(s) {
		t.Errorf("ValidSeed(%q) = false for generated seed", s)
	}

	if got := NewSeed(0); len(got) != DefaultSeedLength {
		t.Errorf("NewSeed(0) length = %d, expected %d", len(got), DefaultSeedLength)
	}
}

func TestValidSeed(t *testing.T) {
	tests := []struct {
		seed     string
		expected bool
	}{
		{"abcXYZ0189", true},
		{"", false},
		{"has space", false},
		{"dash-seed", false},
		{strings.Repeat("a", 65), false},
	}

	for _, tc := range tests {
		if got := ValidSeed(tc.seed); got != tc.expected {
			t.Errorf("ValidSeed(%q) = %v, expected %v", tc.seed, got, tc.expected)
		}
	}
}
