// Package rng provides the seeded random source that drives food placement.
// A stream is a pure function of its seed string: replaying a run on another
// machine, days later, yields the exact same sequence of floats.
package rng

import (
	"crypto/hmac"
	"crypto/sha256"
	"math/rand/v2"
	"strconv"
)

// SeedAlphabet is the set of characters a generated seed is drawn from.
const SeedAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultSeedLength is the length of seeds produced for new runs.
const DefaultSeedLength = 10

// Source produces floats in [0,1).
type Source interface {
	NextFloat() float64
}

// Stream is an HMAC-SHA256 byte stream keyed by the seed.
// Each round hashes "<seed>:<round>" and yields 32 bytes; every float
// consumes exactly 4 bytes. Not safe for concurrent use.
type Stream struct {
	seed   string
	round  uint64
	pos    int
	buffer [32]byte
}

// New creates a stream positioned at the start of the seed's sequence.
func New(seed string) *Stream {
	s := &Stream{seed: seed}
	s.generateRound()
	return s
}

// Seed returns the seed the stream was created with.
func (s *Stream) Seed() string {
	return s.seed
}

// NextFloat returns the next value in [0,1).
func (s *Stream) NextFloat() float64 {
	var b [4]byte
	for i := range b {
		b[i] = s.next()
	}
	return bytesToFloat(b)
}

// next returns the next byte, advancing to a new round when the buffer is spent.
func (s *Stream) next() byte {
	if s.pos >= len(s.buffer) {
		s.round++
		s.pos = 0
		s.generateRound()
	}
	b := s.buffer[s.pos]
	s.pos++
	return b
}

func (s *Stream) generateRound() {
	h := hmac.New(sha256.New, []byte(s.seed))
	h.Write([]byte(s.seed + ":" + strconv.FormatUint(s.round, 10)))
	copy(s.buffer[:], h.Sum(nil))
}

// bytesToFloat maps 4 bytes to sum(b_i / 256^(i+1)). The maximum is
// 1 - 256^-4, so the result never reaches 1.
func bytesToFloat(b [4]byte) float64 {
	result := 0.0
	divider := 1.0
	for _, v := range b {
		divider *= 256
		result += float64(v) / divider
	}
	return result
}

// NewSeed returns a fresh seed of the given length drawn from SeedAlphabet.
// Non-positive lengths fall back to DefaultSeedLength.
func NewSeed(length int) string {
	if length <= 0 {
		length = DefaultSeedLength
	}
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = SeedAlphabet[rand.IntN(len(SeedAlphabet))]
	}
	return string(buf)
}

// ValidSeed reports whether s is a non-empty seed made only of SeedAlphabet
// characters and no longer than 64 bytes.
func ValidSeed(s string) bool {
	if s == "" || len(s) > 64 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		isAlnum := (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
		if !isAlnum {
			return false
		}
	}
	return true
}
