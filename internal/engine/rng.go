package engine

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

const streamLabel = "wheel"

// Source is a deterministic float stream derived from an integer seed.
// Each round of 32 bytes is HMAC-SHA256(seed, "wheel:<round>"), so two
// sources with the same seed always produce the same sequence.
// Source is not safe for concurrent use.
type Source struct {
	key          []byte
	seed         int64
	seeded       bool
	currentRound uint64
	currentPos   int
	buffer       [32]byte
}

// NewSeeded creates a source with a reproducible sequence for seed.
func NewSeeded(seed int64) *Source {
	s := &Source{}
	s.Reseed(seed)
	return s
}

// NewFromEntropy creates a source seeded from the system entropy pool.
func NewFromEntropy() *Source {
	s := &Source{}
	s.ReseedFromEntropy()
	return s
}

// Reseed discards the current stream and restarts it from seed.
func (s *Source) Reseed(seed int64) {
	s.reset(seed)
	s.seeded = true
}

// ReseedFromEntropy restarts the stream from a fresh random seed. The
// resulting sequence is not meant to be reproduced.
func (s *Source) ReseedFromEntropy() {
	s.reset(EntropySeed())
	s.seeded = false
}

// Seed returns the explicit seed and whether one is in use.
func (s *Source) Seed() (int64, bool) {
	return s.seed, s.seeded
}

func (s *Source) reset(seed int64) {
	s.seed = seed
	s.key = []byte(strconv.FormatInt(seed, 10))
	s.currentRound = 0
	s.currentPos = 0
	s.generateRound()
}

// Next returns the next byte from the stream.
func (s *Source) Next() byte {
	if s.currentPos >= len(s.buffer) {
		s.currentRound++
		s.currentPos = 0
		s.generateRound()
	}

	b := s.buffer[s.currentPos]
	s.currentPos++
	return b
}

// Float64 returns the next float in [0, 1) using exactly 4 bytes.
func (s *Source) Float64() float64 {
	return bytesToFloat([4]byte{s.Next(), s.Next(), s.Next(), s.Next()})
}

// Intn returns a uniform int in [0, n). It returns 0 when n <= 0.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	idx := int(math.Floor(s.Float64() * float64(n)))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

func (s *Source) generateRound() {
	h := hmac.New(sha256.New, s.key)
	fmt.Fprintf(h, "%s:%d", streamLabel, s.currentRound)
	copy(s.buffer[:], h.Sum(nil))
}

// bytesToFloat converts 4 bytes to a float64 in [0, 1).
func bytesToFloat(bytes [4]byte) float64 {
	result := 0.0
	for i, b := range bytes {
		divider := math.Pow(256, float64(i+1))
		result += float64(b) / divider
	}
	return result
}

// EntropySeed reads a seed from crypto/rand. If the entropy pool is
// unavailable it falls back to a fixed non-zero value.
func EntropySeed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0x5eed
	}
	return int64(binary.LittleEndian.Uint64(b[:]) & math.MaxInt64)
}
