package asteroid

import (
	"math"
	"math/rand/v2"
)

// streamIncrement is the fixed PCG stream selector; only the seed varies.
const streamIncrement = 0xda3e39cb94b95bdb

// Stream is a seeded pseudo-random sequence. Two streams built from the same
// seed produce the same values in the same order. A Stream is not safe for
// concurrent use.
type Stream struct {
	seed int32
	rng  *rand.Rand
}

// NewStream creates a stream from seed.
func NewStream(seed int32) *Stream {
	return &Stream{
		seed: seed,
		rng:  rand.New(rand.NewPCG(uint64(uint32(seed)), streamIncrement)),
	}
}

// Seed returns the seed the stream was created with.
func (s *Stream) Seed() int32 {
	return s.seed
}

// Float returns a value in [0, 1).
func (s *Stream) Float() float64 {
	return s.rng.Float64()
}

// FloatRange returns a value between lo and hi. When lo == hi the result is
// exactly lo; when lo > hi the range is simply inverted.
func (s *Stream) FloatRange(lo, hi float32) float32 {
	return lo + (hi-lo)*float32(s.rng.Float64())
}

// IntRange returns a value in [lo, hi], both inclusive.
// When hi < lo it returns lo.
func (s *Stream) IntRange(lo, hi int32) int32 {
	span := int64(hi) - int64(lo) + 1
	if span <= 0 {
		return lo
	}
	return int32(int64(lo) + s.rng.Int64N(span))
}

// RandomSeed draws a non-negative seed from the process-wide source. It is
// only used when the caller did not supply a seed, and is safe for
// concurrent use.
func RandomSeed() int32 {
	return rand.Int32N(math.MaxInt32)
}
