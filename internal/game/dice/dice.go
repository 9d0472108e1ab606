// Package dice implements the six-sided dice rolling for RSP football.
//
// Rollers are injected into the engine so tests can script exact outcomes
// while the server rolls from a high-entropy seed.
package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

const sides = 6

// Roller yields a single die face in [1, 6] per call.
type Roller func() int

// New returns a Roller seeded with the provided value.
//
// New is deterministic with respect to seed: the same seed always yields the
// same face sequence.
func New(seed int64) Roller {
	rng := rand.New(rand.NewSource(seed))
	return func() int {
		return rng.Intn(sides) + 1
	}
}

// NewSeed generates a roller seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Roll rolls count dice and returns the faces in roll order.
func Roll(roll Roller, count int) []int {
	faces := make([]int, count)
	for i := range faces {
		faces[i] = roll()
	}
	return faces
}

// Scripted returns a Roller that replays the given faces in order. It panics
// when the script runs out, which in a test marks a transition that rolled
// more dice than the scenario expected.
func Scripted(faces ...int) Roller {
	i := 0
	return func() int {
		if i >= len(faces) {
			panic("scripted roller exhausted")
		}
		face := faces[i]
		i++
		return face
	}
}
