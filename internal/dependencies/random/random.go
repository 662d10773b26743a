package random

import (
	"fmt"

	"golang.org/x/crypto/blake2b"
	"lukechampine.com/frand"
)

// Random provides random number generation that can be mocked for testing
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// String generates a random string of the given length from the given alphabet
	String(length int, alphabet string) string
}

// FastRandom implements Random using the process-wide frand generator
type FastRandom struct{}

// New creates a new FastRandom
func New() *FastRandom {
	return &FastRandom{}
}

// Intn returns a random int in [0, n), or 0 when n is not positive
func (r *FastRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return frand.Intn(n)
}

// String generates a random string of the given length from the given alphabet
func (r *FastRandom) String(length int, alphabet string) string {
	return randomString(r, length, alphabet)
}

// SeededRandom is a reproducible generator. It is not safe for concurrent use;
// give each simulation its own instance.
type SeededRandom struct {
	rng *frand.RNG
}

// NewSeeded creates a generator whose sequence is fully determined by seed
func NewSeeded(seed string) *SeededRandom {
	key := blake2b.Sum256([]byte(seed))
	return &SeededRandom{rng: frand.NewCustom(key[:], 1024, 12)}
}

// NewSeededStream creates the generator for one named use of seed. Streams of
// the same seed are independent: drawing from one never shifts another.
func NewSeededStream(seed, stream string) *SeededRandom {
	// Keyed hash, so ("a/b", "c") and ("a", "b/c") cannot collide
	h, err := blake2b.New256([]byte(stream))
	if err != nil {
		panic(fmt.Sprintf("random: stream name %q: %v", stream, err))
	}
	_, _ = h.Write([]byte(seed))
	return &SeededRandom{rng: frand.NewCustom(h.Sum(nil), 1024, 12)}
}

// Intn returns a random int in [0, n), or 0 when n is not positive
func (r *SeededRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return r.rng.Intn(n)
}

// String generates a random string of the given length from the given alphabet
func (r *SeededRandom) String(length int, alphabet string) string {
	return randomString(r, length, alphabet)
}

func randomString(r Random, length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		result[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(result)
}
