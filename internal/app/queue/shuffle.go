package queue

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"
)

// Shuffler produces a uniform random permutation of n elements via swap.
// Injected so tests can supply a deterministic sequence.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// randShuffler is the production shuffler, backed by math/rand
// seeded from crypto/rand (fallback: wall clock).
type randShuffler struct {
	rng *rand.Rand
}

// NewShuffler creates a Shuffler with an entropy-based seed.
func NewShuffler() Shuffler {
	var seed int64
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err == nil {
		seed = int64(binary.LittleEndian.Uint64(buf[:]))
	} else {
		seed = time.Now().UnixNano()
	}
	return &randShuffler{rng: rand.New(rand.NewSource(seed))}
}

// NewSeededShuffler creates a Shuffler with a fixed seed, for tests.
func NewSeededShuffler(seed int64) Shuffler {
	return &randShuffler{rng: rand.New(rand.NewSource(seed))}
}

func (s *randShuffler) Shuffle(n int, swap func(i, j int)) {
	s.rng.Shuffle(n, swap)
}
