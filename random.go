package studyquiz

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Randomizer is the source of every random choice the generators make.
// Tests substitute a scripted implementation to assert exact output.
type Randomizer interface {
	// IntN returns a value in [0, n). n is always > 0.
	IntN(n int) int
	// Shuffle permutes n elements using swap.
	Shuffle(n int, swap func(i, j int))
}

// lockedRand makes a *rand.Rand safe to share between goroutines
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandomizer returns a deterministic Randomizer for the given seed
func NewRandomizer(seed uint64) Randomizer {
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// DefaultRandomizer returns a time-seeded Randomizer safe for concurrent use
func DefaultRandomizer() Randomizer {
	return NewRandomizer(uint64(time.Now().UnixNano()))
}

func (lr *lockedRand) IntN(n int) int {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	return lr.r.IntN(n)
}

func (lr *lockedRand) Shuffle(n int, swap func(i, j int)) {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	lr.r.Shuffle(n, swap)
}

// choose picks one element of a non-empty slice
func choose(r Randomizer, items []string) string {
	return items[r.IntN(len(items))]
}

// shuffleStrings permutes items in place
func shuffleStrings(r Randomizer, items []string) {
	r.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
