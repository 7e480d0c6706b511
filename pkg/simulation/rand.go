package simulation

import (
	"math/rand"
	"sync"
	"time"
)

// Rand is the source of uniform draws used by the campaign engine.
// Injectable so tests can script exact sequences.
type Rand interface {
	// Float64 returns a draw uniform in [0,1)
	Float64() float64
	// Intn returns a draw uniform in [0,n)
	Intn(n int) int
}

// Clock supplies timestamps. Substitutable for deterministic tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now
func SystemClock() Clock { return systemClock{} }

// lockedRand makes a math/rand source safe for concurrent workers
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLockedRand returns a concurrency-safe Rand seeded with the given seed
func NewLockedRand(seed int64) Rand {
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}
}

// NewTimeSeededRand returns a concurrency-safe Rand seeded from the clock
func NewTimeSeededRand() Rand {
	return NewLockedRand(time.Now().UnixNano())
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}
