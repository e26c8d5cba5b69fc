package chat

import (
	"math/rand"
	"sync"
	"time"
)

// Picker selects one index out of n candidate answers. The selection policy
// is explicit so tests can swap in a deterministic one.
type Picker interface {
	Pick(n int) int
}

type randomPicker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomPicker selects uniformly at random.
func NewRandomPicker() Picker {
	return &randomPicker{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (p *randomPicker) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rnd.Intn(n)
}

type firstPicker struct{}

// NewFirstPicker always selects the first candidate.
func NewFirstPicker() Picker {
	return firstPicker{}
}

func (firstPicker) Pick(n int) int {
	return 0
}
