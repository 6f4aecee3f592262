// Package random provides the Intner that picks default option colors.
// None of these sources are suitable for secrets.
package random

import (
	"math/rand/v2"
	"sync"

	"github.com/artpar/notionorm/ports"
)

// Real draws from the runtime's shared pseudo-random source.
type Real struct{}

// IntN returns a value in [0, n). It panics if n <= 0.
func (Real) IntN(n int) int {
	return rand.IntN(n)
}

// Fake replays preset values and then counts up from zero.
type Fake struct {
	mu     sync.Mutex
	values []int
	calls  int
}

func NewFake() *Fake {
	return &Fake{}
}

// WithValues replaces the presets and rewinds the source.
func (f *Fake) WithValues(values ...int) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = values
	f.calls = 0
	return f
}

// IntN reduces the next preset (or the overflow count) into [0, n).
func (f *Fake) IntN(n int) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := f.calls - len(f.values)
	if f.calls < len(f.values) {
		v = f.values[f.calls]
	}
	f.calls++
	return ((v % n) + n) % n
}

var (
	_ ports.Intner = Real{}
	_ ports.Intner = (*Fake)(nil)
)
