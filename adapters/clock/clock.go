// Package clock provides the Clock used to stamp edited times on rows.
package clock

import (
	"sync"
	"time"

	"github.com/artpar/notionorm/ports"
)

// Real reads the wall clock in UTC.
type Real struct{}

func (Real) Now() time.Time {
	return time.Now().UTC()
}

// Stepping returns start on the first call and moves forward by step after
// every call, so rows written in sequence get distinct, ordered timestamps.
// A zero step gives a frozen clock.
type Stepping struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

func NewStepping(start time.Time, step time.Duration) *Stepping {
	return &Stepping{next: start.UTC(), step: step}
}

func (s *Stepping) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.next
	s.next = s.next.Add(s.step)
	return now
}

// Skip moves the clock forward by d without returning a time.
func (s *Stepping) Skip(d time.Duration) {
	s.mu.Lock()
	s.next = s.next.Add(d)
	s.mu.Unlock()
}

var (
	_ ports.Clock = Real{}
	_ ports.Clock = (*Stepping)(nil)
)
