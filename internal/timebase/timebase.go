// Package timebase owns the free-running counter contract consumed by protocol
// layers when computing deadlines.
package timebase

import (
	"sync"

	"github.com/danmuck/bbctl/internal/ticks"
)

// Timebase is a monotonic counter that wraps to 0 after Boundary.
type Timebase interface {
	Now() uint32
	Boundary() ticks.Boundary
}

// Sim is a manually advanced counter for simulation and tests.
type Sim struct {
	mu       sync.Mutex
	now      uint32
	boundary ticks.Boundary
}

var _ Timebase = (*Sim)(nil)

// NewSim creates a simulated counter starting at start (wrapped into range).
func NewSim(boundary ticks.Boundary, start uint32) *Sim {
	s := &Sim{boundary: boundary}
	s.Set(start)
	return s
}

func (s *Sim) Now() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *Sim) Boundary() ticks.Boundary {
	return s.boundary
}

// Advance moves the counter forward by d ticks, wrapping modulo B+1.
func (s *Sim) Advance(d uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = wrap(s.boundary, uint64(s.now)+uint64(d))
	return s.now
}

// Set places the counter at t, wrapping modulo B+1.
func (s *Sim) Set(t uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = wrap(s.boundary, uint64(t))
}

func wrap(b ticks.Boundary, v uint64) uint32 {
	return uint32(v % (uint64(b) + 1))
}
