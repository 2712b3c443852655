package radio

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Backend is the platform radio driver consumed by the baseband scheduler.
// Enable must be idempotent.
type Backend interface {
	Enable()
	Disable()
	SetActiveProtocol(id uint8)
}

// EventKind labels one backend call.
type EventKind string

const (
	EventEnable      EventKind = "enable"
	EventDisable     EventKind = "disable"
	EventSetProtocol EventKind = "set_protocol"
)

// Event is one recorded backend call.
type Event struct {
	Kind     EventKind `json:"kind"`
	Protocol uint8     `json:"protocol,omitempty"`
}

// Nop is a Backend that does nothing.
type Nop struct{}

func (Nop) Enable() {}

func (Nop) Disable() {}

func (Nop) SetActiveProtocol(uint8) {}

// Sim records backend calls and tracks power state.
type Sim struct {
	mu       sync.Mutex
	enabled  bool
	protocol uint8
	enables  int
	events   []Event
	logger   zerolog.Logger
}

var (
	_ Backend = Nop{}
	_ Backend = (*Sim)(nil)
)

// NewSim creates a simulated backend logging to the global logger.
func NewSim() *Sim {
	return NewSimWithLogger(log.Logger)
}

func NewSimWithLogger(logger zerolog.Logger) *Sim {
	return &Sim{
		events: make([]Event, 0),
		logger: logger.With().Str("component", "radio").Logger(),
	}
}

func (s *Sim) Enable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, Event{Kind: EventEnable})
	if s.enabled {
		return
	}
	s.enabled = true
	s.enables++
	s.logger.Debug().Msg("radio enabled")
}

func (s *Sim) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, Event{Kind: EventDisable})
	if !s.enabled {
		return
	}
	s.enabled = false
	s.logger.Debug().Msg("radio disabled")
}

func (s *Sim) SetActiveProtocol(id uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, Event{Kind: EventSetProtocol, Protocol: id})
	s.protocol = id
	s.logger.Debug().Uint8("protocol", id).Msg("radio protocol selected")
}

// Enabled reports whether the radio is powered.
func (s *Sim) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Protocol returns the last protocol selected.
func (s *Sim) Protocol() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.protocol
}

// PowerUps returns the number of off-to-on transitions.
func (s *Sim) PowerUps() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enables
}

// Events returns a copy of the recorded call log.
func (s *Sim) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Reset clears the call log without touching power state.
func (s *Sim) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = s.events[:0]
}
