package baseband

import (
	"fmt"
	"sync/atomic"

	"github.com/danmuck/bbctl/internal/radio"
	"github.com/danmuck/bbctl/internal/ticks"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type slot struct {
	funcs      ProtocolFuncs
	lowPower   func()
	registered bool
	startCount uint32
}

type inflight struct {
	op Operation
}

// Scheduler is the baseband control block for one physical radio.
type Scheduler struct {
	radio   radio.Backend
	logger  zerolog.Logger
	metrics Recorder

	cfg         Config
	initialized bool
	slots       [NumProtocols]slot
	complete    func()

	active         atomic.Pointer[inflight]
	terminate      atomic.Bool
	activeProtocol ProtocolID
	radioStarted   bool
}

// Option configures a Scheduler at construction.
type Option func(*Scheduler)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

func WithMetrics(r Recorder) Option {
	return func(s *Scheduler) {
		if r != nil {
			s.metrics = r
		}
	}
}

// New creates an uninitialized scheduler driving backend. A nil backend is
// replaced by radio.Nop.
func New(backend radio.Backend, opts ...Option) *Scheduler {
	if backend == nil {
		backend = radio.Nop{}
	}
	s := &Scheduler{
		radio:          backend,
		logger:         log.Logger,
		metrics:        nopRecorder{},
		activeProtocol: ProtocolNone,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "baseband").Logger()
	return s
}

// Init validates cfg and resets the control block and protocol table.
func (s *Scheduler) Init(cfg Config) error {
	if s.initialized {
		return ErrAlreadyInitialized
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.reset()
	s.cfg = cfg
	s.initialized = true
	s.logger.Info().
		Uint16("clock_ppm", cfg.ClockAccuracyPPM).
		Uint32("timer_boundary", uint32(cfg.TimerBoundary)).
		Msg("baseband initialized")
	return nil
}

// Teardown powers down the active protocol and returns the scheduler to its
// uninitialized state.
func (s *Scheduler) Teardown() {
	if !s.initialized {
		return
	}
	if s.radioStarted {
		id := s.activeProtocol
		s.slots[id].funcs.Stop()
		s.radioStarted = false
		s.radio.Disable()
		s.metrics.RadioPowered(false)
	}
	s.reset()
	s.initialized = false
	s.logger.Info().Msg("baseband torn down")
}

func (s *Scheduler) reset() {
	s.cfg = Config{}
	s.slots = [NumProtocols]slot{}
	s.complete = nil
	s.active.Store(nil)
	s.terminate.Store(false)
	s.activeProtocol = ProtocolNone
	s.radioStarted = false
}

// RegisterProtocol stores the handles for id, replacing any previous set.
func (s *Scheduler) RegisterProtocol(id ProtocolID, funcs ProtocolFuncs) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	if !id.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidProtocol, uint8(id))
	}
	if funcs.Start == nil || funcs.Stop == nil {
		return fmt.Errorf("%w: %s start/stop", ErrMissingHandler, id)
	}
	sl := &s.slots[id]
	sl.funcs = funcs
	sl.registered = true
	s.logger.Debug().
		Stringer("protocol", id).
		Bool("execute", funcs.Execute != nil).
		Bool("cancel", funcs.Cancel != nil).
		Msg("protocol registered")
	return nil
}

// Register adapts p into a protocol slot. Optional Executor, Canceller and
// LowPowerHandler implementations are picked up.
func (s *Scheduler) Register(id ProtocolID, p Protocol) error {
	if p == nil {
		return fmt.Errorf("%w: %s protocol", ErrMissingHandler, id)
	}
	if err := s.RegisterProtocol(id, funcsFor(p)); err != nil {
		return err
	}
	if lp, ok := p.(LowPowerHandler); ok {
		return s.RegisterLowPowerHandler(id, lp.PrepareLowPower)
	}
	return nil
}

// RegisterLowPowerHandler stores the hook run by Terminate before teardown.
func (s *Scheduler) RegisterLowPowerHandler(id ProtocolID, fn func()) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	if !id.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidProtocol, uint8(id))
	}
	if fn == nil {
		return fmt.Errorf("%w: %s low power", ErrMissingHandler, id)
	}
	s.slots[id].lowPower = fn
	return nil
}

// RegisterCompletionHandler sets the single handler invoked by Terminate.
func (s *Scheduler) RegisterCompletionHandler(fn func()) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	if fn == nil {
		return fmt.Errorf("%w: completion", ErrMissingHandler)
	}
	s.complete = fn
	return nil
}

func (s *Scheduler) registered(id ProtocolID) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	if !id.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidProtocol, uint8(id))
	}
	if !s.slots[id].registered {
		return fmt.Errorf("%w: %s", ErrNotRegistered, id)
	}
	return nil
}

// ActiveOperation returns the operation in flight, or nil.
func (s *Scheduler) ActiveOperation() Operation {
	if cur := s.active.Load(); cur != nil {
		return cur.op
	}
	return nil
}

// TerminateRequested reports the terminate flag of the current operation.
func (s *Scheduler) TerminateRequested() bool {
	return s.terminate.Load()
}

// ActiveProtocol returns the powered protocol, if any.
func (s *Scheduler) ActiveProtocol() (ProtocolID, bool) {
	if !s.radioStarted {
		return ProtocolNone, false
	}
	return s.activeProtocol, true
}

// StartCount returns outstanding Start calls for id.
func (s *Scheduler) StartCount(id ProtocolID) uint32 {
	if !id.Valid() {
		return 0
	}
	return s.slots[id].startCount
}

func (s *Scheduler) Initialized() bool { return s.initialized }

func (s *Scheduler) Config() Config { return s.cfg }

func (s *Scheduler) ClockAccuracyPPM() uint16 { return s.cfg.ClockAccuracyPPM }

func (s *Scheduler) RadioSetupDelayUs() uint32 { return s.cfg.RadioSetupDelayUs }

func (s *Scheduler) SchedulerSetupDelayUs() uint32 { return s.cfg.SchedulerSetupDelayUs }

func (s *Scheduler) MaxScanPeriodMs() uint32 { return s.cfg.MaxScanPeriodMs }

func (s *Scheduler) TimerBoundary() ticks.Boundary { return s.cfg.TimerBoundary }

// Status is a point-in-time view of the control block.
type Status struct {
	Initialized        bool              `json:"initialized"`
	RadioStarted       bool              `json:"radio_started"`
	ActiveProtocol     string            `json:"active_protocol"`
	OperationInFlight  bool              `json:"operation_in_flight"`
	TerminateRequested bool              `json:"terminate_requested"`
	StartCounts        map[string]uint32 `json:"start_counts"`
	Registered         []string          `json:"registered"`
	Config             Config            `json:"config"`
}

// Snapshot captures the control block. It follows the same calling rules as
// every other non-interrupt entry point.
func (s *Scheduler) Snapshot() Status {
	st := Status{
		Initialized:        s.initialized,
		RadioStarted:       s.radioStarted,
		ActiveProtocol:     ProtocolNone.String(),
		OperationInFlight:  s.active.Load() != nil,
		TerminateRequested: s.terminate.Load(),
		StartCounts:        make(map[string]uint32, NumProtocols),
		Registered:         make([]string, 0, NumProtocols),
		Config:             s.cfg,
	}
	if s.radioStarted {
		st.ActiveProtocol = s.activeProtocol.String()
	}
	for id := ProtocolID(0); id < NumProtocols; id++ {
		if !s.slots[id].registered {
			continue
		}
		st.Registered = append(st.Registered, id.String())
		st.StartCounts[id.String()] = s.slots[id].startCount
	}
	return st
}
