package linklayer

import (
	"github.com/danmuck/bbctl/internal/baseband"
	"github.com/danmuck/bbctl/internal/timebase"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Controller is the part of the scheduler a protocol layer calls back into.
type Controller interface {
	Terminate() error
	TerminateRequested() bool
}

// Stats counts protocol-level outcomes.
type Stats struct {
	Started   uint64 `json:"started"`
	Stopped   uint64 `json:"stopped"`
	Executed  uint64 `json:"executed"`
	Missed    uint64 `json:"missed"`
	Completed uint64 `json:"completed"`
	Aborted   uint64 `json:"aborted"`
	Cancelled uint64 `json:"cancelled"`
	LowPower  uint64 `json:"low_power"`
}

// Event is one advertising event due at Due ticks lasting Duration ticks.
type Event struct {
	Seq      uint64
	Due      uint32
	Duration uint32
}

func (e *Event) Protocol() baseband.ProtocolID { return baseband.ProtocolBLE }

func (e *Event) DueAt() uint32 { return e.Due }

func (e *Event) Length() uint32 { return e.Duration }

// Advertiser runs advertising events. An event whose due time has already
// passed is terminated as missed; otherwise it stays armed until Complete.
type Advertiser struct {
	ctl    Controller
	clock  timebase.Timebase
	logger zerolog.Logger

	running   bool
	armed     *Event
	lastSaved uint64
	stats     Stats
}

var (
	_ baseband.Protocol        = (*Advertiser)(nil)
	_ baseband.Executor        = (*Advertiser)(nil)
	_ baseband.Canceller       = (*Advertiser)(nil)
	_ baseband.LowPowerHandler = (*Advertiser)(nil)
)

func NewAdvertiser(ctl Controller, clock timebase.Timebase) *Advertiser {
	return &Advertiser{
		ctl:    ctl,
		clock:  clock,
		logger: log.Logger.With().Str("component", "advertiser").Logger(),
	}
}

func (a *Advertiser) StartProtocol() {
	a.running = true
	a.stats.Started++
}

func (a *Advertiser) StopProtocol() {
	a.running = false
	a.stats.Stopped++
}

func (a *Advertiser) ExecuteOperation(op baseband.Operation) {
	ev, ok := op.(*Event)
	if !ok {
		a.logger.Error().Msgf("unexpected operation type %T", op)
		a.terminate()
		return
	}
	now := a.clock.Now()
	if ev.Due != now && a.clock.Boundary().TargetDelta(ev.Due, now) == 0 {
		a.stats.Missed++
		a.logger.Debug().
			Uint64("seq", ev.Seq).
			Uint32("due", ev.Due).
			Uint32("now", now).
			Msg("advertising event missed")
		a.terminate()
		return
	}
	a.armed = ev
	a.stats.Executed++
}

// Complete finishes the armed event, as the radio end-of-event interrupt
// would. It reports false when nothing is armed.
func (a *Advertiser) Complete() bool {
	if a.armed == nil {
		return false
	}
	if a.ctl.TerminateRequested() {
		a.stats.Aborted++
	} else {
		a.stats.Completed++
	}
	a.terminate()
	a.armed = nil
	return true
}

func (a *Advertiser) CancelOperation(op baseband.Operation) {
	a.armed = nil
	a.stats.Cancelled++
}

func (a *Advertiser) PrepareLowPower() {
	if a.armed != nil {
		a.lastSaved = a.armed.Seq
	}
	a.stats.LowPower++
}

// LastSaved returns the sequence number persisted by the last low power hook.
func (a *Advertiser) LastSaved() uint64 { return a.lastSaved }

func (a *Advertiser) Running() bool { return a.running }

func (a *Advertiser) Armed() bool { return a.armed != nil }

func (a *Advertiser) Stats() Stats { return a.stats }

func (a *Advertiser) terminate() {
	if err := a.ctl.Terminate(); err != nil {
		a.logger.Error().Err(err).Msg("terminate failed")
	}
}

// TestPacket is one direct-test-mode transmission.
type TestPacket struct {
	Seq      uint64
	Due      uint32
	Duration uint32
}

func (p *TestPacket) Protocol() baseband.ProtocolID { return baseband.ProtocolBLETest }

func (p *TestPacket) DueAt() uint32 { return p.Due }

func (p *TestPacket) Length() uint32 { return p.Duration }

// TestMode transmits each packet and terminates inside the execute handle.
type TestMode struct {
	ctl    Controller
	logger zerolog.Logger
	stats  Stats
}

func NewTestMode(ctl Controller) *TestMode {
	return &TestMode{
		ctl:    ctl,
		logger: log.Logger.With().Str("component", "test_mode").Logger(),
	}
}

func (m *TestMode) StartProtocol() { m.stats.Started++ }

func (m *TestMode) StopProtocol() { m.stats.Stopped++ }

func (m *TestMode) ExecuteOperation(op baseband.Operation) {
	m.stats.Executed++
	m.stats.Completed++
	if err := m.ctl.Terminate(); err != nil {
		m.logger.Error().Err(err).Msg("terminate failed")
	}
}

func (m *TestMode) Stats() Stats { return m.stats }

// PowerHolder keeps the radio powered for continuous PRBS15 carrier output.
// It has no discrete operations.
type PowerHolder struct {
	on    bool
	stats Stats
}

func NewPowerHolder() *PowerHolder { return &PowerHolder{} }

func (p *PowerHolder) StartProtocol() {
	p.on = true
	p.stats.Started++
}

func (p *PowerHolder) StopProtocol() {
	p.on = false
	p.stats.Stopped++
}

func (p *PowerHolder) On() bool { return p.on }

func (p *PowerHolder) Stats() Stats { return p.stats }
