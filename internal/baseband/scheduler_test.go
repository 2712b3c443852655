package baseband

import (
	"errors"
	"testing"

	"github.com/danmuck/bbctl/internal/radio"
	"github.com/danmuck/bbctl/internal/testutil/testlog"
	"github.com/danmuck/bbctl/internal/ticks"
	"github.com/google/go-cmp/cmp"
)

type fakeOp struct {
	id   ProtocolID
	name string
}

func (o *fakeOp) Protocol() ProtocolID { return o.id }

// trace records handler invocations across protocols in call order.
type trace struct {
	calls []string
}

func (tr *trace) add(s string) { tr.calls = append(tr.calls, s) }

func (tr *trace) take() []string {
	out := tr.calls
	tr.calls = nil
	return out
}

func (tr *trace) funcs(id ProtocolID) ProtocolFuncs {
	name := id.String()
	return ProtocolFuncs{
		Execute: func(op Operation) { tr.add(name + ".execute") },
		Cancel:  func(op Operation) { tr.add(name + ".cancel") },
		Start:   func() { tr.add(name + ".start") },
		Stop:    func() { tr.add(name + ".stop") },
	}
}

func newTestScheduler(t *testing.T) (*Scheduler, *radio.Sim, *trace) {
	t.Helper()
	backend := radio.NewSim()
	s := New(backend)
	if err := s.Init(DefaultConfig()); err != nil {
		t.Fatalf("init: %v", err)
	}
	tr := &trace{}
	for _, id := range []ProtocolID{ProtocolBLE, ProtocolBLETest} {
		if err := s.RegisterProtocol(id, tr.funcs(id)); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}
	if err := s.RegisterCompletionHandler(func() { tr.add("complete") }); err != nil {
		t.Fatalf("register completion: %v", err)
	}
	return s, backend, tr
}

func assertCalls(t *testing.T, tr *trace, want []string) {
	t.Helper()
	if diff := cmp.Diff(want, tr.take()); diff != "" {
		t.Fatalf("handler calls mismatch (-want +got):\n%s", diff)
	}
}

func TestInitRejectsInvalidConfig(t *testing.T) {
	testlog.Start(t)
	cases := map[string]func(*Config){
		"clock":     func(c *Config) { c.ClockAccuracyPPM = 19 },
		"rf setup":  func(c *Config) { c.RadioSetupDelayUs = 0 },
		"scan":      func(c *Config) { c.MaxScanPeriodMs = 0 },
		"sch setup": func(c *Config) { c.SchedulerSetupDelayUs = 0 },
		"boundary":  func(c *Config) { c.TimerBoundary = 0 },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		s := New(nil)
		if err := s.Init(cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
		if s.Initialized() {
			t.Fatalf("%s: scheduler initialized with invalid config", name)
		}
	}
}

func TestInitTwiceRequiresTeardown(t *testing.T) {
	testlog.Start(t)
	s := New(nil)
	if err := s.Init(DefaultConfig()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := s.Init(DefaultConfig()); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("expected ErrAlreadyInitialized, got %v", err)
	}
	s.Teardown()
	if err := s.Init(DefaultConfig()); err != nil {
		t.Fatalf("re-init after teardown: %v", err)
	}
}

func TestEntryPointsRequireInit(t *testing.T) {
	testlog.Start(t)
	s := New(nil)
	noop := func() {}
	if err := s.RegisterProtocol(ProtocolBLE, ProtocolFuncs{Start: noop, Stop: noop}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("register: expected ErrNotInitialized, got %v", err)
	}
	if err := s.Start(ProtocolBLE); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("start: expected ErrNotInitialized, got %v", err)
	}
	if err := s.Execute(&fakeOp{id: ProtocolBLE}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("execute: expected ErrNotInitialized, got %v", err)
	}
	if err := s.Terminate(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("terminate: expected ErrNotInitialized, got %v", err)
	}
}

func TestRegisterProtocolValidation(t *testing.T) {
	testlog.Start(t)
	s := New(nil)
	if err := s.Init(DefaultConfig()); err != nil {
		t.Fatalf("init: %v", err)
	}
	noop := func() {}
	if err := s.RegisterProtocol(NumProtocols, ProtocolFuncs{Start: noop, Stop: noop}); !errors.Is(err, ErrInvalidProtocol) {
		t.Fatalf("expected ErrInvalidProtocol, got %v", err)
	}
	if err := s.RegisterProtocol(ProtocolBLE, ProtocolFuncs{Start: noop}); !errors.Is(err, ErrMissingHandler) {
		t.Fatalf("expected ErrMissingHandler for nil stop, got %v", err)
	}
	if err := s.RegisterProtocol(ProtocolBLE, ProtocolFuncs{Stop: noop}); !errors.Is(err, ErrMissingHandler) {
		t.Fatalf("expected ErrMissingHandler for nil start, got %v", err)
	}
	if err := s.RegisterLowPowerHandler(ProtocolBLE, nil); !errors.Is(err, ErrMissingHandler) {
		t.Fatalf("expected ErrMissingHandler for nil low power, got %v", err)
	}
	if err := s.RegisterCompletionHandler(nil); !errors.Is(err, ErrMissingHandler) {
		t.Fatalf("expected ErrMissingHandler for nil completion, got %v", err)
	}
	if err := s.Start(ProtocolPRBS15); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}

func TestStartStopReferenceCounting(t *testing.T) {
	testlog.Start(t)
	s, backend, tr := newTestScheduler(t)

	for i := 0; i < 3; i++ {
		if err := s.Start(ProtocolBLE); err != nil {
			t.Fatalf("start %d: %v", i, err)
		}
	}
	assertCalls(t, tr, []string{"ble.start"})
	if got := s.StartCount(ProtocolBLE); got != 3 {
		t.Fatalf("start count: got %d want 3", got)
	}

	for i := 0; i < 2; i++ {
		if err := s.Stop(ProtocolBLE); err != nil {
			t.Fatalf("stop %d: %v", i, err)
		}
	}
	assertCalls(t, tr, nil)
	if active, ok := s.ActiveProtocol(); !ok || active != ProtocolBLE {
		t.Fatalf("expected ble active, got %s ok=%v", active, ok)
	}
	if !backend.Enabled() {
		t.Fatalf("radio should remain enabled")
	}

	if err := s.Stop(ProtocolBLE); err != nil {
		t.Fatalf("final stop: %v", err)
	}
	assertCalls(t, tr, []string{"ble.stop"})
	if _, ok := s.ActiveProtocol(); ok {
		t.Fatalf("expected no active protocol")
	}
	if backend.Enabled() {
		t.Fatalf("radio should be disabled")
	}

	want := []radio.Event{
		{Kind: radio.EventEnable},
		{Kind: radio.EventSetProtocol, Protocol: uint8(ProtocolBLE)},
		{Kind: radio.EventDisable},
	}
	if diff := cmp.Diff(want, backend.Events()); diff != "" {
		t.Fatalf("radio events mismatch (-want +got):\n%s", diff)
	}
}

func TestStopWithoutStartFails(t *testing.T) {
	testlog.Start(t)
	s, _, tr := newTestScheduler(t)
	if err := s.Stop(ProtocolBLE); !errors.Is(err, ErrStopWithoutStart) {
		t.Fatalf("expected ErrStopWithoutStart, got %v", err)
	}
	if s.StartCount(ProtocolBLE) != 0 {
		t.Fatalf("start count must not underflow")
	}
	assertCalls(t, tr, nil)
}

func TestStartOtherProtocolOnlyCounts(t *testing.T) {
	testlog.Start(t)
	s, _, tr := newTestScheduler(t)
	if err := s.Start(ProtocolBLE); err != nil {
		t.Fatalf("start ble: %v", err)
	}
	if err := s.Start(ProtocolBLETest); err != nil {
		t.Fatalf("start ble_test: %v", err)
	}
	assertCalls(t, tr, []string{"ble.start"})
	if active, _ := s.ActiveProtocol(); active != ProtocolBLE {
		t.Fatalf("active protocol switched to %s", active)
	}
	if s.StartCount(ProtocolBLETest) != 1 {
		t.Fatalf("ble_test start count: got %d", s.StartCount(ProtocolBLETest))
	}

	// releasing the inactive protocol never touches the radio
	if err := s.Stop(ProtocolBLETest); err != nil {
		t.Fatalf("stop ble_test: %v", err)
	}
	assertCalls(t, tr, nil)
	if active, ok := s.ActiveProtocol(); !ok || active != ProtocolBLE {
		t.Fatalf("expected ble still active")
	}
}

func TestActiveProtocolHasPositiveStartCount(t *testing.T) {
	testlog.Start(t)
	s, _, _ := newTestScheduler(t)
	steps := []struct {
		start bool
		id    ProtocolID
	}{
		{true, ProtocolBLE}, {true, ProtocolBLETest}, {true, ProtocolBLE},
		{false, ProtocolBLE}, {false, ProtocolBLETest}, {false, ProtocolBLE},
		{true, ProtocolBLETest}, {false, ProtocolBLETest},
	}
	for i, st := range steps {
		var err error
		if st.start {
			err = s.Start(st.id)
		} else {
			err = s.Stop(st.id)
		}
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if active, ok := s.ActiveProtocol(); ok && s.StartCount(active) == 0 {
			t.Fatalf("step %d: active %s has zero start count", i, active)
		}
	}
}

func TestExecuteProtocolHandOff(t *testing.T) {
	testlog.Start(t)
	s, backend, tr := newTestScheduler(t)
	if err := s.Start(ProtocolBLE); err != nil {
		t.Fatalf("start: %v", err)
	}
	tr.take()
	backend.Reset()

	op := &fakeOp{id: ProtocolBLETest}
	if err := s.Execute(op); err != nil {
		t.Fatalf("execute: %v", err)
	}
	assertCalls(t, tr, []string{"ble.stop", "ble_test.start", "ble_test.execute"})
	if active, ok := s.ActiveProtocol(); !ok || active != ProtocolBLETest {
		t.Fatalf("expected ble_test active, got %s", active)
	}
	if s.ActiveOperation() != op {
		t.Fatalf("expected op in flight")
	}
	want := []radio.Event{
		{Kind: radio.EventEnable},
		{Kind: radio.EventSetProtocol, Protocol: uint8(ProtocolBLETest)},
	}
	if diff := cmp.Diff(want, backend.Events()); diff != "" {
		t.Fatalf("radio events mismatch (-want +got):\n%s", diff)
	}
}

func TestExecutePowersRadioWithoutStart(t *testing.T) {
	testlog.Start(t)
	s, backend, tr := newTestScheduler(t)
	if err := s.Execute(&fakeOp{id: ProtocolBLE}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	assertCalls(t, tr, []string{"ble.start", "ble.execute"})
	if !backend.Enabled() {
		t.Fatalf("execute must enable the radio")
	}
	if s.StartCount(ProtocolBLE) != 0 {
		t.Fatalf("execute must not take a start reference")
	}
}

func TestExecuteSameProtocolNoSwitch(t *testing.T) {
	testlog.Start(t)
	s, _, tr := newTestScheduler(t)
	if err := s.Start(ProtocolBLE); err != nil {
		t.Fatalf("start: %v", err)
	}
	tr.take()
	if err := s.Execute(&fakeOp{id: ProtocolBLE}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	assertCalls(t, tr, []string{"ble.execute"})
}

func TestExecuteRejectsBadOperations(t *testing.T) {
	testlog.Start(t)
	s, _, tr := newTestScheduler(t)
	if err := s.Execute(nil); !errors.Is(err, ErrNilOperation) {
		t.Fatalf("expected ErrNilOperation, got %v", err)
	}
	if err := s.Execute(&fakeOp{id: ProtocolNone}); !errors.Is(err, ErrInvalidProtocol) {
		t.Fatalf("expected ErrInvalidProtocol, got %v", err)
	}
	if err := s.Execute(&fakeOp{id: Protocol154}); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
	assertCalls(t, tr, nil)
	if s.ActiveOperation() != nil {
		t.Fatalf("rejected operation must not become active")
	}
}

func TestExecuteWithoutExecuteHandler(t *testing.T) {
	testlog.Start(t)
	s, _, tr := newTestScheduler(t)
	if err := s.RegisterProtocol(ProtocolPRBS15, ProtocolFuncs{
		Start: func() { tr.add("prbs15.start") },
		Stop:  func() { tr.add("prbs15.stop") },
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	op := &fakeOp{id: ProtocolPRBS15}
	if err := s.Execute(op); err != nil {
		t.Fatalf("execute: %v", err)
	}
	assertCalls(t, tr, []string{"prbs15.start"})
	if s.ActiveOperation() != op {
		t.Fatalf("operation should still be recorded in flight")
	}
}

func TestExecuteToleratesDoubleSubmission(t *testing.T) {
	testlog.Start(t)
	s, _, _ := newTestScheduler(t)
	first := &fakeOp{id: ProtocolBLE, name: "first"}
	second := &fakeOp{id: ProtocolBLE, name: "second"}
	if err := s.Execute(first); err != nil {
		t.Fatalf("execute first: %v", err)
	}
	if err := s.Execute(second); err != nil {
		t.Fatalf("execute second: %v", err)
	}
	if s.ActiveOperation() != second {
		t.Fatalf("expected second operation to replace the first")
	}
}

func TestCancelActiveOperation(t *testing.T) {
	testlog.Start(t)
	s, _, tr := newTestScheduler(t)

	s.Cancel()
	assertCalls(t, tr, nil)

	if err := s.Execute(&fakeOp{id: ProtocolBLE}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	tr.take()
	s.Cancel()
	assertCalls(t, tr, []string{"ble.cancel"})
	if s.ActiveOperation() != nil {
		t.Fatalf("cancel must clear the active operation")
	}
}

func TestRequestTerminationOnlyWithActiveOperation(t *testing.T) {
	testlog.Start(t)
	s, _, tr := newTestScheduler(t)

	s.RequestTermination()
	if s.TerminateRequested() {
		t.Fatalf("flag must stay clear without an active operation")
	}

	if err := s.Execute(&fakeOp{id: ProtocolBLE}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	tr.take()
	s.RequestTermination()
	if !s.TerminateRequested() {
		t.Fatalf("expected terminate flag set")
	}
	if s.ActiveOperation() == nil {
		t.Fatalf("request must not clear the active operation")
	}
	assertCalls(t, tr, nil)

	// the next execute clears the flag
	if err := s.Execute(&fakeOp{id: ProtocolBLE}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if s.TerminateRequested() {
		t.Fatalf("execute must clear the terminate flag")
	}
}

func TestRequestTerminationFromOtherGoroutine(t *testing.T) {
	testlog.Start(t)
	s, _, _ := newTestScheduler(t)
	if err := s.Execute(&fakeOp{id: ProtocolBLE}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.RequestTermination()
	}()
	<-done
	if !s.TerminateRequested() {
		t.Fatalf("expected terminate flag set from interrupt goroutine")
	}
	if err := s.Terminate(); err != nil {
		t.Fatalf("terminate: %v", err)
	}
}

func TestTerminateAlwaysCompletesOnce(t *testing.T) {
	testlog.Start(t)
	s, _, tr := newTestScheduler(t)

	if err := s.Terminate(); err != nil {
		t.Fatalf("terminate idle: %v", err)
	}
	assertCalls(t, tr, []string{"complete"})

	if err := s.Execute(&fakeOp{id: ProtocolBLE}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	tr.take()
	if err := s.Terminate(); err != nil {
		t.Fatalf("terminate: %v", err)
	}
	assertCalls(t, tr, []string{"complete"})
	if s.ActiveOperation() != nil {
		t.Fatalf("terminate must clear the active operation")
	}
	if !s.TerminateRequested() {
		t.Fatalf("terminate must leave the flag set")
	}
}

func TestTerminateRunsLowPowerFirst(t *testing.T) {
	testlog.Start(t)
	s, _, tr := newTestScheduler(t)
	if err := s.RegisterLowPowerHandler(ProtocolBLE, func() {
		if s.ActiveOperation() == nil {
			t.Errorf("low power hook ran after the operation was cleared")
		}
		tr.add("ble.lowpower")
	}); err != nil {
		t.Fatalf("register low power: %v", err)
	}
	if err := s.Execute(&fakeOp{id: ProtocolBLE}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	tr.take()
	if err := s.Terminate(); err != nil {
		t.Fatalf("terminate: %v", err)
	}
	assertCalls(t, tr, []string{"ble.lowpower", "complete"})

	// no operation in flight: hook is skipped
	if err := s.Terminate(); err != nil {
		t.Fatalf("terminate idle: %v", err)
	}
	assertCalls(t, tr, []string{"complete"})
}

func TestTerminateWithoutCompletionHandler(t *testing.T) {
	testlog.Start(t)
	s := New(nil)
	if err := s.Init(DefaultConfig()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := s.Terminate(); !errors.Is(err, ErrNoCompletionHandler) {
		t.Fatalf("expected ErrNoCompletionHandler, got %v", err)
	}
}

func TestReentrantTerminateDuringExecute(t *testing.T) {
	testlog.Start(t)
	s := New(radio.NewSim())
	if err := s.Init(DefaultConfig()); err != nil {
		t.Fatalf("init: %v", err)
	}
	completions := 0
	noop := func() {}
	if err := s.RegisterProtocol(ProtocolBLETest, ProtocolFuncs{
		Execute: func(op Operation) {
			if err := s.Terminate(); err != nil {
				t.Errorf("terminate: %v", err)
			}
		},
		Start: noop,
		Stop:  noop,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := s.RegisterCompletionHandler(func() { completions++ }); err != nil {
		t.Fatalf("register completion: %v", err)
	}

	if err := s.Execute(&fakeOp{id: ProtocolBLETest}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if s.ActiveOperation() != nil {
		t.Fatalf("expected no active operation after re-entrant terminate")
	}
	if completions != 1 {
		t.Fatalf("expected one completion, got %d", completions)
	}
}

func TestReentrantRequestTerminationClearsOnReturn(t *testing.T) {
	testlog.Start(t)
	s := New(nil)
	if err := s.Init(DefaultConfig()); err != nil {
		t.Fatalf("init: %v", err)
	}
	noop := func() {}
	if err := s.RegisterProtocol(ProtocolBLE, ProtocolFuncs{
		Execute: func(op Operation) { s.RequestTermination() },
		Start:   noop,
		Stop:    noop,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := s.Execute(&fakeOp{id: ProtocolBLE}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if s.ActiveOperation() != nil {
		t.Fatalf("flag raised during execute must clear the active operation")
	}
}

type fullProtocol struct {
	tr *trace
}

func (p fullProtocol) StartProtocol()                { p.tr.add("full.start") }
func (p fullProtocol) StopProtocol()                 { p.tr.add("full.stop") }
func (p fullProtocol) ExecuteOperation(op Operation) { p.tr.add("full.execute") }
func (p fullProtocol) CancelOperation(op Operation)  { p.tr.add("full.cancel") }
func (p fullProtocol) PrepareLowPower()              { p.tr.add("full.lowpower") }

type powerOnly struct {
	tr *trace
}

func (p powerOnly) StartProtocol() { p.tr.add("power.start") }
func (p powerOnly) StopProtocol()  { p.tr.add("power.stop") }

func TestRegisterAdaptsCapabilities(t *testing.T) {
	testlog.Start(t)
	s, _, tr := newTestScheduler(t)
	if err := s.Register(Protocol154, fullProtocol{tr: tr}); err != nil {
		t.Fatalf("register full: %v", err)
	}
	if err := s.Register(ProtocolPRBS15, powerOnly{tr: tr}); err != nil {
		t.Fatalf("register power only: %v", err)
	}
	if err := s.Register(ProtocolPRBS15, nil); !errors.Is(err, ErrMissingHandler) {
		t.Fatalf("expected ErrMissingHandler for nil protocol, got %v", err)
	}

	if err := s.Execute(&fakeOp{id: Protocol154}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	s.Cancel()
	if err := s.Execute(&fakeOp{id: Protocol154}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if err := s.Terminate(); err != nil {
		t.Fatalf("terminate: %v", err)
	}
	if err := s.Execute(&fakeOp{id: ProtocolPRBS15}); err != nil {
		t.Fatalf("execute power only: %v", err)
	}
	assertCalls(t, tr, []string{
		"full.start", "full.execute",
		"full.cancel",
		"full.execute",
		"full.lowpower", "complete",
		"full.stop", "power.start",
	})
}

func TestTeardownStopsActiveProtocol(t *testing.T) {
	testlog.Start(t)
	s, backend, tr := newTestScheduler(t)
	if err := s.Start(ProtocolBLE); err != nil {
		t.Fatalf("start: %v", err)
	}
	tr.take()
	s.Teardown()
	assertCalls(t, tr, []string{"ble.stop"})
	if backend.Enabled() {
		t.Fatalf("teardown must disable the radio")
	}
	if s.Initialized() {
		t.Fatalf("teardown must reset initialization")
	}
	if s.StartCount(ProtocolBLE) != 0 {
		t.Fatalf("teardown must clear start counts")
	}
}

func TestSnapshotAndAccessors(t *testing.T) {
	testlog.Start(t)
	s, _, _ := newTestScheduler(t)
	if err := s.Start(ProtocolBLE); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Execute(&fakeOp{id: ProtocolBLE}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	st := s.Snapshot()
	if !st.Initialized || !st.RadioStarted || !st.OperationInFlight {
		t.Fatalf("unexpected snapshot: %+v", st)
	}
	if st.ActiveProtocol != "ble" {
		t.Fatalf("unexpected active protocol: %q", st.ActiveProtocol)
	}
	if diff := cmp.Diff([]string{"ble", "ble_test"}, st.Registered); diff != "" {
		t.Fatalf("registered mismatch (-want +got):\n%s", diff)
	}
	if st.StartCounts["ble"] != 1 || st.StartCounts["ble_test"] != 0 {
		t.Fatalf("unexpected start counts: %+v", st.StartCounts)
	}

	cfg := DefaultConfig()
	if s.ClockAccuracyPPM() != cfg.ClockAccuracyPPM ||
		s.RadioSetupDelayUs() != cfg.RadioSetupDelayUs ||
		s.SchedulerSetupDelayUs() != cfg.SchedulerSetupDelayUs ||
		s.MaxScanPeriodMs() != cfg.MaxScanPeriodMs ||
		s.TimerBoundary() != ticks.MaxBoundary {
		t.Fatalf("accessors do not reflect config: %+v", s.Config())
	}
}

func TestParseProtocolID(t *testing.T) {
	testlog.Start(t)
	for id := ProtocolID(0); id < NumProtocols; id++ {
		got, err := ParseProtocolID(id.String())
		if err != nil || got != id {
			t.Fatalf("round trip %s: got %s err=%v", id, got, err)
		}
	}
	if _, err := ParseProtocolID("wifi"); !errors.Is(err, ErrInvalidProtocol) {
		t.Fatalf("expected ErrInvalidProtocol, got %v", err)
	}
}
