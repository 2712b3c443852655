package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danmuck/bbctl/internal/baseband"
	"github.com/danmuck/bbctl/internal/timebase"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrNilOperation = errors.New("sim: operation is nil")

// Scheduled is an operation with a due time and an on-air length in ticks.
type Scheduled interface {
	baseband.Operation
	DueAt() uint32
	Length() uint32
}

// Completer finishes an armed operation the way an end-of-event interrupt
// would. It reports false when the protocol has nothing armed.
type Completer interface {
	Complete() bool
}

// Stats counts runner activity.
type Stats struct {
	Executed  uint64 `json:"executed"`
	Completed uint64 `json:"completed"`
	Forced    uint64 `json:"forced"`
	Cancelled uint64 `json:"cancelled"`
}

// Status is the runner view served by the admin surface.
type Status struct {
	Now       uint32          `json:"now"`
	Pending   int             `json:"pending"`
	OnAir     bool            `json:"on_air"`
	Stats     Stats           `json:"stats"`
	Scheduler baseband.Status `json:"scheduler"`
}

// Runner executes queued operations on a scheduler in due order. Every
// scheduler call it makes, other than completion, happens under mu.
type Runner struct {
	mu         sync.Mutex
	sched      *baseband.Scheduler
	clock      *timebase.Sim
	completers map[baseband.ProtocolID]Completer
	queue      []Scheduled
	onAir      Scheduled
	stats      Stats
	stepDelay  time.Duration
	logger     zerolog.Logger

	// written by the completion handler, which may run outside mu
	completed   atomic.Bool
	completions atomic.Uint64
}

type Option func(*Runner)

// WithStepDelay keeps each operation on air for d of wall time before it is
// finished.
func WithStepDelay(d time.Duration) Option {
	return func(r *Runner) {
		r.stepDelay = d
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner registers the runner as the scheduler's completion handler.
func NewRunner(sched *baseband.Scheduler, clock *timebase.Sim, opts ...Option) (*Runner, error) {
	r := &Runner{
		sched:      sched,
		clock:      clock,
		completers: make(map[baseband.ProtocolID]Completer),
		queue:      make([]Scheduled, 0),
		logger:     log.Logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With().Str("component", "sim").Logger()
	if err := sched.RegisterCompletionHandler(r.onComplete); err != nil {
		return nil, fmt.Errorf("sim: register completion: %w", err)
	}
	return r, nil
}

// AttachCompleter routes end-of-event interrupts for id to c.
func (r *Runner) AttachCompleter(id baseband.ProtocolID, c Completer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completers[id] = c
}

// Hold takes a Start reference for each id. On failure the references
// already taken are released.
func (r *Runner) Hold(ids ...baseband.ProtocolID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, id := range ids {
		if err := r.sched.Start(id); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = r.sched.Stop(ids[j])
			}
			return fmt.Errorf("sim: hold %s: %w", id, err)
		}
	}
	return nil
}

// Release drops one Start reference for each id, in reverse order.
func (r *Runner) Release(ids ...baseband.ProtocolID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(ids) - 1; i >= 0; i-- {
		if err := r.sched.Stop(ids[i]); err != nil {
			return fmt.Errorf("sim: release %s: %w", ids[i], err)
		}
	}
	return nil
}

// Enqueue adds operations to the queue.
func (r *Runner) Enqueue(ops ...Scheduled) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, op := range ops {
		if op == nil {
			return ErrNilOperation
		}
		r.queue = append(r.queue, op)
	}
	return nil
}

// Pending returns the number of queued operations.
func (r *Runner) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}

func (r *Runner) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statsLocked()
}

func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Status{
		Now:       r.clock.Now(),
		Pending:   len(r.queue),
		OnAir:     r.onAir != nil,
		Stats:     r.statsLocked(),
		Scheduler: r.sched.Snapshot(),
	}
}

func (r *Runner) statsLocked() Stats {
	st := r.stats
	st.Completed = r.completions.Load()
	return st
}

// Run executes up to n queued operations, or all of them when n <= 0. Each
// operation stays on air for the step delay and is finished before the next
// one starts. On context cancellation the operation on air is cancelled.
func (r *Runner) Run(ctx context.Context, n int) error {
	for done := 0; n <= 0 || done < n; done++ {
		if err := ctx.Err(); err != nil {
			r.cancelInFlight()
			return err
		}
		more, err := r.Step()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		if r.stepDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(r.stepDelay):
			}
		}
		if err := ctx.Err(); err != nil {
			r.cancelInFlight()
			return err
		}
		if err := r.Finish(); err != nil {
			return err
		}
	}
	return nil
}

// Step finishes any operation still on air, then executes the next due
// operation. Unless its protocol terminates it synchronously, that operation
// stays on air until Finish or the next Step. Step reports false when the
// queue is empty.
func (r *Runner) Step() (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.finishLocked(); err != nil {
		return false, err
	}
	op, ok := r.popNext()
	if !ok {
		return false, nil
	}
	b := r.clock.Boundary()
	if wait := b.TargetDelta(op.DueAt(), r.clock.Now()); wait > 0 {
		r.clock.Advance(wait)
	}

	r.completed.Store(false)
	if err := r.sched.Execute(op); err != nil {
		return false, fmt.Errorf("sim: execute %s: %w", op.Protocol(), err)
	}
	r.stats.Executed++
	if !r.completed.Load() {
		r.onAir = op
	}
	return true, nil
}

// Finish ends the operation on air: the clock advances over its length and
// its protocol completer fires. When nothing completes it, Terminate is
// forced. Finish is a no-op when nothing is on air.
func (r *Runner) Finish() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finishLocked()
}

func (r *Runner) finishLocked() error {
	op := r.onAir
	if op == nil {
		return nil
	}
	r.onAir = nil
	if r.completed.Load() {
		return nil
	}

	r.clock.Advance(op.Length())
	if c, ok := r.completers[op.Protocol()]; ok && c.Complete() && r.completed.Load() {
		return nil
	}

	// nothing armed to finish the operation; end it here
	r.stats.Forced++
	r.logger.Debug().Stringer("protocol", op.Protocol()).Msg("forcing termination")
	if err := r.sched.Terminate(); err != nil {
		return fmt.Errorf("sim: terminate %s: %w", op.Protocol(), err)
	}
	return nil
}

// popNext removes the operation closest to now. Operations already due sort
// first, in queue order.
func (r *Runner) popNext() (Scheduled, bool) {
	if len(r.queue) == 0 {
		return nil, false
	}
	b := r.clock.Boundary()
	now := r.clock.Now()
	best := 0
	bestDelta := b.TargetDelta(r.queue[0].DueAt(), now)
	for i := 1; i < len(r.queue); i++ {
		if d := b.TargetDelta(r.queue[i].DueAt(), now); d < bestDelta {
			best, bestDelta = i, d
		}
	}
	op := r.queue[best]
	r.queue = append(r.queue[:best], r.queue[best+1:]...)
	return op, true
}

// cancelInFlight cancels whatever the scheduler has in flight, whether the
// runner put it on air or it was submitted directly.
func (r *Runner) cancelInFlight() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onAir = nil
	if r.sched.ActiveOperation() == nil {
		return
	}
	r.sched.Cancel()
	r.stats.Cancelled++
}

func (r *Runner) onComplete() {
	r.completed.Store(true)
	r.completions.Add(1)
}
