package main

import (
	"context"
	"fmt"

	"github.com/danmuck/bbctl/internal/baseband"
	"github.com/danmuck/bbctl/internal/config"
	"github.com/danmuck/bbctl/internal/linklayer"
	"github.com/danmuck/bbctl/internal/observability"
	"github.com/danmuck/bbctl/internal/radio"
	"github.com/danmuck/bbctl/internal/sim"
	"github.com/danmuck/bbctl/internal/timebase"
	"github.com/rs/zerolog/log"
)

// scenario wires one simulated node: radio, timebase, scheduler, protocol
// layers and the runner above them.
type scenario struct {
	cfg    config.Config
	radio  *radio.Sim
	clock  *timebase.Sim
	sched  *baseband.Scheduler
	runner *sim.Runner
	adv    *linklayer.Advertiser
	dtm    *linklayer.TestMode
	prbs   *linklayer.PowerHolder
}

func newScenario(cfg config.Config) (*scenario, error) {
	logger := log.Logger.With().Str("node", cfg.Sim.Node).Logger()
	sc := &scenario{
		cfg:   cfg,
		radio: radio.NewSimWithLogger(logger),
		clock: timebase.NewSim(cfg.Baseband.TimerBoundary, cfg.Sim.StartTicks),
	}
	sc.sched = baseband.New(sc.radio,
		baseband.WithLogger(logger),
		baseband.WithMetrics(observability.NewRecorder(cfg.Sim.Node)),
	)
	if err := sc.sched.Init(cfg.Baseband); err != nil {
		return nil, err
	}

	sc.adv = linklayer.NewAdvertiser(sc.sched, sc.clock)
	sc.dtm = linklayer.NewTestMode(sc.sched)
	sc.prbs = linklayer.NewPowerHolder()
	registrations := []struct {
		id baseband.ProtocolID
		p  baseband.Protocol
	}{
		{baseband.ProtocolBLE, sc.adv},
		{baseband.ProtocolBLETest, sc.dtm},
		{baseband.ProtocolPRBS15, sc.prbs},
	}
	for _, reg := range registrations {
		if err := sc.sched.Register(reg.id, reg.p); err != nil {
			return nil, fmt.Errorf("register %s: %w", reg.id, err)
		}
	}

	runner, err := sim.NewRunner(sc.sched, sc.clock,
		sim.WithLogger(logger),
		sim.WithStepDelay(cfg.Sim.StepDelay),
	)
	if err != nil {
		return nil, err
	}
	runner.AttachCompleter(baseband.ProtocolBLE, sc.adv)
	sc.runner = runner

	if err := runner.Enqueue(buildOperations(cfg)...); err != nil {
		return nil, err
	}
	return sc, nil
}

// buildOperations lays out cfg.Sim.Events operations round-robin over the
// configured protocols, one interval apart starting one interval after start.
func buildOperations(cfg config.Config) []sim.Scheduled {
	b := cfg.Baseband.TimerBoundary
	ops := make([]sim.Scheduled, 0, cfg.Sim.Events)
	due := cfg.Sim.StartTicks
	for i := 0; i < cfg.Sim.Events; i++ {
		due = b.Add(due, cfg.Sim.IntervalTicks)
		seq := uint64(i + 1)
		switch cfg.Sim.Protocols[i%len(cfg.Sim.Protocols)] {
		case baseband.ProtocolBLETest:
			ops = append(ops, &linklayer.TestPacket{Seq: seq, Due: due, Duration: cfg.Sim.DurationTicks})
		default:
			ops = append(ops, &linklayer.Event{Seq: seq, Due: due, Duration: cfg.Sim.DurationTicks})
		}
	}
	return ops
}

func (sc *scenario) Runner() *sim.Runner {
	return sc.runner
}

// Run holds the configured protocols open for the duration of the operation
// stream.
func (sc *scenario) Run(ctx context.Context) error {
	if err := sc.runner.Hold(sc.cfg.Sim.Hold...); err != nil {
		return err
	}
	runErr := sc.runner.Run(ctx, 0)
	if err := sc.runner.Release(sc.cfg.Sim.Hold...); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}

	st := sc.runner.Stats()
	adv := sc.adv.Stats()
	log.Info().
		Str("node", sc.cfg.Sim.Node).
		Uint64("executed", st.Executed).
		Uint64("completed", st.Completed).
		Uint64("forced", st.Forced).
		Uint64("adv_missed", adv.Missed).
		Uint64("dtm_packets", sc.dtm.Stats().Executed).
		Int("radio_power_ups", sc.radio.PowerUps()).
		Uint32("now", sc.clock.Now()).
		Msg("simulation complete")
	return nil
}

func (sc *scenario) Close() {
	sc.sched.Teardown()
}
