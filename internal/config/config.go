package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/bbctl/internal/baseband"
	"github.com/danmuck/bbctl/internal/ticks"
)

var ErrInvalid = errors.New("config: invalid value")

// Config is the resolved bbsim configuration.
type Config struct {
	Baseband baseband.Config
	Sim      SimConfig
	Admin    AdminConfig
}

// SimConfig drives the simulated operation stream.
type SimConfig struct {
	Node          string
	Events        int
	StartTicks    uint32
	IntervalTicks uint32
	DurationTicks uint32
	Protocols     []baseband.ProtocolID
	Hold          []baseband.ProtocolID
	StepDelay     time.Duration
}

// AdminConfig configures the HTTP admin surface.
type AdminConfig struct {
	Enabled     bool
	Addr        string
	CorsOrigins []string
}

type fileConfig struct {
	Baseband fileBaseband `toml:"baseband"`
	Sim      fileSim      `toml:"sim"`
	Admin    fileAdmin    `toml:"admin"`
}

type fileBaseband struct {
	ClockAccuracyPPM      uint16 `toml:"clock_accuracy_ppm"`
	RadioSetupDelayUs     uint32 `toml:"radio_setup_delay_us"`
	MaxScanPeriodMs       uint32 `toml:"max_scan_period_ms"`
	SchedulerSetupDelayUs uint32 `toml:"scheduler_setup_delay_us"`
	TimerBoundary         uint32 `toml:"timer_boundary"`
}

type fileSim struct {
	Node          string   `toml:"node"`
	Events        int      `toml:"events"`
	StartTicks    uint32   `toml:"start_ticks"`
	IntervalTicks uint32   `toml:"interval_ticks"`
	DurationTicks uint32   `toml:"duration_ticks"`
	Protocols     []string `toml:"protocols"`
	Hold          []string `toml:"hold"`
	StepDelay     string   `toml:"step_delay"`
}

type fileAdmin struct {
	Enabled     bool     `toml:"enabled"`
	Addr        string   `toml:"addr"`
	CorsOrigins []string `toml:"cors_origins"`
}

// Default returns the configuration used when no file overrides a key.
func Default() Config {
	return Config{
		Baseband: baseband.DefaultConfig(),
		Sim: SimConfig{
			Node:          "bbsim",
			Events:        32,
			StartTicks:    uint32(ticks.MaxBoundary) - 4000,
			IntervalTicks: 625,
			DurationTicks: 376,
			Protocols:     []baseband.ProtocolID{baseband.ProtocolBLE, baseband.ProtocolBLETest},
			Hold:          []baseband.ProtocolID{},
		},
		Admin: AdminConfig{
			Enabled:     false,
			Addr:        "127.0.0.1:9300",
			CorsOrigins: []string{"http://localhost:3000"},
		},
	}
}

// Load reads path and applies every defined key over Default.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: unknown key %q", ErrInvalid, undecoded[0].String())
	}

	if meta.IsDefined("baseband", "clock_accuracy_ppm") {
		cfg.Baseband.ClockAccuracyPPM = raw.Baseband.ClockAccuracyPPM
	}
	if meta.IsDefined("baseband", "radio_setup_delay_us") {
		cfg.Baseband.RadioSetupDelayUs = raw.Baseband.RadioSetupDelayUs
	}
	if meta.IsDefined("baseband", "max_scan_period_ms") {
		cfg.Baseband.MaxScanPeriodMs = raw.Baseband.MaxScanPeriodMs
	}
	if meta.IsDefined("baseband", "scheduler_setup_delay_us") {
		cfg.Baseband.SchedulerSetupDelayUs = raw.Baseband.SchedulerSetupDelayUs
	}
	if meta.IsDefined("baseband", "timer_boundary") {
		cfg.Baseband.TimerBoundary = ticks.Boundary(raw.Baseband.TimerBoundary)
	}

	if meta.IsDefined("sim", "node") {
		cfg.Sim.Node = strings.TrimSpace(raw.Sim.Node)
	}
	if meta.IsDefined("sim", "events") {
		cfg.Sim.Events = raw.Sim.Events
	}
	if meta.IsDefined("sim", "start_ticks") {
		cfg.Sim.StartTicks = raw.Sim.StartTicks
	}
	if meta.IsDefined("sim", "interval_ticks") {
		cfg.Sim.IntervalTicks = raw.Sim.IntervalTicks
	}
	if meta.IsDefined("sim", "duration_ticks") {
		cfg.Sim.DurationTicks = raw.Sim.DurationTicks
	}
	if meta.IsDefined("sim", "protocols") {
		ids, err := parseProtocols(raw.Sim.Protocols)
		if err != nil {
			return Config{}, fmt.Errorf("parse sim.protocols: %w", err)
		}
		cfg.Sim.Protocols = ids
	}
	if meta.IsDefined("sim", "hold") {
		ids, err := parseProtocols(raw.Sim.Hold)
		if err != nil {
			return Config{}, fmt.Errorf("parse sim.hold: %w", err)
		}
		cfg.Sim.Hold = ids
	}
	if meta.IsDefined("sim", "step_delay") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Sim.StepDelay))
		if err != nil {
			return Config{}, fmt.Errorf("parse sim.step_delay: %w", err)
		}
		cfg.Sim.StepDelay = d
	}

	if meta.IsDefined("admin", "enabled") {
		cfg.Admin.Enabled = raw.Admin.Enabled
	}
	if meta.IsDefined("admin", "addr") {
		cfg.Admin.Addr = strings.TrimSpace(raw.Admin.Addr)
	}
	if meta.IsDefined("admin", "cors_origins") {
		cfg.Admin.CorsOrigins = normalizeList(raw.Admin.CorsOrigins)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints on a resolved configuration.
func Validate(cfg Config) error {
	if err := cfg.Baseband.Validate(); err != nil {
		return err
	}
	if cfg.Sim.Node == "" {
		return fmt.Errorf("%w: sim.node is required", ErrInvalid)
	}
	if cfg.Sim.Events < 0 {
		return fmt.Errorf("%w: sim.events must be >= 0", ErrInvalid)
	}
	if cfg.Sim.IntervalTicks == 0 {
		return fmt.Errorf("%w: sim.interval_ticks must be > 0", ErrInvalid)
	}
	if cfg.Sim.IntervalTicks > cfg.Baseband.TimerBoundary.Half() {
		return fmt.Errorf("%w: sim.interval_ticks must be <= timer_boundary/2", ErrInvalid)
	}
	if uint64(cfg.Sim.Events)*uint64(cfg.Sim.IntervalTicks) > uint64(cfg.Baseband.TimerBoundary.Half()) {
		return fmt.Errorf("%w: sim.events * sim.interval_ticks must be <= timer_boundary/2", ErrInvalid)
	}
	if cfg.Sim.StartTicks > uint32(cfg.Baseband.TimerBoundary) {
		return fmt.Errorf("%w: sim.start_ticks exceeds timer_boundary", ErrInvalid)
	}
	if cfg.Sim.StepDelay < 0 {
		return fmt.Errorf("%w: sim.step_delay must be >= 0", ErrInvalid)
	}
	if len(cfg.Sim.Protocols) == 0 && cfg.Sim.Events > 0 {
		return fmt.Errorf("%w: sim.protocols is empty", ErrInvalid)
	}
	for _, id := range cfg.Sim.Protocols {
		if id != baseband.ProtocolBLE && id != baseband.ProtocolBLETest {
			return fmt.Errorf("%w: sim.protocols: %s has no operations", ErrInvalid, id)
		}
	}
	for _, id := range cfg.Sim.Hold {
		if !holdable(id) {
			return fmt.Errorf("%w: sim.hold: %s is not registered by the simulator", ErrInvalid, id)
		}
	}
	if cfg.Admin.Enabled && cfg.Admin.Addr == "" {
		return fmt.Errorf("%w: admin.addr is required when admin is enabled", ErrInvalid)
	}
	return nil
}

// holdable reports whether bbsim registers a protocol layer for id.
func holdable(id baseband.ProtocolID) bool {
	switch id {
	case baseband.ProtocolBLE, baseband.ProtocolBLETest, baseband.ProtocolPRBS15:
		return true
	}
	return false
}

func parseProtocols(names []string) ([]baseband.ProtocolID, error) {
	out := make([]baseband.ProtocolID, 0, len(names))
	for _, name := range normalizeList(names) {
		id, err := baseband.ParseProtocolID(name)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func normalizeList(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
