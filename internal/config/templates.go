package config

import (
	"fmt"
	"os"

	"github.com/danmuck/bbctl/internal/baseband"
	gotoml "github.com/pelletier/go-toml/v2"
)

// Template renders cfg as a TOML document Load accepts.
func Template(cfg Config) (string, error) {
	out, err := gotoml.Marshal(toFile(cfg))
	if err != nil {
		return "", fmt.Errorf("config render failed: %w", err)
	}
	return string(out), nil
}

func WriteTemplate(path string, overwrite bool) error {
	template, err := Template(Default())
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

func toFile(cfg Config) fileConfig {
	f := fileConfig{
		Baseband: fileBaseband{
			ClockAccuracyPPM:      cfg.Baseband.ClockAccuracyPPM,
			RadioSetupDelayUs:     cfg.Baseband.RadioSetupDelayUs,
			MaxScanPeriodMs:       cfg.Baseband.MaxScanPeriodMs,
			SchedulerSetupDelayUs: cfg.Baseband.SchedulerSetupDelayUs,
			TimerBoundary:         uint32(cfg.Baseband.TimerBoundary),
		},
		Sim: fileSim{
			Node:          cfg.Sim.Node,
			Events:        cfg.Sim.Events,
			StartTicks:    cfg.Sim.StartTicks,
			IntervalTicks: cfg.Sim.IntervalTicks,
			DurationTicks: cfg.Sim.DurationTicks,
			Protocols:     protocolNames(cfg.Sim.Protocols),
			Hold:          protocolNames(cfg.Sim.Hold),
			StepDelay:     cfg.Sim.StepDelay.String(),
		},
		Admin: fileAdmin{
			Enabled:     cfg.Admin.Enabled,
			Addr:        cfg.Admin.Addr,
			CorsOrigins: cfg.Admin.CorsOrigins,
		},
	}
	if f.Admin.CorsOrigins == nil {
		f.Admin.CorsOrigins = []string{}
	}
	return f
}

func protocolNames(ids []baseband.ProtocolID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
