package baseband

import (
	"fmt"

	"github.com/danmuck/bbctl/internal/ticks"
)

// MinClockAccuracyPPM is the tightest sleep clock accuracy accepted.
const MinClockAccuracyPPM = 20

// Config is the run-time configuration applied once by Init.
type Config struct {
	ClockAccuracyPPM      uint16         `json:"clock_accuracy_ppm"`
	RadioSetupDelayUs     uint32         `json:"radio_setup_delay_us"`
	MaxScanPeriodMs       uint32         `json:"max_scan_period_ms"`
	SchedulerSetupDelayUs uint32         `json:"scheduler_setup_delay_us"`
	TimerBoundary         ticks.Boundary `json:"timer_boundary"`
}

// DefaultConfig returns values for a 32-bit microsecond timer.
func DefaultConfig() Config {
	return Config{
		ClockAccuracyPPM:      500,
		RadioSetupDelayUs:     150,
		MaxScanPeriodMs:       1000,
		SchedulerSetupDelayUs: 500,
		TimerBoundary:         ticks.MaxBoundary,
	}
}

// Validate checks every field and names the first one out of range.
func (c Config) Validate() error {
	if c.ClockAccuracyPPM < MinClockAccuracyPPM {
		return fmt.Errorf("%w: clock_accuracy_ppm must be >= %d, got %d",
			ErrInvalidConfig, MinClockAccuracyPPM, c.ClockAccuracyPPM)
	}
	if c.RadioSetupDelayUs == 0 {
		return fmt.Errorf("%w: radio_setup_delay_us must be > 0", ErrInvalidConfig)
	}
	if c.MaxScanPeriodMs == 0 {
		return fmt.Errorf("%w: max_scan_period_ms must be > 0", ErrInvalidConfig)
	}
	if c.SchedulerSetupDelayUs == 0 {
		return fmt.Errorf("%w: scheduler_setup_delay_us must be > 0", ErrInvalidConfig)
	}
	if c.TimerBoundary == 0 {
		return fmt.Errorf("%w: timer_boundary must be > 0", ErrInvalidConfig)
	}
	return nil
}
