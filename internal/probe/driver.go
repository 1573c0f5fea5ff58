// Package probe drives the connection machine from asynchronous phase probes.
//
// The driver splits each probe round into three steps so that only the
// blocking part runs off the update loop:
//
//	inv := driver.Next()            // synchronous snapshot, update loop
//	result := inv.Run(ctx)          // blocking probe call, background
//	outcome := driver.Apply(result) // synchronous transition, update loop
package probe

import (
	"context"
	"log/slog"
	"time"

	"github.com/kanbaru/walletbridge/internal/connection"
	"github.com/kanbaru/walletbridge/internal/domain"
	"github.com/kanbaru/walletbridge/internal/services/wallet"
)

// Config contains probe driver tunables.
type Config struct {
	// MinStage is the minimum visible duration of an in-progress phase, so
	// fast probes do not produce an imperceptible flash.
	MinStage time.Duration
	// Timeout bounds a single probe call.
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MinStage: 600 * time.Millisecond,
		Timeout:  5 * time.Second,
	}
}

// Result is the outcome of one probe round, tagged with the phase snapshot it
// was started from so stale resolutions can be detected.
type Result struct {
	Phase   domain.Phase
	Entered *time.Time // phase timestamp at probe start
	OK      bool
	Err     error
	Elapsed time.Duration
}

// Outcome describes what Apply did with a Result.
type Outcome struct {
	// Applied is false when the result was stale and ignored.
	Applied bool
	// Advanced is true when the flow moved on to another phase.
	Advanced bool
	// Done is true when the final phase succeeded.
	Done bool
}

// Invocation is a captured probe round, safe to run off the update loop: it
// holds only the snapshot and the probe, never the machine.
type Invocation struct {
	info     connection.PhaseInfo
	probe    wallet.Probe
	minStage time.Duration
	timeout  time.Duration
	sleep    func(time.Duration)
}

// Driver binds a ProbeSet to a connection machine.
type Driver struct {
	machine *connection.Machine
	probes  wallet.ProbeSet
	cfg     Config
	logger  *slog.Logger

	// sleep is overridable in tests
	sleep func(time.Duration)
}

// NewDriver creates a Driver for the given machine and probes.
func NewDriver(machine *connection.Machine, probes wallet.ProbeSet, cfg Config, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		machine: machine,
		probes:  probes,
		cfg:     cfg,
		logger:  logger,
		sleep:   time.Sleep,
	}
}

// Next captures a probe invocation for the current phase. It returns nil when
// the current phase is not in progress or has no probe configured. Must be
// called from the update loop; each entry into inProgress yields at most one
// invocation.
func (d *Driver) Next() *Invocation {
	info := d.machine.PhaseInfo()
	if info.Status != domain.StatusInProgress {
		return nil
	}
	p := d.probes.For(info.Phase)
	if p == nil {
		return nil
	}
	return &Invocation{
		info:     info,
		probe:    p,
		minStage: d.cfg.MinStage,
		timeout:  d.cfg.Timeout,
		sleep:    d.sleep,
	}
}

// Run evaluates the probe, then pads out to the minimum stage duration. Safe
// to call from a background goroutine.
func (inv *Invocation) Run(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, inv.timeout)
	defer cancel()

	start := time.Now()
	ok, err := inv.probe(ctx)
	elapsed := time.Since(start)

	if remaining := inv.minStage - elapsed; remaining > 0 {
		inv.sleep(remaining)
	}

	return Result{
		Phase:   inv.info.Phase,
		Entered: inv.info.Timestamp,
		OK:      ok && err == nil,
		Err:     err,
		Elapsed: elapsed,
	}
}

// Apply feeds a probe result into the machine. A result is stale, and
// ignored, when the machine has moved on since the probe started: different
// phase, no longer in progress, or a different entry timestamp. This guards
// against a slow probe resolving after Cancel or Restart.
func (d *Driver) Apply(r Result) Outcome {
	info := d.machine.PhaseInfo()
	if info.Phase != r.Phase || info.Status != domain.StatusInProgress || !sameTime(info.Timestamp, r.Entered) {
		d.logger.Debug("ignoring stale probe result", "phase", r.Phase)
		return Outcome{}
	}

	if !r.OK {
		if r.Err != nil {
			d.logger.Info("probe failed", "phase", r.Phase, "error", r.Err)
		}
		d.machine.GoFail()
		return Outcome{Applied: true}
	}

	d.machine.GoOn()
	after := d.machine.PhaseInfo()
	if after.Phase == r.Phase {
		return Outcome{Applied: true, Done: true}
	}
	return Outcome{Applied: true, Advanced: true}
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
