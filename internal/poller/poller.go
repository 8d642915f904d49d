// Package poller drives periodic and manual polls of the diagnostic
// tool and emits one snapshot or one error per completed poll.
package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Mateuse/Gpu-Monitor/internal/bus"
	"github.com/Mateuse/Gpu-Monitor/internal/domain"
	"github.com/Mateuse/Gpu-Monitor/internal/nvsmi"
	"github.com/Mateuse/Gpu-Monitor/internal/observability"
	"github.com/Mateuse/Gpu-Monitor/internal/telemetry"
	"github.com/Mateuse/Gpu-Monitor/pkg/utils"
)

// Interval bounds for the periodic schedule.
const (
	MinInterval = 1 * time.Second
	MaxInterval = 60 * time.Second
)

// State identifies the poller lifecycle state.
type State int

const (
	// StateIdle means no periodic schedule has been started yet.
	StateIdle State = iota
	// StateRunning means the periodic schedule is active.
	StateRunning
	// StateStopped means a schedule ran and was stopped. Manual
	// refreshes still work; Start is allowed again.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Poller owns the polling schedule and the single-flight slot shared by
// periodic ticks and manual refreshes. All poll failures are recovered
// here and delivered to subscribers as PollError values.
type Poller struct {
	runner nvsmi.CommandRunner
	parser *telemetry.Parser
	bus    *bus.Bus
	obs    *observability.Metrics
	logger *slog.Logger

	mu       sync.Mutex
	state    State
	interval time.Duration
	cancel   context.CancelFunc
	loopDone chan struct{}

	// gen invalidates in-flight polls: Stop bumps it, and a result
	// produced under an older generation is discarded before emission.
	gen atomic.Int64

	// inFlight is the single-flight slot. A trigger that finds it
	// taken is skipped, never queued.
	inFlight atomic.Bool

	// emitMu serializes emissions so subscribers observe results in
	// completion order.
	emitMu sync.Mutex

	// Statistics
	pollsCompleted atomic.Int64
	pollsSkipped   atomic.Int64
	pollsFailed    atomic.Int64
}

// NewPoller creates a poller. The observability metrics may be nil when
// the process does not expose them.
func NewPoller(runner nvsmi.CommandRunner, b *bus.Bus, obs *observability.Metrics, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}

	return &Poller{
		runner:   runner,
		parser:   telemetry.NewParser(),
		bus:      b,
		obs:      obs,
		logger:   logger.With("component", "poller"),
		interval: 5 * time.Second,
	}
}

// Start begins the periodic schedule: an immediate poll, then one per
// interval. Valid from Idle and Stopped; returns ErrAlreadyRunning from
// Running. The interval must lie in [MinInterval, MaxInterval].
//
// The scheduling loop stops when ctx is cancelled or Stop is called.
// The context does not bound individual tool invocations; those carry
// their own timeout so an in-flight process is never force-killed by
// shutdown.
func (p *Poller) Start(ctx context.Context, interval time.Duration) error {
	if err := validateInterval(interval); err != nil {
		return err
	}

	p.mu.Lock()
	if p.state == StateRunning {
		p.mu.Unlock()
		return domain.ErrAlreadyRunning
	}
	p.state = StateRunning
	p.interval = interval

	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	done := make(chan struct{})
	p.loopDone = done
	p.mu.Unlock()

	gen := p.gen.Load()
	p.logger.Info("monitoring started", "interval", interval)

	go p.loop(loopCtx, gen, done)
	return nil
}

// Stop cancels the periodic schedule. A poll already in flight is
// allowed to finish, but its result is discarded instead of delivered.
// Returns ErrNotRunning when no schedule is active.
func (p *Poller) Stop() error {
	p.mu.Lock()
	if p.state != StateRunning {
		p.mu.Unlock()
		return domain.ErrNotRunning
	}
	p.state = StateStopped
	cancel := p.cancel
	p.cancel = nil
	done := p.loopDone
	p.loopDone = nil
	p.mu.Unlock()

	// Invalidate before cancelling so a result that races the stop
	// is dropped at the emission gate.
	p.gen.Add(1)
	cancel()
	if done != nil {
		<-done
	}

	p.logger.Info("monitoring stopped",
		"polls_completed", p.pollsCompleted.Load(),
		"polls_skipped", p.pollsSkipped.Load(),
	)
	return nil
}

// ManualRefresh triggers a one-shot poll immediately, independent of
// and without resetting the periodic schedule. It works from any state
// and returns without waiting for the result, which is delivered to
// subscribers like any periodic result.
func (p *Poller) ManualRefresh() {
	gen := p.gen.Load()
	go p.poll(context.Background(), gen)
}

// SetInterval changes the periodic interval. While running, the change
// takes effect when the next tick is armed; the pending tick keeps its
// original deadline (documented choice: no retroactive reschedule).
func (p *Poller) SetInterval(interval time.Duration) error {
	if err := validateInterval(interval); err != nil {
		return err
	}

	p.mu.Lock()
	p.interval = interval
	p.mu.Unlock()

	p.logger.Info("interval updated", "interval", interval)
	return nil
}

// State returns the current lifecycle state.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Interval returns the current periodic interval.
func (p *Poller) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}

// loop is the scheduling goroutine. The timer is re-armed after each
// tick with the interval current at that moment.
func (p *Poller) loop(ctx context.Context, gen int64, done chan struct{}) {
	defer close(done)

	p.poll(ctx, gen)

	timer := time.NewTimer(p.Interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			p.poll(ctx, gen)
			timer.Reset(p.Interval())
		}
	}
}

// poll runs one complete poll: invoke the tool, parse, emit. The ctx
// carries caller values only; invocation deadlines come from the
// runner's own timeout.
func (p *Poller) poll(ctx context.Context, gen int64) {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.pollsSkipped.Add(1)
		p.countOutcome(observability.OutcomeSkipped)
		p.logger.Debug("poll already in flight, trigger skipped")
		return
	}
	defer p.inFlight.Store(false)

	started := time.Now()

	raw, err := p.runner.QueryMetrics(context.WithoutCancel(ctx))
	if err != nil {
		p.emit(gen, nil, p.runFailure(err))
		return
	}

	devices, warnings, err := p.parser.Parse(raw)
	for _, w := range warnings {
		p.logger.Warn("dropped tool output line",
			"line", w.Line,
			"reason", w.Reason,
		)
	}
	if p.obs != nil {
		p.obs.ParseLinesSkipped.Add(float64(len(warnings)))
	}
	if err != nil {
		p.emit(gen, nil, &domain.PollError{
			Kind:      domain.ParseFailure,
			RawOutput: raw,
			Message:   err.Error(),
			Timestamp: utils.NowUTC(),
		})
		return
	}

	// The full report feeds the detailed and raw views; losing it
	// does not fail the poll.
	full, err := p.runner.FullReport(context.WithoutCancel(ctx))
	if err != nil {
		p.logger.Debug("full report unavailable", "error", err)
		full = ""
	}

	snap := &domain.MetricSnapshot{
		Timestamp:  utils.NowUTC(),
		Devices:    devices,
		RawQuery:   raw,
		FullReport: full,
	}

	if p.obs != nil {
		p.obs.PollDuration.Observe(time.Since(started).Seconds())
		p.obs.DevicesReported.Set(float64(len(devices)))
	}

	p.emit(gen, snap, nil)
}

// emit delivers exactly one outcome for a completed poll, unless the
// poll's generation has been invalidated by Stop.
func (p *Poller) emit(gen int64, snap *domain.MetricSnapshot, perr *domain.PollError) {
	p.emitMu.Lock()
	defer p.emitMu.Unlock()

	if gen != p.gen.Load() {
		p.logger.Debug("discarding result of poll completed after stop")
		return
	}

	if snap != nil {
		p.pollsCompleted.Add(1)
		p.countOutcome(observability.OutcomeSuccess)
		p.bus.PublishSnapshot(snap)
		return
	}

	p.pollsCompleted.Add(1)
	p.pollsFailed.Add(1)
	p.countOutcome(outcomeForKind(perr.Kind))
	p.logger.Warn("poll failed", "kind", string(perr.Kind), "message", perr.Message)
	p.bus.PublishError(perr)
}

// runFailure converts a runner error into a PollError.
func (p *Poller) runFailure(err error) *domain.PollError {
	perr := &domain.PollError{
		Kind:      domain.ToolNonZeroExit,
		Message:   err.Error(),
		Timestamp: utils.NowUTC(),
	}

	var runErr *nvsmi.RunError
	if errors.As(err, &runErr) {
		perr.RawOutput = runErr.Output
		switch runErr.Kind {
		case nvsmi.KindNotFound:
			perr.Kind = domain.ToolNotFound
			perr.Message = fmt.Sprintf("diagnostic tool not found: %v", runErr.Err)
		case nvsmi.KindTimeout:
			perr.Kind = domain.ToolTimeout
			perr.Message = fmt.Sprintf("diagnostic tool timed out: %v", runErr.Err)
		case nvsmi.KindNonZeroExit:
			perr.Kind = domain.ToolNonZeroExit
			perr.Message = fmt.Sprintf("diagnostic tool exited with failure: %v", runErr.Err)
		}
	}

	return perr
}

func (p *Poller) countOutcome(outcome string) {
	if p.obs != nil {
		p.obs.PollsTotal.WithLabelValues(outcome).Inc()
	}
}

// Stats returns poll counters accumulated since creation.
func (p *Poller) Stats() Stats {
	return Stats{
		PollsCompleted: p.pollsCompleted.Load(),
		PollsSkipped:   p.pollsSkipped.Load(),
		PollsFailed:    p.pollsFailed.Load(),
	}
}

// Stats holds poller statistics.
type Stats struct {
	PollsCompleted int64
	PollsSkipped   int64
	PollsFailed    int64
}

func validateInterval(interval time.Duration) error {
	if interval < MinInterval || interval > MaxInterval {
		return fmt.Errorf("%w: %s not in [%s, %s]",
			domain.ErrInvalidInterval, interval, MinInterval, MaxInterval)
	}
	return nil
}

func outcomeForKind(kind domain.PollErrorKind) string {
	switch kind {
	case domain.ToolNotFound:
		return observability.OutcomeNotFound
	case domain.ToolTimeout:
		return observability.OutcomeTimeout
	case domain.ToolNonZeroExit:
		return observability.OutcomeNonZeroExit
	case domain.ParseFailure:
		return observability.OutcomeParseFailure
	default:
		return observability.OutcomeParseFailure
	}
}
