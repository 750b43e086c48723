package runner

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"robohw/internal/hardware"
	"robohw/pkg/logging"
)

// UpdateFunc is the control computation the host runs between Read and
// Write each cycle. It executes on the real-time goroutine and must not
// block.
type UpdateFunc func(t time.Time, period time.Duration)

// StatusEvent is published on every committed status transition of the
// hardware interface.
type StatusEvent struct {
	Namespace string
	OldStatus hardware.Status
	NewStatus hardware.Status
	Reason    string
	Timestamp time.Time
}

// SwitchResult reports the outcome of a controller switch request.
type SwitchResult struct {
	Accepted bool
	Reason   string
}

type switchRequest struct {
	start []hardware.ControllerInfo
	stop  []hardware.ControllerInfo
	reply chan SwitchResult
}

// Config holds the construction parameters of a Runner.
type Config struct {
	// HW is the hardware interface to drive. Required.
	HW *hardware.RobotHW

	// Update is the per-cycle control computation. Optional.
	Update UpdateFunc

	// RootScope is passed through to HW.Init.
	RootScope string

	// SwitchQueue sizes the pending switch request queue. Zero means 8.
	SwitchQueue int
}

// Runner owns the real-time loop of one hardware interface: it initializes
// the interface, runs the cyclic read-compute-write sequence at the
// configured sampling period, and applies controller switch requests at
// cycle boundaries. Shutdown is requested out-of-band through the context
// and takes effect within one sampling period.
type Runner struct {
	hw        *hardware.RobotHW
	update    UpdateFunc
	rootScope string

	switchRequests chan switchRequest

	mu                sync.Mutex
	statusSubscribers []chan<- StatusEvent
	running           bool

	cycles atomic.Uint64
}

// New creates a runner for the given hardware interface.
func New(cfg Config) *Runner {
	queue := cfg.SwitchQueue
	if queue <= 0 {
		queue = 8
	}

	r := &Runner{
		hw:             cfg.HW,
		update:         cfg.Update,
		rootScope:      cfg.RootScope,
		switchRequests: make(chan switchRequest, queue),
	}

	cfg.HW.SetStatusChangeCallback(r.publishStatusEvent)
	return r
}

// Run initializes the hardware interface and drives the cyclic loop on the
// calling goroutine, which thereby becomes the real-time thread. It returns
// when the context is cancelled, after shutting the interface down. A
// failed initialization returns an error without ever entering the loop.
func (r *Runner) Run(ctx context.Context) error {
	if !r.hw.Init(r.rootScope, r.hw.Namespace()) {
		return fmt.Errorf("hardware interface %s failed to initialize: %s", r.hw.Namespace(), r.hw.LastError())
	}

	if !r.hw.InitRT() {
		r.hw.Shutdown()
		return fmt.Errorf("hardware interface %s failed real-time initialization", r.hw.Namespace())
	}

	period := r.hw.SamplingPeriod()
	logging.Info("Runner", "%s: starting cycle at period %s", r.hw.Namespace(), period)

	r.mu.Lock()
	r.running = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			logging.Info("Runner", "%s: shutdown requested after %d cycles", r.hw.Namespace(), r.cycles.Load())
			r.rejectPendingSwitches()
			if !r.hw.Shutdown() {
				return fmt.Errorf("hardware interface %s shutdown hook failed", r.hw.Namespace())
			}
			return nil

		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now

			r.hw.Read(now, elapsed)
			if r.update != nil {
				r.update(now, elapsed)
			}
			r.hw.Write(now, elapsed)
			r.cycles.Add(1)

			// Switch requests are applied between cycles, never
			// mid-cycle.
			r.drainSwitchRequests()
		}
	}
}

// drainSwitchRequests processes every queued switch request.
func (r *Runner) drainSwitchRequests() {
	for {
		select {
		case req := <-r.switchRequests:
			req.reply <- r.applySwitch(req.start, req.stop)
		default:
			return
		}
	}
}

// rejectPendingSwitches answers queued requests that will never be applied.
func (r *Runner) rejectPendingSwitches() {
	for {
		select {
		case req := <-r.switchRequests:
			req.reply <- SwitchResult{Accepted: false, Reason: "runner stopping"}
		default:
			return
		}
	}
}

// applySwitch runs the full switch sequence: conflict check, prepare,
// commit. A rejection at any step leaves the active controller set
// untouched.
func (r *Runner) applySwitch(start, stop []hardware.ControllerInfo) SwitchResult {
	if r.hw.CheckForSwitchConflict(start, stop) {
		return SwitchResult{Accepted: false, Reason: "conflict with active controllers"}
	}
	if !r.hw.PrepareSwitch(start, stop) {
		return SwitchResult{Accepted: false, Reason: "switch rejected by prepare"}
	}
	r.hw.DoSwitch(start, stop)
	return SwitchResult{Accepted: true}
}

// RequestSwitch asks the real-time loop to switch controllers and waits for
// the decision. It is safe to call from any goroutine. The request fails
// immediately when the loop is not running.
func (r *Runner) RequestSwitch(ctx context.Context, start, stop []hardware.ControllerInfo) (SwitchResult, error) {
	r.mu.Lock()
	running := r.running
	r.mu.Unlock()
	if !running {
		return SwitchResult{}, fmt.Errorf("runner for %s is not running", r.hw.Namespace())
	}

	req := switchRequest{start: start, stop: stop, reply: make(chan SwitchResult, 1)}

	select {
	case r.switchRequests <- req:
	case <-ctx.Done():
		return SwitchResult{}, ctx.Err()
	}

	select {
	case result := <-req.reply:
		return result, nil
	case <-ctx.Done():
		return SwitchResult{}, ctx.Err()
	}
}

// SubscribeStatus returns a channel receiving every committed status
// transition. Events are dropped rather than blocking the real-time loop
// when a subscriber falls behind.
func (r *Runner) SubscribeStatus() <-chan StatusEvent {
	events := make(chan StatusEvent, 64)
	r.mu.Lock()
	r.statusSubscribers = append(r.statusSubscribers, events)
	r.mu.Unlock()
	return events
}

// publishStatusEvent fans a status transition out to all subscribers.
func (r *Runner) publishStatusEvent(namespace string, old, next hardware.Status, reason string) {
	event := StatusEvent{
		Namespace: namespace,
		OldStatus: old,
		NewStatus: next,
		Reason:    reason,
		Timestamp: time.Now(),
	}

	r.mu.Lock()
	subscribers := make([]chan<- StatusEvent, len(r.statusSubscribers))
	copy(subscribers, r.statusSubscribers)
	r.mu.Unlock()

	for _, subscriber := range subscribers {
		select {
		case subscriber <- event:
		default:
			logging.Debug("Runner", "Status subscriber blocked, dropping event for %s", namespace)
		}
	}
}

// Cycles returns how many cycles have completed.
func (r *Runner) Cycles() uint64 {
	return r.cycles.Load()
}

// HW returns the driven hardware interface.
func (r *Runner) HW() *hardware.RobotHW {
	return r.hw
}
