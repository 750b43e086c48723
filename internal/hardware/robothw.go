package hardware

import (
	"strings"
	"sync"
	"time"

	"robohw/pkg/logging"
)

// StatusChangeCallback is invoked after a committed status transition. It is
// always called outside the shared mutex to avoid deadlocks.
type StatusChangeCallback func(namespace string, oldStatus, newStatus Status, reason string)

// Options configures a RobotHW instance at construction time.
type Options struct {
	// Namespace identifies this hardware interface instance, e.g. "/ur10/hw".
	Namespace string

	// ResourceNames is the ordered set of resource identifiers this
	// interface exposes. Immutable once Init has run.
	ResourceNames []string

	// SamplingPeriod is the nominal control cycle period.
	SamplingPeriod time.Duration

	// HistoryLimit caps the status history. Zero means DefaultHistoryLimit.
	HistoryLimit int

	// SetStatusParam, when non-nil, is invoked with a status description
	// after every successful parameter set.
	SetStatusParam SetStatusParamFcn
}

// RobotHW is the lifecycle core of a hardware interface. It wraps every
// lifecycle operation in a fixed enter/do/exit envelope that manages status
// updates, history, logging and locking uniformly, delegating the
// hardware-specific behavior to the Driver hooks.
//
// Two caller domains are supported: a single periodic real-time thread
// driving Init/InitRT/Read/Write and the controller-switch operations, and
// any number of non-real-time threads calling SetParam/GetParam. The two
// domains are serialized by one shared mutex; the real-time write path holds
// it for the shortest possible critical section.
type RobotHW struct {
	mu sync.Mutex

	driver Driver

	namespace      string
	robotName      string
	samplingPeriod time.Duration
	resourceNames  []string

	status       Status
	lastError    string
	history      []StatusTransition
	historyLimit int

	activeControllers []ControllerInfo

	params         map[string]string
	setStatusParam SetStatusParamFcn
	statusCb       StatusChangeCallback

	initialized   bool
	rtInitialized bool
	shutdownDone  bool
}

// New creates a hardware interface around the given driver. The driver must
// not be nil.
func New(driver Driver, opts Options) *RobotHW {
	limit := opts.HistoryLimit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	period := opts.SamplingPeriod
	if period <= 0 {
		period = 10 * time.Millisecond
	}

	names := make([]string, len(opts.ResourceNames))
	copy(names, opts.ResourceNames)

	return &RobotHW{
		driver:         driver,
		namespace:      opts.Namespace,
		robotName:      ExtractRobotName(opts.Namespace),
		samplingPeriod: period,
		resourceNames:  names,
		status:         StatusUninitialized,
		historyLimit:   limit,
		params:         make(map[string]string),
		setStatusParam: opts.SetStatusParam,
	}
}

// ExtractRobotName derives a flat robot name from a hierarchical namespace:
// the leading separator is dropped and the remaining separators become
// underscores, so "/ur10/hw" yields "ur10_hw".
func ExtractRobotName(namespace string) string {
	name := strings.TrimPrefix(namespace, "/")
	return strings.ReplaceAll(name, "/", "_")
}

// Init performs the one-time setup of the hardware interface. rootScope and
// hwScope name the configuration scopes of the hosting process and of this
// instance; hwScope overrides an empty construction-time namespace.
//
// Init never panics across the driver boundary: a failure (or panic) in the
// DoInit hook is converted into a false return plus an Error status. Calling
// Init twice without an intervening Shutdown fails and leaves status
// untouched.
func (hw *RobotHW) Init(rootScope, hwScope string) bool {
	// enterInit: precondition checks and transition to Initializing.
	hw.mu.Lock()
	if hw.initialized {
		hw.mu.Unlock()
		logging.Warn("RobotHW", "%s: Init called twice without Shutdown", hw.namespace)
		return false
	}
	if hw.shutdownDone {
		hw.mu.Unlock()
		logging.Warn("RobotHW", "%s: Init called after Shutdown", hw.namespace)
		return false
	}
	if hw.namespace == "" && hwScope != "" {
		hw.namespace = hwScope
		hw.robotName = ExtractRobotName(hwScope)
	}
	old := hw.setStatusLocked(StatusInitializing, "init requested")
	hw.mu.Unlock()
	hw.notifyStatus(old, StatusInitializing, "init requested")

	logging.Info("RobotHW", "%s: initializing (root scope %q)", hw.namespace, rootScope)

	ok := hw.safeHook("DoInit", hw.driver.DoInit)

	// exitInit: commit the outcome.
	hw.mu.Lock()
	var next Status
	var reason string
	if ok {
		hw.initialized = true
		next, reason = StatusInitialized, "init complete"
	} else {
		next, reason = StatusError, "initialization failure"
	}
	old = hw.setStatusLocked(next, reason)
	hw.mu.Unlock()
	hw.notifyStatus(old, next, reason)

	hw.DumpState()
	return ok
}

// InitRT runs the driver's real-time initialization hook, if it provides
// one. It must be called on the real-time thread, after a successful Init
// and before the first Read. Calling it again is a no-op returning true.
func (hw *RobotHW) InitRT() bool {
	hw.mu.Lock()
	if !hw.initialized || hw.shutdownDone {
		hw.mu.Unlock()
		logging.Warn("RobotHW", "%s: InitRT called outside the initialized state", hw.namespace)
		return false
	}
	if hw.rtInitialized {
		hw.mu.Unlock()
		return true
	}
	hw.mu.Unlock()

	ok := true
	if rt, has := hw.driver.(RTInitializer); has {
		ok = hw.safeHook("InitRT", rt.InitRT)
	}

	hw.mu.Lock()
	var old Status
	var notify bool
	if ok {
		hw.rtInitialized = true
	} else {
		old = hw.setStatusLocked(StatusError, "real-time initialization failure")
		notify = true
	}
	hw.mu.Unlock()
	if notify {
		hw.notifyStatus(old, StatusError, "real-time initialization failure")
	}
	return ok
}

// Read acquires the hardware state for the current cycle. It is a thin
// passthrough to the DoRead hook: unlike Write it carries no enter/exit
// envelope, keeping the read path free of any overhead beyond the hook
// itself. A read failure is recorded in the status history but does not halt
// the cycle; missing a cycle is a scheduler-level fault, not one this core
// reacts to.
func (hw *RobotHW) Read(t time.Time, period time.Duration) {
	ok := hw.safeHook("DoRead", func() bool { return hw.driver.DoRead(t, period) })

	hw.mu.Lock()
	var old, next Status
	var reason string
	var notify bool
	if ok {
		if hw.status == StatusInitialized {
			next, reason = StatusRunning, "cyclic read started"
			old = hw.setStatusLocked(next, reason)
			notify = true
		}
	} else if hw.status != StatusError {
		next, reason = StatusError, "read failure"
		old = hw.setStatusLocked(next, reason)
		notify = true
	}
	hw.mu.Unlock()
	if notify {
		hw.notifyStatus(old, next, reason)
	}
}

// Write flushes the commands computed this cycle to the hardware. The
// enter/exit envelope acquires the shared mutex for the minimum necessary
// duration, so no configuration mutation and no controller switch can
// interleave with the DoWrite hook.
func (hw *RobotHW) Write(t time.Time, period time.Duration) {
	// enterWrite
	hw.mu.Lock()
	ok := hw.safeHook("DoWrite", func() bool { return hw.driver.DoWrite(t, period) })
	// exitWrite
	var old, next Status
	var reason string
	var notify bool
	if !ok && hw.status != StatusError {
		next, reason = StatusError, "write failure"
		old = hw.setStatusLocked(next, reason)
		notify = true
	}
	hw.mu.Unlock()
	if notify {
		hw.notifyStatus(old, next, reason)
	}
}

// Shutdown transitions the interface to its terminal state. It is
// idempotent: the second and subsequent calls return true without invoking
// the DoShutdown hook again. A failing hook is logged but the interface
// still ends up in the terminal Shutdown status; shutdown is best-effort,
// not retryable.
func (hw *RobotHW) Shutdown() bool {
	// enterShutdown
	hw.mu.Lock()
	if hw.shutdownDone {
		hw.mu.Unlock()
		return true
	}
	old := hw.setStatusLocked(StatusShuttingDown, "shutdown requested")
	hw.mu.Unlock()
	hw.notifyStatus(old, StatusShuttingDown, "shutdown requested")

	ok := hw.safeHook("DoShutdown", hw.driver.DoShutdown)
	if !ok {
		logging.Warn("RobotHW", "%s: shutdown hook failed, forcing terminal state", hw.namespace)
	}

	// exitShutdown: terminal regardless of the hook outcome.
	hw.mu.Lock()
	hw.shutdownDone = true
	hw.initialized = false
	reason := "shutdown complete"
	if !ok {
		reason = "shutdown hook failed"
	}
	old = hw.setStatusLocked(StatusShutdown, reason)
	hw.mu.Unlock()
	hw.notifyStatus(old, StatusShutdown, reason)

	hw.DumpState()
	return ok
}

// setStatusLocked commits a status transition and appends it to the history.
// Caller must hold hw.mu; the returned previous status lets the caller
// notify subscribers after unlocking.
func (hw *RobotHW) setStatusLocked(status Status, reason string) Status {
	old := hw.status
	hw.status = status
	if status == StatusError {
		hw.lastError = reason
	}
	hw.history = appendHistory(hw.history, newTransition(status, reason), hw.historyLimit)
	return old
}

// notifyStatus invokes the status change callback, if any, outside the lock.
func (hw *RobotHW) notifyStatus(old, next Status, reason string) {
	hw.mu.Lock()
	cb := hw.statusCb
	hw.mu.Unlock()
	if cb != nil && old != next {
		cb(hw.namespace, old, next, reason)
	}
}

// safeHook invokes a driver hook, converting a panic into a failure. The
// real-time cycle must have bounded, predictable control flow, so nothing is
// allowed to unwind across the driver boundary.
func (hw *RobotHW) safeHook(name string, fn func() bool) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("RobotHW", nil, "%s: driver hook %s panicked: %v", hw.namespace, name, r)
			ok = false
		}
	}()
	return fn()
}

// SetStatusChangeCallback registers the callback invoked on every committed
// status transition.
func (hw *RobotHW) SetStatusChangeCallback(cb StatusChangeCallback) {
	hw.mu.Lock()
	defer hw.mu.Unlock()
	hw.statusCb = cb
}

// SetResourceNames replaces the exposed resource set. Only permitted before
// Init; afterwards the set is immutable and the call is ignored.
func (hw *RobotHW) SetResourceNames(names []string) {
	hw.mu.Lock()
	defer hw.mu.Unlock()
	if hw.initialized {
		logging.Warn("RobotHW", "%s: SetResourceNames ignored after Init", hw.namespace)
		return
	}
	hw.resourceNames = make([]string, len(names))
	copy(hw.resourceNames, names)
}

// ResourceNames returns the ordered resource identifiers this interface
// exposes.
func (hw *RobotHW) ResourceNames() []string {
	hw.mu.Lock()
	defer hw.mu.Unlock()
	names := make([]string, len(hw.resourceNames))
	copy(names, hw.resourceNames)
	return names
}

// ResourceNumber returns the number of exposed resources.
func (hw *RobotHW) ResourceNumber() int {
	hw.mu.Lock()
	defer hw.mu.Unlock()
	return len(hw.resourceNames)
}

// GetStatus returns the last committed status.
func (hw *RobotHW) GetStatus() Status {
	hw.mu.Lock()
	defer hw.mu.Unlock()
	return hw.status
}

// LastError returns the reason of the most recent Error transition, or the
// empty string.
func (hw *RobotHW) LastError() string {
	hw.mu.Lock()
	defer hw.mu.Unlock()
	return hw.lastError
}

// StatusHistory returns a copy of the status history, oldest first.
func (hw *RobotHW) StatusHistory() []StatusTransition {
	hw.mu.Lock()
	defer hw.mu.Unlock()
	history := make([]StatusTransition, len(hw.history))
	copy(history, hw.history)
	return history
}

// ActiveControllers returns a copy of the currently active controller set.
func (hw *RobotHW) ActiveControllers() []ControllerInfo {
	hw.mu.Lock()
	defer hw.mu.Unlock()
	active := make([]ControllerInfo, len(hw.activeControllers))
	copy(active, hw.activeControllers)
	return active
}

// Namespace identifies this hardware interface instance.
func (hw *RobotHW) Namespace() string {
	return hw.namespace
}

// RobotName returns the flat robot name derived from the namespace.
func (hw *RobotHW) RobotName() string {
	return hw.robotName
}

// SamplingPeriod returns the nominal control cycle period.
func (hw *RobotHW) SamplingPeriod() time.Duration {
	return hw.samplingPeriod
}
