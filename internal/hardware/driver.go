package hardware

import "time"

// Driver is the hook contract a concrete hardware or simulation
// implementation must satisfy. The lifecycle core calls each hook exactly
// once per corresponding lifecycle operation; the fixed envelope around the
// hooks (status updates, history, locking) cannot be bypassed by a driver.
//
// Hooks report failure by returning false. They must never block
// indefinitely: a blocked hook blocks the whole cycle, which the core treats
// as a fatal driver defect rather than something it guards against.
type Driver interface {
	// DoInit performs hardware-specific setup. Called once, from Init,
	// before the real-time thread exists.
	DoInit() bool

	// DoShutdown releases hardware resources. Called at most once, from the
	// first Shutdown.
	DoShutdown() bool

	// DoRead acquires the current hardware state. Called once per cycle,
	// before control computation.
	DoRead(t time.Time, period time.Duration) bool

	// DoWrite flushes commands to the hardware. Called once per cycle while
	// the shared mutex is held; it must complete in bounded time.
	DoWrite(t time.Time, period time.Duration) bool

	// DoPrepareSwitch validates driver-specific admissibility of a proposed
	// controller switch. Must not mutate driver state.
	DoPrepareSwitch(start, stop []ControllerInfo) bool

	// DoDoSwitch performs driver-specific activation and deactivation
	// actions, e.g. resetting command buffers, after the active controller
	// set has been updated.
	DoDoSwitch(start, stop []ControllerInfo) bool

	// DoCheckForConflict reports driver-specific conflicts among the given
	// controllers. It is consulted only when the generic resource-overlap
	// check found no conflict.
	DoCheckForConflict(controllers []ControllerInfo) bool
}

// RTInitializer is an optional interface for drivers that need setup as
// close as possible to the first cycle. InitRT is invoked once, on the
// real-time thread, after Init succeeded and before the first DoRead.
type RTInitializer interface {
	InitRT() bool
}

// NopDriver is a Driver implementation whose hooks all succeed and report no
// conflicts. Concrete drivers can embed it to implement only the hooks they
// care about.
type NopDriver struct{}

func (NopDriver) DoInit() bool     { return true }
func (NopDriver) DoShutdown() bool { return true }

func (NopDriver) DoRead(time.Time, time.Duration) bool  { return true }
func (NopDriver) DoWrite(time.Time, time.Duration) bool { return true }

func (NopDriver) DoPrepareSwitch(start, stop []ControllerInfo) bool { return true }
func (NopDriver) DoDoSwitch(start, stop []ControllerInfo) bool      { return true }
func (NopDriver) DoCheckForConflict(controllers []ControllerInfo) bool {
	return false
}

var _ Driver = NopDriver{}
