// Package hardware implements the lifecycle and concurrency core of a robot
// hardware interface. It sits between a periodic control loop, driven by an
// external scheduler at a fixed sampling period, and a concrete hardware or
// simulation driver.
//
// # Lifecycle
//
// Every lifecycle operation follows a fixed enter/do/exit envelope: the
// envelope validates preconditions, updates the status and its append-only
// history, and contains driver failures; the domain behavior itself lives in
// the Driver hooks (DoInit, DoRead, DoWrite, ...). The envelope is plain,
// non-polymorphic code on RobotHW, so a driver cannot bypass its invariants.
//
//	hw := hardware.New(driver, hardware.Options{...})
//	hw.Init(rootScope, hwScope)     // once, before the real-time thread
//	hw.InitRT()                     // once, on the real-time thread
//	for each cycle {
//	    hw.Read(t, period)
//	    // scheduler computes commands
//	    hw.Write(t, period)
//	}
//	hw.Shutdown()
//
// # Controller switching
//
// CheckForConflict, PrepareSwitch and DoSwitch implement safe online
// controller switching. PrepareSwitch is pure validation; DoSwitch is the
// only mutator of the active controller set and runs under the shared mutex.
//
// # Concurrency
//
// One mutex guards the triple {active controllers, status, configuration
// store}. The real-time write path holds it for the shortest possible
// critical section to bound jitter; SetParam/GetParam, called from
// non-real-time threads, hold it for their whole (short) body. No operation
// in this package spawns goroutines or performs asynchronous I/O.
package hardware
