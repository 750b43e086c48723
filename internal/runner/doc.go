// Package runner hosts the real-time loop of a hardware interface. It owns
// the goroutine that acts as the real-time thread: one-time initialization,
// the cyclic read-compute-write sequence at a fixed sampling period,
// controller switch requests applied at cycle boundaries, and graceful
// shutdown when the context is cancelled.
//
// The runner is the only component that calls the interface's lifecycle
// entry points; everything outside it talks to the interface through the
// parameter service or through the runner's request and event channels.
package runner
