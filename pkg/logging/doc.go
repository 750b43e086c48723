// Package logging provides the structured logging system for robohw.
//
// It is a thin layer on top of Go's standard slog package. Every log entry
// carries a subsystem identifier so that lifecycle, switch, parameter and
// runner activity can be filtered independently.
//
// The real-time cycle does not log from inside a mutex-guarded critical
// section; callers in the hot path log before acquiring or after releasing
// the shared lock. The one exception is a recovered driver hook panic,
// which is logged where it is caught: at that point the cycle is already
// broken and diagnosability outweighs the lock hold time.
package logging
