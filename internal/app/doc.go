// Package app bootstraps the hosting process. It follows a two-phase
// pattern: NewApplication loads configuration and constructs every hardware
// interface with its driver, real-time runner and parameter watcher; Run
// supervises them until a shutdown signal arrives and the loops have shut
// their interfaces down.
package app
