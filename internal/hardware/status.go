package hardware

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the operational status of a hardware interface.
type Status int

const (
	StatusUninitialized Status = iota
	StatusInitializing
	StatusInitialized
	StatusRunning
	StatusError
	StatusShuttingDown
	StatusShutdown
)

// String makes Status satisfy the fmt.Stringer interface.
func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "Uninitialized"
	case StatusInitializing:
		return "Initializing"
	case StatusInitialized:
		return "Initialized"
	case StatusRunning:
		return "Running"
	case StatusError:
		return "Error"
	case StatusShuttingDown:
		return "ShuttingDown"
	case StatusShutdown:
		return "Shutdown"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the status is a terminal state. No lifecycle
// operation other than introspection is valid once a terminal state is
// reached.
func (s Status) Terminal() bool {
	return s == StatusShutdown
}

// StatusTransition is a single entry of the status history. Entries are
// append-only snapshots taken at every committed status change.
type StatusTransition struct {
	ID     string        `yaml:"id"`
	Status Status        `yaml:"-"`
	Name   string        `yaml:"status"`
	Reason string        `yaml:"reason,omitempty"`
	Time   time.Time     `yaml:"time"`
	Since  time.Duration `yaml:"-"`
}

// DefaultHistoryLimit caps the status history so a long-running process does
// not grow without bound. The oldest entries are discarded first; entries are
// never rewritten.
const DefaultHistoryLimit = 256

// newTransition builds a history entry for the given status change.
func newTransition(status Status, reason string) StatusTransition {
	return StatusTransition{
		ID:     uuid.NewString(),
		Status: status,
		Name:   status.String(),
		Reason: reason,
		Time:   time.Now(),
	}
}

// appendHistory appends a transition, dropping the oldest entry when the
// limit is exceeded. Caller must hold the interface mutex.
func appendHistory(history []StatusTransition, entry StatusTransition, limit int) []StatusTransition {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	history = append(history, entry)
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history
}
