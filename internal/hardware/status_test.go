package hardware

import (
	"testing"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{StatusUninitialized, "Uninitialized"},
		{StatusInitializing, "Initializing"},
		{StatusInitialized, "Initialized"},
		{StatusRunning, "Running"},
		{StatusError, "Error"},
		{StatusShuttingDown, "ShuttingDown"},
		{StatusShutdown, "Shutdown"},
		{Status(999), "Unknown"},
	}

	for _, test := range tests {
		if got := test.status.String(); got != test.expected {
			t.Errorf("Status(%d).String() = %s, expected %s", test.status, got, test.expected)
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	if StatusRunning.Terminal() {
		t.Error("Running must not be terminal")
	}
	if StatusError.Terminal() {
		t.Error("Error must not be terminal")
	}
	if !StatusShutdown.Terminal() {
		t.Error("Shutdown must be terminal")
	}
}

func TestNewTransition(t *testing.T) {
	entry := newTransition(StatusRunning, "cycle started")

	if entry.ID == "" {
		t.Error("Expected non-empty transition ID")
	}
	if entry.Status != StatusRunning {
		t.Errorf("Status = %v, expected %v", entry.Status, StatusRunning)
	}
	if entry.Name != "Running" {
		t.Errorf("Name = %q, expected %q", entry.Name, "Running")
	}
	if entry.Reason != "cycle started" {
		t.Errorf("Reason = %q, expected %q", entry.Reason, "cycle started")
	}
	if entry.Time.IsZero() {
		t.Error("Expected non-zero transition time")
	}
}

func TestAppendHistoryCapped(t *testing.T) {
	var history []StatusTransition

	for i := 0; i < 10; i++ {
		status := StatusRunning
		if i%2 == 0 {
			status = StatusError
		}
		history = appendHistory(history, newTransition(status, ""), 4)
	}

	if len(history) != 4 {
		t.Fatalf("History length = %d, expected 4", len(history))
	}

	// The newest entries survive.
	last := history[len(history)-1]
	if last.Status != StatusRunning {
		t.Errorf("Last entry status = %v, expected %v", last.Status, StatusRunning)
	}
}

func TestAppendHistoryZeroLimitUsesDefault(t *testing.T) {
	var history []StatusTransition
	for i := 0; i < DefaultHistoryLimit+10; i++ {
		history = appendHistory(history, newTransition(StatusRunning, ""), 0)
	}

	if len(history) != DefaultHistoryLimit {
		t.Errorf("History length = %d, expected %d", len(history), DefaultHistoryLimit)
	}
}
