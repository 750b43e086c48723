// Package fake provides a simulation driver for the hardware lifecycle core.
// It loops commanded joint positions back as measured positions, so a full
// read-compute-write cycle can run without hardware. Used by the serve
// command and as a reference for concrete driver implementations.
package fake

import (
	"strconv"
	"sync"
	"time"

	"robohw/internal/hardware"
	"robohw/pkg/logging"
)

// Driver is a loopback simulation of a joint-position robot. Measured
// positions follow commanded positions one cycle later.
type Driver struct {
	mu sync.Mutex

	joints    []string
	commanded map[string]float64
	measured  map[string]float64

	initialized   bool
	rtInitialized bool

	// failReadsAfter, when positive, makes DoRead fail once that many
	// reads have happened. Used to exercise the fail-soft cyclic error
	// path.
	failReadsAfter int
	reads          int
}

// Settings are the driver-specific options understood by New.
type Settings struct {
	// Joints names the simulated joints. Defaults to the resource names
	// the interface exposes.
	Joints []string

	// FailReadsAfter makes DoRead fail from the n-th read on. Zero
	// disables failure injection.
	FailReadsAfter int
}

// New creates a fake driver for the given joints.
func New(settings Settings) *Driver {
	return &Driver{
		joints:         settings.Joints,
		commanded:      make(map[string]float64),
		measured:       make(map[string]float64),
		failReadsAfter: settings.FailReadsAfter,
	}
}

// ParseSettings interprets the generic settings map from the configuration
// file. Unknown keys are ignored.
func ParseSettings(raw map[string]string, resourceNames []string) Settings {
	settings := Settings{Joints: resourceNames}
	if v, ok := raw["fail_reads_after"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			settings.FailReadsAfter = n
		} else {
			logging.Warn("FakeDriver", "Ignoring non-numeric fail_reads_after %q", v)
		}
	}
	return settings
}

// DoInit zeroes the simulated joint state.
func (d *Driver) DoInit() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, j := range d.joints {
		d.commanded[j] = 0
		d.measured[j] = 0
	}
	d.initialized = true
	logging.Info("FakeDriver", "Initialized with %d joints", len(d.joints))
	return true
}

// InitRT marks the real-time side ready. Implements hardware.RTInitializer.
func (d *Driver) InitRT() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rtInitialized = true
	return d.initialized
}

// DoShutdown drops the simulated state.
func (d *Driver) DoShutdown() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.initialized = false
	return true
}

// DoRead copies the last commanded positions into the measured state.
func (d *Driver) DoRead(t time.Time, period time.Duration) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.reads++
	if d.failReadsAfter > 0 && d.reads >= d.failReadsAfter {
		return false
	}

	for j, cmd := range d.commanded {
		d.measured[j] = cmd
	}
	return true
}

// DoWrite is a no-op for the loopback simulation; commands take effect at
// the next DoRead. It must stay cheap since it runs inside the shared
// mutex.
func (d *Driver) DoWrite(t time.Time, period time.Duration) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.initialized
}

// DoPrepareSwitch accepts every switch the generic checks let through.
func (d *Driver) DoPrepareSwitch(start, stop []hardware.ControllerInfo) bool {
	return true
}

// DoDoSwitch resets the command buffer of every joint claimed by a starting
// controller, so a freshly activated controller never inherits stale
// commands.
func (d *Driver) DoDoSwitch(start, stop []hardware.ControllerInfo) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range start {
		for _, r := range c.ClaimedResources {
			if _, ok := d.commanded[r]; ok {
				d.commanded[r] = 0
			}
		}
	}
	return true
}

// DoCheckForConflict reports no driver-specific conflicts; the generic
// resource-overlap check covers the loopback simulation completely.
func (d *Driver) DoCheckForConflict(controllers []hardware.ControllerInfo) bool {
	return false
}

// Command sets the commanded position of a joint. Called by the host's
// control computation between Read and Write.
func (d *Driver) Command(joint string, position float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.commanded[joint]; ok {
		d.commanded[joint] = position
	}
}

// Measured returns the measured position of a joint.
func (d *Driver) Measured(joint string) (float64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	pos, ok := d.measured[joint]
	return pos, ok
}

var (
	_ hardware.Driver        = (*Driver)(nil)
	_ hardware.RTInitializer = (*Driver)(nil)
)
