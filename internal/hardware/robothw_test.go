package hardware

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDriver records hook invocations and can be told to fail or panic in
// any hook.
type stubDriver struct {
	mu sync.Mutex

	initCalls     int
	shutdownCalls int
	readCalls     int
	writeCalls    int
	prepareCalls  int
	switchCalls   int
	conflictCalls int
	conflictSet   []string

	failInit       bool
	panicInit      bool
	failShutdown   bool
	failRead       bool
	failWrite      bool
	rejectPrepare  bool
	reportConflict bool
}

func (d *stubDriver) DoInit() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.initCalls++
	if d.panicInit {
		panic("stub init panic")
	}
	return !d.failInit
}

func (d *stubDriver) DoShutdown() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shutdownCalls++
	return !d.failShutdown
}

func (d *stubDriver) DoRead(time.Time, time.Duration) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.readCalls++
	return !d.failRead
}

func (d *stubDriver) DoWrite(time.Time, time.Duration) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writeCalls++
	return !d.failWrite
}

func (d *stubDriver) DoPrepareSwitch(start, stop []ControllerInfo) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.prepareCalls++
	return !d.rejectPrepare
}

func (d *stubDriver) DoDoSwitch(start, stop []ControllerInfo) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.switchCalls++
	return true
}

func (d *stubDriver) DoCheckForConflict(controllers []ControllerInfo) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.conflictCalls++
	d.conflictSet = controllerNames(controllers)
	return d.reportConflict
}

func (d *stubDriver) lastConflictSet() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conflictSet
}

func (d *stubDriver) calls() stubDriver {
	d.mu.Lock()
	defer d.mu.Unlock()
	return stubDriver{
		initCalls:     d.initCalls,
		shutdownCalls: d.shutdownCalls,
		readCalls:     d.readCalls,
		writeCalls:    d.writeCalls,
		prepareCalls:  d.prepareCalls,
		switchCalls:   d.switchCalls,
		conflictCalls: d.conflictCalls,
	}
}

// rtStubDriver adds the optional real-time initialization hook.
type rtStubDriver struct {
	stubDriver
	rtInitCalls int
	failInitRT  bool
}

func (d *rtStubDriver) InitRT() bool {
	d.rtInitCalls++
	return !d.failInitRT
}

func newTestHW(d Driver) *RobotHW {
	return New(d, Options{
		Namespace:      "/test/hw",
		ResourceNames:  []string{"joint1", "joint2"},
		SamplingPeriod: time.Millisecond,
	})
}

func TestExtractRobotName(t *testing.T) {
	tests := []struct {
		namespace string
		expected  string
	}{
		{"/ur10/hw", "ur10_hw"},
		{"/hw", "hw"},
		{"hw", "hw"},
		{"", ""},
		{"/a/b/c", "a_b_c"},
	}

	for _, test := range tests {
		if got := ExtractRobotName(test.namespace); got != test.expected {
			t.Errorf("ExtractRobotName(%q) = %q, expected %q", test.namespace, got, test.expected)
		}
	}
}

func TestInitSuccess(t *testing.T) {
	driver := &stubDriver{}
	hw := newTestHW(driver)

	require.True(t, hw.Init("/", "/test/hw"))

	assert.Equal(t, StatusInitialized, hw.GetStatus())
	assert.Equal(t, 1, driver.calls().initCalls)

	history := hw.StatusHistory()
	require.Len(t, history, 2)
	assert.Equal(t, StatusInitializing, history[0].Status)
	assert.Equal(t, StatusInitialized, history[1].Status)
}

func TestInitTwiceFails(t *testing.T) {
	driver := &stubDriver{}
	hw := newTestHW(driver)

	require.True(t, hw.Init("/", "/test/hw"))
	statusAfterFirst := hw.GetStatus()
	historyAfterFirst := len(hw.StatusHistory())

	assert.False(t, hw.Init("/", "/test/hw"))
	assert.Equal(t, statusAfterFirst, hw.GetStatus())
	assert.Equal(t, historyAfterFirst, len(hw.StatusHistory()))
	assert.Equal(t, 1, driver.calls().initCalls)
}

func TestInitFailure(t *testing.T) {
	driver := &stubDriver{failInit: true}
	hw := newTestHW(driver)

	require.False(t, hw.Init("/", "/test/hw"))

	assert.Equal(t, StatusError, hw.GetStatus())
	assert.Equal(t, "initialization failure", hw.LastError())
}

func TestInitPanicContained(t *testing.T) {
	driver := &stubDriver{panicInit: true}
	hw := newTestHW(driver)

	assert.NotPanics(t, func() {
		assert.False(t, hw.Init("/", "/test/hw"))
	})
	assert.Equal(t, StatusError, hw.GetStatus())
}

func TestInitRT(t *testing.T) {
	driver := &rtStubDriver{}
	hw := newTestHW(driver)

	// Before Init the real-time initialization is refused.
	assert.False(t, hw.InitRT())
	assert.Equal(t, 0, driver.rtInitCalls)

	require.True(t, hw.Init("/", "/test/hw"))
	assert.True(t, hw.InitRT())
	assert.Equal(t, 1, driver.rtInitCalls)

	// Second call is a no-op.
	assert.True(t, hw.InitRT())
	assert.Equal(t, 1, driver.rtInitCalls)
}

func TestInitRTWithoutHook(t *testing.T) {
	driver := &stubDriver{}
	hw := newTestHW(driver)

	require.True(t, hw.Init("/", "/test/hw"))
	assert.True(t, hw.InitRT())
}

func TestInitRTFailure(t *testing.T) {
	driver := &rtStubDriver{failInitRT: true}
	hw := newTestHW(driver)

	require.True(t, hw.Init("/", "/test/hw"))
	assert.False(t, hw.InitRT())
	assert.Equal(t, StatusError, hw.GetStatus())
}

func TestReadTransitionsToRunning(t *testing.T) {
	driver := &stubDriver{}
	hw := newTestHW(driver)
	require.True(t, hw.Init("/", "/test/hw"))

	hw.Read(time.Now(), time.Millisecond)

	assert.Equal(t, StatusRunning, hw.GetStatus())
	assert.Equal(t, 1, driver.calls().readCalls)
}

func TestReadFailureDoesNotHaltCycle(t *testing.T) {
	driver := &stubDriver{}
	hw := newTestHW(driver)
	require.True(t, hw.Init("/", "/test/hw"))
	hw.Read(time.Now(), time.Millisecond)

	driver.mu.Lock()
	driver.failRead = true
	driver.mu.Unlock()

	hw.Read(time.Now(), time.Millisecond)
	assert.Equal(t, StatusError, hw.GetStatus())
	assert.Equal(t, "read failure", hw.LastError())

	// The cycle keeps going: further reads still reach the driver.
	hw.Read(time.Now(), time.Millisecond)
	assert.Equal(t, 3, driver.calls().readCalls)
}

func TestWriteFailureRecorded(t *testing.T) {
	driver := &stubDriver{failWrite: true}
	hw := newTestHW(driver)
	require.True(t, hw.Init("/", "/test/hw"))

	hw.Write(time.Now(), time.Millisecond)

	assert.Equal(t, StatusError, hw.GetStatus())
	assert.Equal(t, "write failure", hw.LastError())
	assert.Equal(t, 1, driver.calls().writeCalls)
}

func TestShutdownIdempotent(t *testing.T) {
	driver := &stubDriver{}
	hw := newTestHW(driver)
	require.True(t, hw.Init("/", "/test/hw"))

	require.True(t, hw.Shutdown())
	assert.Equal(t, StatusShutdown, hw.GetStatus())
	historyAfterFirst := len(hw.StatusHistory())

	assert.True(t, hw.Shutdown())
	assert.Equal(t, 1, driver.calls().shutdownCalls)
	assert.Equal(t, historyAfterFirst, len(hw.StatusHistory()))
}

func TestShutdownHookFailureStillTerminal(t *testing.T) {
	driver := &stubDriver{failShutdown: true}
	hw := newTestHW(driver)
	require.True(t, hw.Init("/", "/test/hw"))

	assert.False(t, hw.Shutdown())
	assert.Equal(t, StatusShutdown, hw.GetStatus())

	// Still idempotent afterwards.
	assert.True(t, hw.Shutdown())
	assert.Equal(t, 1, driver.calls().shutdownCalls)
}

func TestInitAfterShutdownFails(t *testing.T) {
	driver := &stubDriver{}
	hw := newTestHW(driver)
	require.True(t, hw.Init("/", "/test/hw"))
	require.True(t, hw.Shutdown())

	assert.False(t, hw.Init("/", "/test/hw"))
	assert.Equal(t, StatusShutdown, hw.GetStatus())
}

func TestStatusChangeCallback(t *testing.T) {
	driver := &stubDriver{}
	hw := newTestHW(driver)

	var mu sync.Mutex
	var transitions []Status
	hw.SetStatusChangeCallback(func(namespace string, old, next Status, reason string) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, "/test/hw", namespace)
		transitions = append(transitions, next)
	})

	require.True(t, hw.Init("/", "/test/hw"))
	require.True(t, hw.Shutdown())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Status{StatusInitializing, StatusInitialized, StatusShuttingDown, StatusShutdown}, transitions)
}

func TestSetResourceNamesImmutableAfterInit(t *testing.T) {
	driver := &stubDriver{}
	hw := newTestHW(driver)

	hw.SetResourceNames([]string{"joint1"})
	assert.Equal(t, []string{"joint1"}, hw.ResourceNames())
	assert.Equal(t, 1, hw.ResourceNumber())

	require.True(t, hw.Init("/", "/test/hw"))

	hw.SetResourceNames([]string{"other"})
	assert.Equal(t, []string{"joint1"}, hw.ResourceNames())
}

func TestIntrospection(t *testing.T) {
	hw := newTestHW(&stubDriver{})

	assert.Equal(t, "/test/hw", hw.Namespace())
	assert.Equal(t, "test_hw", hw.RobotName())
	assert.Equal(t, time.Millisecond, hw.SamplingPeriod())
	assert.Equal(t, 2, hw.ResourceNumber())
}
