package fake

import (
	"testing"
	"time"

	"robohw/internal/hardware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopback(t *testing.T) {
	d := New(Settings{Joints: []string{"joint1", "joint2"}})
	require.True(t, d.DoInit())

	d.Command("joint1", 0.5)
	require.True(t, d.DoRead(time.Now(), time.Millisecond))

	pos, ok := d.Measured("joint1")
	require.True(t, ok)
	assert.Equal(t, 0.5, pos)

	pos, ok = d.Measured("joint2")
	require.True(t, ok)
	assert.Equal(t, 0.0, pos)
}

func TestCommandUnknownJointIgnored(t *testing.T) {
	d := New(Settings{Joints: []string{"joint1"}})
	require.True(t, d.DoInit())

	d.Command("elbow", 1.0)
	require.True(t, d.DoRead(time.Now(), time.Millisecond))

	_, ok := d.Measured("elbow")
	assert.False(t, ok)
}

func TestFailReadsAfter(t *testing.T) {
	d := New(Settings{Joints: []string{"joint1"}, FailReadsAfter: 3})
	require.True(t, d.DoInit())

	assert.True(t, d.DoRead(time.Now(), time.Millisecond))
	assert.True(t, d.DoRead(time.Now(), time.Millisecond))
	assert.False(t, d.DoRead(time.Now(), time.Millisecond))
	assert.False(t, d.DoRead(time.Now(), time.Millisecond))
}

func TestSwitchResetsCommandBuffer(t *testing.T) {
	d := New(Settings{Joints: []string{"joint1"}})
	require.True(t, d.DoInit())

	d.Command("joint1", 0.7)
	require.True(t, d.DoDoSwitch([]hardware.ControllerInfo{
		{Name: "c1", ClaimedResources: []string{"joint1"}},
	}, nil))

	require.True(t, d.DoRead(time.Now(), time.Millisecond))
	pos, _ := d.Measured("joint1")
	assert.Equal(t, 0.0, pos)
}

func TestParseSettings(t *testing.T) {
	settings := ParseSettings(map[string]string{"fail_reads_after": "5"}, []string{"j1"})
	assert.Equal(t, 5, settings.FailReadsAfter)
	assert.Equal(t, []string{"j1"}, settings.Joints)

	settings = ParseSettings(map[string]string{"fail_reads_after": "many"}, []string{"j1"})
	assert.Equal(t, 0, settings.FailReadsAfter)
}

func TestFullLifecycleAgainstCore(t *testing.T) {
	d := New(Settings{Joints: []string{"joint1"}})
	hw := hardware.New(d, hardware.Options{
		Namespace:     "/fake/hw",
		ResourceNames: []string{"joint1"},
	})

	require.True(t, hw.Init("/", "/fake/hw"))
	require.True(t, hw.InitRT())

	hw.Read(time.Now(), time.Millisecond)
	d.Command("joint1", 0.25)
	hw.Write(time.Now(), time.Millisecond)
	hw.Read(time.Now(), time.Millisecond)

	pos, ok := d.Measured("joint1")
	require.True(t, ok)
	assert.Equal(t, 0.25, pos)
	assert.Equal(t, hardware.StatusRunning, hw.GetStatus())

	require.True(t, hw.Shutdown())
}
