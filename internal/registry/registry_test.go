package registry

import (
	"testing"

	"robohw/internal/hardware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHW(namespace string) *hardware.RobotHW {
	return hardware.New(hardware.NopDriver{}, hardware.Options{
		Namespace:     namespace,
		ResourceNames: []string{"joint1"},
	})
}

func TestRegisterAndGet(t *testing.T) {
	r := New()

	hw := newHW("/a/hw")
	require.NoError(t, r.Register(hw))

	got, exists := r.Get("/a/hw")
	require.True(t, exists)
	assert.Same(t, hw, got)
}

func TestRegisterNil(t *testing.T) {
	r := New()
	assert.Error(t, r.Register(nil))
}

func TestRegisterEmptyNamespace(t *testing.T) {
	r := New()
	assert.Error(t, r.Register(newHW("")))
}

func TestRegisterDuplicate(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(newHW("/a/hw")))
	assert.Error(t, r.Register(newHW("/a/hw")))
}

func TestUnregister(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(newHW("/a/hw")))

	require.NoError(t, r.Unregister("/a/hw"))
	_, exists := r.Get("/a/hw")
	assert.False(t, exists)

	assert.Error(t, r.Unregister("/a/hw"))
}

func TestNamespacesSorted(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(newHW("/b/hw")))
	require.NoError(t, r.Register(newHW("/a/hw")))
	require.NoError(t, r.Register(newHW("/c/hw")))

	assert.Equal(t, []string{"/a/hw", "/b/hw", "/c/hw"}, r.Namespaces())
	assert.Len(t, r.GetAll(), 3)
}
