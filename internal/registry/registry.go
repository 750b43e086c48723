// Package registry holds the hardware interfaces of a hosting process,
// keyed by namespace.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"robohw/internal/hardware"
)

// Registry is a thread-safe collection of hardware interfaces. It is
// consulted by the non-real-time side (CLI, diagnostics) and never by the
// cycle itself.
type Registry struct {
	mu         sync.RWMutex
	interfaces map[string]*hardware.RobotHW
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		interfaces: make(map[string]*hardware.RobotHW),
	}
}

// Register adds a hardware interface to the registry.
func (r *Registry) Register(hw *hardware.RobotHW) error {
	if hw == nil {
		return fmt.Errorf("cannot register nil hardware interface")
	}

	namespace := hw.Namespace()
	if namespace == "" {
		return fmt.Errorf("hardware interface has empty namespace")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.interfaces[namespace]; exists {
		return fmt.Errorf("hardware interface %s already registered", namespace)
	}

	r.interfaces[namespace] = hw
	return nil
}

// Unregister removes a hardware interface from the registry.
func (r *Registry) Unregister(namespace string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.interfaces[namespace]; !exists {
		return fmt.Errorf("hardware interface %s not found", namespace)
	}

	delete(r.interfaces, namespace)
	return nil
}

// Get returns a hardware interface by namespace.
func (r *Registry) Get(namespace string) (*hardware.RobotHW, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hw, exists := r.interfaces[namespace]
	return hw, exists
}

// GetAll returns all registered hardware interfaces.
func (r *Registry) GetAll() []*hardware.RobotHW {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*hardware.RobotHW, 0, len(r.interfaces))
	for _, hw := range r.interfaces {
		all = append(all, hw)
	}
	return all
}

// Namespaces returns the registered namespaces in sorted order.
func (r *Registry) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.interfaces))
	for namespace := range r.interfaces {
		names = append(names, namespace)
	}
	sort.Strings(names)
	return names
}
