package hardware

import (
	"robohw/pkg/logging"
)

// CheckForConflict reports whether activating the candidate controllers
// alongside the currently active ones would make two controllers claim the
// same resource of this interface.
//
// The generic pairwise resource-overlap check runs first and takes
// precedence: when it already finds a conflict the driver hook is not
// consulted, and when this interface exposes no resources at all the result
// is false regardless of the hook. Only a clean generic pass delegates the
// remaining, driver-specific conflict logic to DoCheckForConflict.
func (hw *RobotHW) CheckForConflict(candidates []ControllerInfo) bool {
	// enterCheckForConflict: snapshot the guarded state.
	hw.mu.Lock()
	owned := hw.ownedResourcesLocked()
	combined := make([]ControllerInfo, 0, len(hw.activeControllers)+len(candidates))
	combined = append(combined, hw.activeControllers...)
	combined = append(combined, candidates...)
	hw.mu.Unlock()

	if len(owned) == 0 {
		return false
	}

	for i := 0; i < len(combined); i++ {
		for j := i + 1; j < len(combined); j++ {
			if combined[i].Name == combined[j].Name {
				continue
			}
			if combined[i].conflictsWith(combined[j], owned) {
				logging.Warn("RobotHW", "%s: controllers %s and %s claim overlapping resources",
					hw.namespace, combined[i].Name, combined[j].Name)
				return true
			}
		}
	}

	return hw.safeHook("DoCheckForConflict", func() bool {
		return hw.driver.DoCheckForConflict(combined)
	})
}

// CheckForSwitchConflict is CheckForConflict for a full switch request: it
// evaluates the controller set that would be active after the switch, with
// the stop controllers removed and the start controllers added. A candidate
// that claims the resources of a controller being stopped in the same
// request is therefore not a conflict.
func (hw *RobotHW) CheckForSwitchConflict(start, stop []ControllerInfo) bool {
	// enterCheckForSwitchConflict: snapshot the guarded state.
	hw.mu.Lock()
	owned := hw.ownedResourcesLocked()
	active := make([]ControllerInfo, len(hw.activeControllers))
	copy(active, hw.activeControllers)
	hw.mu.Unlock()

	if len(owned) == 0 {
		return false
	}

	prospective := removeControllers(active, stop)
	prospective = append(prospective, start...)

	for i := 0; i < len(prospective); i++ {
		for j := i + 1; j < len(prospective); j++ {
			if prospective[i].Name == prospective[j].Name {
				continue
			}
			if prospective[i].conflictsWith(prospective[j], owned) {
				logging.Warn("RobotHW", "%s: controllers %s and %s claim overlapping resources",
					hw.namespace, prospective[i].Name, prospective[j].Name)
				return true
			}
		}
	}

	return hw.safeHook("DoCheckForConflict", func() bool {
		return hw.driver.DoCheckForConflict(prospective)
	})
}

// PrepareSwitch validates a proposed controller switch without mutating any
// state. It rejects the switch when a controller references a resource this
// interface does not own, when the prospective active set after the switch
// would contain two controllers claiming the same resource, or when the
// DoPrepareSwitch hook refuses. Rejection leaves no partial side effects.
func (hw *RobotHW) PrepareSwitch(start, stop []ControllerInfo) bool {
	// enterPrepareSwitch: generic admissibility checks on a snapshot.
	hw.mu.Lock()
	owned := hw.ownedResourcesLocked()
	active := make([]ControllerInfo, len(hw.activeControllers))
	copy(active, hw.activeControllers)
	hw.mu.Unlock()

	for _, list := range [][]ControllerInfo{start, stop} {
		for _, c := range list {
			for _, r := range c.ClaimedResources {
				if _, ok := owned[r]; !ok {
					logging.Warn("RobotHW", "%s: controller %s claims unknown resource %s",
						hw.namespace, c.Name, r)
					return false
				}
			}
		}
	}

	prospective := removeControllers(active, stop)
	prospective = append(prospective, start...)
	for i := 0; i < len(prospective); i++ {
		for j := i + 1; j < len(prospective); j++ {
			if prospective[i].conflictsWith(prospective[j], owned) {
				logging.Warn("RobotHW", "%s: controllers %s and %s would claim overlapping resources",
					hw.namespace, prospective[i].Name, prospective[j].Name)
				return false
			}
		}
	}

	ok := hw.safeHook("DoPrepareSwitch", func() bool {
		return hw.driver.DoPrepareSwitch(start, stop)
	})

	// exitPrepareSwitch
	if !ok {
		logging.Warn("RobotHW", "%s: driver rejected switch (start: %v, stop: %v)",
			hw.namespace, controllerNames(start), controllerNames(stop))
	}
	return ok
}

// DoSwitch commits a controller switch: controllers in stop are removed from
// the active set, controllers in start are added, and the DoDoSwitch hook
// performs the driver-specific activation actions. This is the only
// operation that mutates the active controller set, and it does so under the
// shared mutex, so a concurrent Write observes either the pre-switch or the
// post-switch set, never an intermediate one.
//
// DoSwitch must only be called after a PrepareSwitch with the identical
// lists returned true; violating that ordering is a caller bug this core
// does not detect.
func (hw *RobotHW) DoSwitch(start, stop []ControllerInfo) {
	// enterDoSwitch
	hw.mu.Lock()
	hw.activeControllers = removeControllers(hw.activeControllers, stop)
	hw.activeControllers = append(hw.activeControllers, start...)

	ok := hw.safeHook("DoDoSwitch", func() bool {
		return hw.driver.DoDoSwitch(start, stop)
	})
	active := controllerNames(hw.activeControllers)
	hw.mu.Unlock()

	// exitDoSwitch
	if !ok {
		logging.Warn("RobotHW", "%s: driver switch hook failed (start: %v, stop: %v)",
			hw.namespace, controllerNames(start), controllerNames(stop))
	}
	logging.Debug("RobotHW", "%s: active controllers now %v", hw.namespace, active)
}

// ownedResourcesLocked builds the owned resource lookup set. Caller must
// hold hw.mu.
func (hw *RobotHW) ownedResourcesLocked() map[string]struct{} {
	owned := make(map[string]struct{}, len(hw.resourceNames))
	for _, r := range hw.resourceNames {
		owned[r] = struct{}{}
	}
	return owned
}
