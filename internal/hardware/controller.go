package hardware

// ControllerInfo names a controller and the resources it claims from a
// hardware interface. Instances are supplied by the host's controller
// switching logic and are never created by this package.
type ControllerInfo struct {
	// Name uniquely identifies the controller within the host.
	Name string `yaml:"name"`

	// Type is an optional, host-defined controller type identifier.
	Type string `yaml:"type,omitempty"`

	// ClaimedResources lists the resource names the controller commands.
	ClaimedResources []string `yaml:"claimed_resources"`
}

// ClaimsResource reports whether the controller claims the named resource.
func (c ControllerInfo) ClaimsResource(resource string) bool {
	for _, r := range c.ClaimedResources {
		if r == resource {
			return true
		}
	}
	return false
}

// claimsWithin returns the subset of the controller's claims that fall inside
// the owned resource set.
func (c ControllerInfo) claimsWithin(owned map[string]struct{}) []string {
	var claims []string
	for _, r := range c.ClaimedResources {
		if _, ok := owned[r]; ok {
			claims = append(claims, r)
		}
	}
	return claims
}

// conflictsWith reports whether two controllers claim an overlapping resource,
// considering only resources in the owned set.
func (c ControllerInfo) conflictsWith(other ControllerInfo, owned map[string]struct{}) bool {
	for _, r := range c.claimsWithin(owned) {
		if other.ClaimsResource(r) {
			return true
		}
	}
	return false
}

// controllerNames returns the names of the given controllers, preserving order.
func controllerNames(list []ControllerInfo) []string {
	names := make([]string, 0, len(list))
	for _, c := range list {
		names = append(names, c.Name)
	}
	return names
}

// removeControllers returns active with every controller named in stop removed.
func removeControllers(active []ControllerInfo, stop []ControllerInfo) []ControllerInfo {
	stopped := make(map[string]struct{}, len(stop))
	for _, c := range stop {
		stopped[c.Name] = struct{}{}
	}

	kept := active[:0]
	for _, c := range active {
		if _, ok := stopped[c.Name]; !ok {
			kept = append(kept, c)
		}
	}
	return kept
}
