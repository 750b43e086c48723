package hardware

import (
	"gopkg.in/yaml.v3"

	"robohw/pkg/logging"
)

// historyDumpTail limits how much history a single diagnostic dump carries.
const historyDumpTail = 16

// stateDump is the YAML shape of a diagnostic state dump.
type stateDump struct {
	Namespace   string             `yaml:"namespace"`
	RobotName   string             `yaml:"robot_name"`
	Status      string             `yaml:"status"`
	LastError   string             `yaml:"last_error,omitempty"`
	Resources   []string           `yaml:"resources"`
	Controllers []ControllerInfo   `yaml:"active_controllers"`
	Params      map[string]string  `yaml:"params,omitempty"`
	History     []StatusTransition `yaml:"history"`
}

// DumpState serializes the current status plus surrounding context for
// diagnostic consumption. Diagnostics is best-effort: a failure here is
// logged and swallowed, it never aborts the lifecycle operation that
// triggered the dump.
func (hw *RobotHW) DumpState() bool {
	return hw.DumpStatus(hw.GetStatus())
}

// DumpStatus is DumpState for an explicitly given status value.
func (hw *RobotHW) DumpStatus(status Status) bool {
	out, err := hw.renderState(status)
	if err != nil {
		logging.Warn("RobotHW", "%s: state dump failed: %v", hw.namespace, err)
		return false
	}
	logging.Debug("RobotHW", "%s: state dump\n%s", hw.namespace, out)
	return true
}

// renderState builds the YAML document for a dump. The guarded state is
// snapshotted through the copying accessors so the lock is never held across
// the marshal.
func (hw *RobotHW) renderState(status Status) (string, error) {
	history := hw.StatusHistory()
	if len(history) > historyDumpTail {
		history = history[len(history)-historyDumpTail:]
	}

	dump := stateDump{
		Namespace:   hw.namespace,
		RobotName:   hw.robotName,
		Status:      status.String(),
		LastError:   hw.LastError(),
		Resources:   hw.ResourceNames(),
		Controllers: hw.ActiveControllers(),
		Params:      hw.Params(),
		History:     history,
	}

	data, err := yaml.Marshal(&dump)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
