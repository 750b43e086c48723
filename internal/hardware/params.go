package hardware

import (
	"fmt"

	"robohw/pkg/logging"
)

// SetStatusParamFcn receives a human-readable status description after every
// successful parameter set. It is invoked outside the shared mutex, so it
// may perform work of its own without stretching the critical section.
type SetStatusParamFcn func(status string)

// SetParamRequest asks to set a named configuration value.
type SetParamRequest struct {
	Key   string
	Value string
}

// SetParamResponse reports the outcome of a SetParam call.
type SetParamResponse struct {
	Success bool
	Message string
}

// GetParamRequest asks for a named configuration value.
type GetParamRequest struct {
	Key string
}

// GetParamResponse carries the value of a configuration entry, or a message
// explaining why it could not be read.
type GetParamResponse struct {
	Success bool
	Value   string
	Message string
}

// SetParam is the configuration service endpoint for non-real-time callers.
// It validates and applies the requested value under the same mutex the
// real-time write path acquires, so a set issued mid-cycle blocks until the
// cycle's critical section ends and then applies atomically. The body holds
// the lock only for the map update; no I/O happens inside the locked
// section.
func (hw *RobotHW) SetParam(req SetParamRequest) SetParamResponse {
	if req.Key == "" {
		return SetParamResponse{Success: false, Message: "parameter key must not be empty"}
	}

	hw.mu.Lock()
	if hw.shutdownDone {
		hw.mu.Unlock()
		return SetParamResponse{Success: false, Message: "hardware interface is shut down"}
	}
	old, existed := hw.params[req.Key]
	hw.params[req.Key] = req.Value
	cb := hw.setStatusParam
	status := hw.status
	hw.mu.Unlock()

	if existed && old != req.Value {
		logging.Debug("RobotHW", "%s: parameter %s changed %q -> %q", hw.namespace, req.Key, old, req.Value)
	} else if !existed {
		logging.Debug("RobotHW", "%s: parameter %s set to %q", hw.namespace, req.Key, req.Value)
	}

	if cb != nil {
		cb(fmt.Sprintf("%s: %s=%s (status %s)", hw.namespace, req.Key, req.Value, status))
	}

	return SetParamResponse{Success: true, Message: fmt.Sprintf("parameter %s updated", req.Key)}
}

// GetParam returns the current value of a configuration entry without side
// effects. Like SetParam it synchronizes with the cycle through the shared
// mutex.
func (hw *RobotHW) GetParam(req GetParamRequest) GetParamResponse {
	if req.Key == "" {
		return GetParamResponse{Success: false, Message: "parameter key must not be empty"}
	}

	hw.mu.Lock()
	value, ok := hw.params[req.Key]
	hw.mu.Unlock()

	if !ok {
		return GetParamResponse{Success: false, Message: fmt.Sprintf("parameter %s not found", req.Key)}
	}
	return GetParamResponse{Success: true, Value: value}
}

// Params returns a copy of the whole configuration store. Used by
// diagnostics and the CLI, never by the cycle.
func (hw *RobotHW) Params() map[string]string {
	hw.mu.Lock()
	defer hw.mu.Unlock()
	params := make(map[string]string, len(hw.params))
	for k, v := range hw.params {
		params[k] = v
	}
	return params
}
