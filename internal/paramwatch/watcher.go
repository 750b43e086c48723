// Package paramwatch applies configuration file changes to a running
// hardware interface. It watches the YAML configuration with fsnotify and
// pushes changed parameters through the interface's parameter service, i.e.
// it is a non-real-time caller synchronizing with the cycle purely through
// the shared mutex behind SetParam.
package paramwatch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"robohw/internal/config"
	"robohw/internal/hardware"
	"robohw/pkg/logging"
)

// defaultDebounce coalesces the event bursts editors produce on save.
const defaultDebounce = 250 * time.Millisecond

// Watcher reloads a configuration file on change and applies its params
// section to a hardware interface.
type Watcher struct {
	path     string
	hw       *hardware.RobotHW
	debounce time.Duration

	mu      sync.Mutex
	applied map[string]string
}

// New creates a watcher for the given configuration file. A zero debounce
// selects the default.
func New(path string, hw *hardware.RobotHW, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Watcher{
		path:     path,
		hw:       hw,
		debounce: debounce,
		applied:  make(map[string]string),
	}
}

// Run watches the configuration file until the context is cancelled. The
// watch is installed on the containing directory because editors commonly
// replace the file on save.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return err
	}

	logging.Info("ParamWatch", "Watching %s for parameter changes", w.path)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn("ParamWatch", "Watch error on %s: %v", w.path, err)

		case <-timerC:
			w.Apply()
		}
	}
}

// Apply loads the configuration file and pushes every changed parameter to
// the hardware interface. Load failures are logged and skipped; the
// previous parameters stay in effect.
func (w *Watcher) Apply() {
	cfg, err := config.LoadConfig(w.path)
	if err != nil {
		logging.Warn("ParamWatch", "Ignoring unreadable config %s: %v", w.path, err)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for key, value := range cfg.Params {
		if w.applied[key] == value {
			continue
		}
		resp := w.hw.SetParam(hardware.SetParamRequest{Key: key, Value: value})
		if !resp.Success {
			logging.Warn("ParamWatch", "Failed to apply parameter %s: %s", key, resp.Message)
			continue
		}
		w.applied[key] = value
		logging.Info("ParamWatch", "Applied parameter %s=%s to %s", key, value, w.hw.Namespace())
	}
}
