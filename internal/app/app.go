package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"robohw/internal/config"
	"robohw/internal/driver/fake"
	"robohw/internal/hardware"
	"robohw/internal/paramwatch"
	"robohw/internal/registry"
	"robohw/internal/runner"
	"robohw/pkg/logging"
)

// Config holds the bootstrap options of the hosting process.
type Config struct {
	// ConfigPaths lists one hardware configuration file per interface to
	// host.
	ConfigPaths []string

	// Debug raises the log level to debug regardless of the configured
	// level.
	Debug bool
}

// instance bundles everything belonging to one hosted hardware interface.
type instance struct {
	hw      *hardware.RobotHW
	runner  *runner.Runner
	watcher *paramwatch.Watcher
}

// Application bootstraps and runs one or more hardware interfaces: for each
// configuration file it builds the driver, the lifecycle core, a real-time
// runner and a parameter watcher, and supervises them until a shutdown
// signal arrives.
type Application struct {
	config    *Config
	registry  *registry.Registry
	instances []*instance
}

// NewApplication performs the bootstrap phase: logging, configuration
// loading and construction of every hosted interface. It fails fast on any
// invalid configuration.
func NewApplication(cfg *Config) (*Application, error) {
	if len(cfg.ConfigPaths) == 0 {
		return nil, fmt.Errorf("at least one configuration file is required")
	}

	app := &Application{
		config:   cfg,
		registry: registry.New(),
	}

	level := logging.LevelInfo
	if cfg.Debug {
		level = logging.LevelDebug
	}
	logging.Init(level, os.Stderr)
	for _, path := range cfg.ConfigPaths {
		hwCfg, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		if err := hwCfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration %s: %w", path, err)
		}

		if parsed := logging.ParseLevel(hwCfg.LogLevel); !cfg.Debug && parsed < level {
			level = parsed
			logging.Init(level, os.Stderr)
		}

		inst, err := buildInstance(path, hwCfg)
		if err != nil {
			return nil, err
		}

		if err := app.registry.Register(inst.hw); err != nil {
			return nil, err
		}
		app.instances = append(app.instances, inst)
	}

	return app, nil
}

// buildInstance constructs the driver, the lifecycle core and its
// supervisors for one configuration.
func buildInstance(path string, cfg config.HardwareConfig) (*instance, error) {
	driver, err := buildDriver(cfg)
	if err != nil {
		return nil, fmt.Errorf("configuration %s: %w", path, err)
	}

	hw := hardware.New(driver, hardware.Options{
		Namespace:      cfg.Namespace,
		ResourceNames:  cfg.ResourceNames,
		SamplingPeriod: cfg.SamplingPeriod.Std(),
		HistoryLimit:   cfg.HistoryLimit,
	})

	// Seed the configuration store before the first cycle.
	for key, value := range cfg.Params {
		if resp := hw.SetParam(hardware.SetParamRequest{Key: key, Value: value}); !resp.Success {
			return nil, fmt.Errorf("configuration %s: seeding parameter %s: %s", path, key, resp.Message)
		}
	}

	return &instance{
		hw:      hw,
		runner:  runner.New(runner.Config{HW: hw, RootScope: "/"}),
		watcher: paramwatch.New(path, hw, 0),
	}, nil
}

// buildDriver selects the concrete driver implementation.
func buildDriver(cfg config.HardwareConfig) (hardware.Driver, error) {
	switch cfg.Driver.Type {
	case "fake":
		return fake.New(fake.ParseSettings(cfg.Driver.Settings, cfg.ResourceNames)), nil
	default:
		return nil, fmt.Errorf("unknown driver type %q", cfg.Driver.Type)
	}
}

// Run starts every hosted interface and blocks until a SIGINT/SIGTERM or
// until any real-time loop fails. Shutdown is graceful: the loops observe
// the cancellation between cycles and shut their interfaces down.
func (a *Application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)

	for _, inst := range a.instances {
		inst := inst
		group.Go(func() error {
			return inst.runner.Run(ctx)
		})
		group.Go(func() error {
			return inst.watcher.Run(ctx)
		})
	}

	group.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logging.Info("App", "Received %s, shutting down", sig)
			cancel()
		case <-ctx.Done():
		}
		return nil
	})

	logging.Info("App", "Hosting %d hardware interface(s): %v", len(a.instances), a.registry.Namespaces())

	err := group.Wait()

	for _, namespace := range a.registry.Namespaces() {
		if hw, ok := a.registry.Get(namespace); ok {
			logging.Info("App", "%s: final status %s", namespace, hw.GetStatus())
		}
	}
	return err
}

// Registry exposes the hosted interfaces, e.g. for tests.
func (a *Application) Registry() *registry.Registry {
	return a.registry
}
