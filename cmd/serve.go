package cmd

import (
	"context"
	"fmt"

	"robohw/internal/app"

	"github.com/spf13/cobra"
)

// serveConfigs lists the hardware configuration files to host.
// Each file describes one hardware interface (namespace, sampling period,
// resources, driver) and is hosted as an independent control loop.
var serveConfigs []string

// serveDebug enables verbose logging across the application.
// This helps troubleshoot driver behavior and controller switch decisions.
var serveDebug bool

// serveCmd defines the serve command structure.
// This is the main command of robohw: it loads the given hardware
// configurations and runs one control loop per hardware interface until
// the process is terminated.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the configured hardware interfaces.",
	Long: `Loads the given hardware configuration files and hosts one control loop
per hardware interface. Each loop initializes its driver, then cycles
read-compute-write at the configured sampling period until the process
receives SIGINT or SIGTERM, at which point all interfaces are shut down
in an orderly fashion.

Configuration files are watched for changes: edits to the params section
are applied to the running interface without a restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// runServe is the main entry point for the serve command
func runServe(cmd *cobra.Command, args []string) error {
	cfg := &app.Config{
		ConfigPaths: serveConfigs,
		Debug:       serveDebug,
	}

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

// init registers the serve command and its flags with the root command.
// This is called automatically when the package is imported.
func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringSliceVar(&serveConfigs, "config", nil, "Hardware configuration file (repeatable)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable general debug logging")
	serveCmd.MarkFlagRequired("config")
}
