package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"eventflow/internal/app"
	"eventflow/pkg/logging"
)

// Exit codes for the CLI: 0 on clean shutdown, non-zero on any startup
// failure.
const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// rootCmd is eventflow's entire CLI surface: a single positional argument
// naming the configuration document to run.
var rootCmd = &cobra.Command{
	Use:   "eventflow <config-file>",
	Short: "Run the eventflow event orchestrator against a configuration document",
	Long: `eventflow loads a declarative configuration document describing triggers,
actions, and their transitions, then runs the dispatcher, scheduler, and
source executors (MQTT, HTTP listener, file watcher, input devices) it
describes until interrupted.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the CLI entry point called from main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "eventflow version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "eventflow:", err)
		os.Exit(ExitCodeError)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	logging.Init(logging.LevelFromEnv(), os.Stderr)

	application, err := app.NewApplication(app.NewConfig(args[0]))
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}
