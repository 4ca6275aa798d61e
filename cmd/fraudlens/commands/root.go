// Package commands provides the CLI commands for FraudLens.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fraudlens-ai/fraudlens/internal/config"
	"github.com/fraudlens-ai/fraudlens/internal/httpclient"
	"github.com/fraudlens-ai/fraudlens/internal/logging"
	"github.com/fraudlens-ai/fraudlens/internal/provider"
	"github.com/fraudlens-ai/fraudlens/internal/resilience"
	"github.com/fraudlens-ai/fraudlens/pkg/types"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	logLevel   string
	prettyLogs bool
)

var rootCmd = &cobra.Command{
	Use:   "fraudlens",
	Short: "FraudLens - fraud-alert triage assistant",
	Long: `FraudLens triages bank fraud alerts. It weighs alert evidence with
LLM providers and serves verdicts over an HTTP API.

Run 'fraudlens serve' to start the API server, or 'fraudlens validate'
to check provider connectivity and credentials.`,
	Version: Version,
	// If no subcommand, show help
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG|INFO|WARN|ERROR), defaults to configuration")
	rootCmd.PersistentFlags().BoolVar(&prettyLogs, "pretty-logs", false, "Human-readable console logs")

	// Version template
	rootCmd.SetVersionTemplate(fmt.Sprintf("fraudlens %s (%s)\n", Version, BuildTime))

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(modelsCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetWorkDir returns the working directory from flag or current directory.
func GetWorkDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return os.Getwd()
}

// setupRuntime loads configuration from the given directory and installs
// the global logger. Command-line flags win over file and environment
// settings.
func setupRuntime(dir string) (*types.Config, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if prettyLogs {
		cfg.Log.Pretty = true
	}

	logging.Init(logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Output: os.Stderr,
		Pretty: cfg.Log.Pretty,
	})

	return cfg, nil
}

// buildRegistry assembles the provider registry with its resilience and
// HTTP plumbing, for commands that call providers but run no server.
func buildRegistry(ctx context.Context, cfg *types.Config) (*provider.Registry, error) {
	factory := httpclient.NewFactory(cfg.HTTP)
	invoker := resilience.NewInvoker(cfg.Resilience)
	return provider.InitializeProviders(ctx, cfg, invoker, factory)
}
