package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fraudlens-ai/fraudlens/internal/bankdata"
	"github.com/fraudlens-ai/fraudlens/internal/config"
	"github.com/fraudlens-ai/fraudlens/internal/event"
	"github.com/fraudlens-ai/fraudlens/internal/httpclient"
	"github.com/fraudlens-ai/fraudlens/internal/logging"
	"github.com/fraudlens-ai/fraudlens/internal/profile"
	"github.com/fraudlens-ai/fraudlens/internal/provider"
	"github.com/fraudlens-ai/fraudlens/internal/resilience"
	"github.com/fraudlens-ai/fraudlens/internal/server"
	"github.com/fraudlens-ai/fraudlens/internal/session"
)

var (
	servePort     int
	serveHostname string
	serveDir      string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the FraudLens API server",
	Long: `Start the FraudLens triage API.

The server exposes sessions, one-shot analysis, provider validation and
an event stream over HTTP. It shuts down gracefully on SIGINT/SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveHostname, "hostname", "", "Hostname to listen on, defaults to configuration")
	serveCmd.Flags().StringVar(&serveDir, "directory", "", "Working directory")
}

func runServe(cmd *cobra.Command, args []string) error {
	workDir, err := GetWorkDir(serveDir)
	if err != nil {
		return err
	}

	cfg, err := setupRuntime(workDir)
	if err != nil {
		return err
	}

	// Flags override file and environment settings.
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if serveHostname != "" {
		cfg.Server.Host = serveHostname
	}

	if err := config.GetPaths().EnsurePaths(); err != nil {
		return err
	}

	logging.Info().
		Str("version", Version).
		Str("directory", workDir).
		Msg("Starting FraudLens server")

	factory := httpclient.NewFactory(cfg.HTTP)
	defer factory.CloseIdleConnections()

	invoker := resilience.NewInvoker(cfg.Resilience)
	invoker.OnStateChange(func(target string, from, to resilience.State) {
		event.Publish(event.Event{
			Type: event.BreakerStateChanged,
			Data: event.BreakerStateChangedData{Target: target, From: string(from), To: string(to)},
		})
	})

	registry, err := provider.InitializeProviders(cmd.Context(), cfg, invoker, factory)
	if err != nil {
		return err
	}
	if len(registry.List()) == 0 {
		logging.Warn().Msg("No providers configured; analysis requests will fail")
	}

	var bank *bankdata.Client
	if cfg.BankData.BaseURL != "" {
		bank, err = bankdata.NewClient(cfg.BankData, invoker, factory)
		if err != nil {
			return err
		}
		logging.Info().Str("baseURL", cfg.BankData.BaseURL).Msg("Records API configured")
	}

	profiles := profile.NewRegistry(cfg.Profiles)
	if err := profiles.Load(); err != nil {
		return err
	}
	watcher, err := profile.NewWatcher(profiles)
	if err != nil {
		// The watcher is an enhancement; profiles still load on restart.
		logging.Warn().Err(err).Msg("Profile watcher unavailable")
	} else if watcher != nil {
		watcher.Start()
		defer watcher.Stop()
	}

	srv := server.New(cfg.Server, session.NewStore(), registry, invoker, profiles, bank)

	// Start server in goroutine
	go func() {
		logging.Info().Str("addr", srv.Addr()).Msg("Server listening")
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("Shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Server shutdown error")
	}

	logging.Info().Msg("Server stopped")
	return nil
}
