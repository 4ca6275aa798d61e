package testutil

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/fraudlens-ai/fraudlens/internal/bankdata"
	"github.com/fraudlens-ai/fraudlens/internal/event"
	"github.com/fraudlens-ai/fraudlens/internal/httpclient"
	"github.com/fraudlens-ai/fraudlens/internal/profile"
	"github.com/fraudlens-ai/fraudlens/internal/provider"
	"github.com/fraudlens-ai/fraudlens/internal/resilience"
	"github.com/fraudlens-ai/fraudlens/internal/server"
	"github.com/fraudlens-ai/fraudlens/internal/session"
	"github.com/fraudlens-ai/fraudlens/pkg/types"
)

// wireReviewProfile is written into the harness profile directory so
// profile selection can be checked on the wire.
const wireReviewProfile = `name: wire-review
description: Outbound wire review framing
systemPrompt: |
  You review outbound wire alerts for a bank fraud desk. Weigh destination
  risk, the amount against account history, and standing instructions.
`

// TestServer runs the full API wired to mock upstreams.
type TestServer struct {
	Server      *server.Server
	BaseURL     string
	Config      *types.Config
	Store       *session.Store
	Registry    *provider.Registry
	Profiles    *profile.Registry
	MockLLM     *MockLLMServer
	MockBank    *MockBankAPI
	TempDir     string
	ProfilesDir string

	watcher *profile.Watcher
	port    int
}

// TestServerOption configures TestServer
type TestServerOption func(*testServerConfig)

type testServerConfig struct {
	mutators []func(*types.Config)
}

// WithConfig registers a mutator applied to the assembled configuration
// before anything is wired.
func WithConfig(fn func(*types.Config)) TestServerOption {
	return func(c *testServerConfig) {
		c.mutators = append(c.mutators, fn)
	}
}

// StartTestServer boots the API against a mock model backend and a mock
// records API, and waits until it answers.
func StartTestServer(opts ...TestServerOption) (*TestServer, error) {
	cfg := &testServerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	event.Reset()

	tempDir, err := os.MkdirTemp("", "fraudlens-test-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	profilesDir := filepath.Join(tempDir, "profiles")
	if err := os.MkdirAll(profilesDir, 0755); err != nil {
		os.RemoveAll(tempDir)
		return nil, fmt.Errorf("failed to create profiles dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(profilesDir, "wire-review.yaml"), []byte(wireReviewProfile), 0644); err != nil {
		os.RemoveAll(tempDir)
		return nil, fmt.Errorf("failed to write profile: %w", err)
	}

	mockLLM := NewMockLLMServer()
	mockBank := NewMockBankAPI()

	cleanup := func() {
		mockLLM.Close()
		mockBank.Close()
		os.RemoveAll(tempDir)
	}

	port, err := findAvailablePort()
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to find available port: %w", err)
	}

	appConfig := &types.Config{
		Server: types.ServerConfig{Host: "127.0.0.1", Port: port},
		Model:  "openai/fraud-mock-1",
		Provider: map[string]types.ProviderConfig{
			"openai": {
				APIKey:  "mock-key",
				BaseURL: mockLLM.URL(),
				Model:   "fraud-mock-1",
			},
		},
		Resilience: types.ResilienceConfig{
			MaxAttempts: 2,
			BackoffUnit: time.Millisecond,
		},
		BankData: types.BankDataConfig{BaseURL: mockBank.URL()},
		HTTP:     types.HTTPClientConfig{Timeout: 10 * time.Second},
		Profiles: profilesDir,
	}
	for _, mutate := range cfg.mutators {
		mutate(appConfig)
	}

	ctx := context.Background()

	factory := httpclient.NewFactory(appConfig.HTTP)
	invoker := resilience.NewInvoker(appConfig.Resilience)
	invoker.OnStateChange(func(target string, from, to resilience.State) {
		event.Publish(event.Event{
			Type: event.BreakerStateChanged,
			Data: event.BreakerStateChangedData{Target: target, From: string(from), To: string(to)},
		})
	})

	registry, err := provider.InitializeProviders(ctx, appConfig, invoker, factory)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to initialize providers: %w", err)
	}

	var bank *bankdata.Client
	if appConfig.BankData.BaseURL != "" {
		bank, err = bankdata.NewClient(appConfig.BankData, invoker, factory)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to build records client: %w", err)
		}
	}

	profiles := profile.NewRegistry(appConfig.Profiles)
	if err := profiles.Load(); err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	watcher, err := profile.NewWatcher(profiles)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to start profile watcher: %w", err)
	}
	if watcher != nil {
		watcher.Start()
	}

	store := session.NewStore()
	srv := server.New(appConfig.Server, store, registry, invoker, profiles, bank)

	// Start server in background
	go func() {
		_ = srv.Start()
	}()

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	if err := waitForServer(baseURL, 10*time.Second); err != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		srv.Shutdown(shutdownCtx)
		cancel()
		if watcher != nil {
			watcher.Stop()
		}
		cleanup()
		return nil, fmt.Errorf("server failed to start: %w", err)
	}

	return &TestServer{
		Server:      srv,
		BaseURL:     baseURL,
		Config:      appConfig,
		Store:       store,
		Registry:    registry,
		Profiles:    profiles,
		MockLLM:     mockLLM,
		MockBank:    mockBank,
		TempDir:     tempDir,
		ProfilesDir: profilesDir,
		watcher:     watcher,
		port:        port,
	}, nil
}

// Stop shuts down the test server and its mock upstreams.
func (ts *TestServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var shutdownErr error
	if ts.Server != nil {
		shutdownErr = ts.Server.Shutdown(ctx)
	}
	if ts.watcher != nil {
		ts.watcher.Stop()
	}
	if ts.MockLLM != nil {
		ts.MockLLM.Close()
	}
	if ts.MockBank != nil {
		ts.MockBank.Close()
	}
	if ts.TempDir != "" {
		os.RemoveAll(ts.TempDir)
	}
	return shutdownErr
}

// Client returns a new test client for this server
func (ts *TestServer) Client() *TestClient {
	return NewTestClient(ts.BaseURL)
}

// findAvailablePort finds an available TCP port
func findAvailablePort() (int, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}

// waitForServer waits for the server to be ready
func waitForServer(baseURL string, timeout time.Duration) error {
	client := NewTestClient(baseURL)
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(context.Background(), "/health")
		if err == nil && resp.IsSuccess() {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server not ready after %v", timeout)
}
