// Package testutil provides common testing utilities for Horizon tests:
// logger setup, recording fakes for the simulation collaborators and vector
// assertions.
package testutil

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/VoidMesh/horizon/internal/config"
	"github.com/VoidMesh/horizon/internal/logging"
)

// TestConfig holds configuration for test setup
type TestConfig struct {
	// EnableLogCapture routes log output to t.Log instead of discarding it
	EnableLogCapture bool
}

// DefaultTestConfig returns a default test configuration suitable for most tests
func DefaultTestConfig() *TestConfig {
	return &TestConfig{
		EnableLogCapture: false, // Disable by default for cleaner test output
	}
}

// SetupTest silences or captures the global and default loggers for the
// duration of the test and returns a logger suitable for injection.
//
// Usage:
//
//	func TestMyFunction(t *testing.T) {
//	    logger := testutil.SetupTest(t, testutil.DefaultTestConfig())
//	    // ... test code
//	}
func SetupTest(t *testing.T, cfg *TestConfig) *log.Logger {
	t.Helper()

	originalLogger := logging.Logger
	originalDefault := log.Default()
	t.Cleanup(func() {
		logging.Logger = originalLogger
		log.SetDefault(originalDefault)
	})

	var logger *log.Logger
	if cfg.EnableLogCapture {
		logger = log.New(testWriter{t: t})
		logger.SetLevel(log.DebugLevel)
	} else {
		logger = log.New(io.Discard)
	}

	logging.Logger = logger
	log.SetDefault(logger)
	return logger
}

// testWriter adapts testing.T to implement io.Writer for log output
type testWriter struct {
	t *testing.T
}

func (tw testWriter) Write(p []byte) (n int, err error) {
	tw.t.Helper()
	tw.t.Log(string(p))
	return len(p), nil
}

// SmallConfig returns the default configuration shrunk to a patch that is
// cheap to recenter every tick.
func SmallConfig() *config.Config {
	cfg := config.Default()
	cfg.Terrain.Size = 400
	cfg.Terrain.Segments = 10
	cfg.Terrain.Seed = "12345"
	return cfg
}
