package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/tarot-api/internal/config"
	"github.com/phrazzld/tarot-api/internal/domain/tarot"
	"github.com/phrazzld/tarot-api/internal/platform/logger"
	"github.com/phrazzld/tarot-api/internal/platform/migrate"
	"github.com/phrazzld/tarot-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "debug", ShutdownTimeoutSeconds: 5},
		Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
			URL:    filepath.Join(t.TempDir(), "tarot.db"),
		},
		Auth:  auth.DefaultJWTConfig(),
		Tarot: config.TarotConfig{ReversalProbability: 0.3, Timezone: "UTC"},
	}
}

// newTestApplication wires an application over a migrated sqlite file.
func newTestApplication(t *testing.T) (*application, *logger.TestLogBuffer) {
	t.Helper()
	cfg := testConfig(t)
	log, logBuf := logger.GetTestLogger(t)

	db, err := openDatabase(context.Background(), cfg.Database, log)
	require.NoError(t, err)
	require.NoError(t, db.migrate(context.Background(), migrate.CommandUp, log))

	app, err := newApplication(cfg, log, db, tarot.NewSeededRand(1))
	require.NoError(t, err)
	t.Cleanup(app.cleanup)
	return app, logBuf
}

func TestNewApplication(t *testing.T) {
	app, logBuf := newTestApplication(t)

	assert.Equal(t, tarot.DefaultCatalog().Size(), app.catalog.Size())
	logger.AssertLogContains(t, logBuf, "application initialized successfully")

	router, err := app.setupRouter()
	require.NoError(t, err)
	assert.NotNil(t, router)
}

func TestNewApplication_BadCatalog(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tarot.CatalogPath = filepath.Join(t.TempDir(), "missing.toml")
	log, _ := logger.GetTestLogger(t)

	db, err := openDatabase(context.Background(), cfg.Database, log)
	require.NoError(t, err)
	t.Cleanup(func() { db.close(log) })

	_, err = newApplication(cfg, log, db, nil)
	assert.Error(t, err)
}

func TestOpenDatabase_UnknownDriver(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	_, err := openDatabase(context.Background(), config.DatabaseConfig{Driver: "mysql", URL: "x"}, log)
	assert.Error(t, err)
}

func TestServe_GracefulShutdown(t *testing.T) {
	app, logBuf := newTestApplication(t)
	router, err := app.setupRouter()
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	server := &http.Server{Handler: router, ReadHeaderTimeout: time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx, server, listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))

	resp, err = http.Get("http://" + listener.Addr().String() + "/api/cards")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	logger.AssertLogContains(t, logBuf, "server shutdown completed")
}
