package main

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/rl1809/inventory-store/internal/adapter/handler"
	"github.com/rl1809/inventory-store/internal/adapter/messaging"
	"github.com/rl1809/inventory-store/internal/config"
	"github.com/rl1809/inventory-store/internal/core/domain"
	"github.com/rl1809/inventory-store/internal/core/service"
	"github.com/rl1809/inventory-store/internal/port"
)

func TestOpenRepository_Memory(t *testing.T) {
	repo, closeRepo, err := openRepository(context.Background(), &config.Config{Backend: config.BackendMemory}, zap.NewNop())
	require.NoError(t, err)
	defer closeRepo()

	item, err := repo.Add(context.Background(), domain.Payload{Name: "bolt"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), item.ID)
}

func TestOpenRepository_SQLiteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "inventory.db")
	cfg := &config.Config{Backend: config.BackendSQLite, SQLitePath: path}

	repo, closeRepo, err := openRepository(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	_, err = repo.Add(context.Background(), domain.Payload{Name: "bolt"})
	require.NoError(t, err)
	require.NoError(t, closeRepo())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpenRepository_RedisUnavailable(t *testing.T) {
	cfg := &config.Config{Backend: config.BackendRedis, RedisAddr: "127.0.0.1:1"}

	_, _, err := openRepository(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "connect redis")
}

// TestSQLiteOverHTTP drives the full stack: HTTP transport, service and a
// durable store that is reopened between two server lifetimes.
func TestSQLiteOverHTTP(t *testing.T) {
	cfg := &config.Config{Backend: config.BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "inventory.db")}

	serve := func() (*httptest.Server, func() error) {
		repo, closeRepo, err := openRepository(context.Background(), cfg, zap.NewNop())
		require.NoError(t, err)
		svc := service.NewInventoryService(repo, messaging.NopPublisher{}, zap.NewNop(), noop.NewTracerProvider().Tracer("test"))
		return httptest.NewServer(handler.NewHTTPHandler(svc, zap.NewNop()).Routes()), closeRepo
	}

	srv, closeRepo := serve()
	resp, err := http.Post(srv.URL+"/api/items", "application/json", strings.NewReader(`{"name":"bolt","quantity":100,"price":0.5}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	srv.Close()
	require.NoError(t, closeRepo())

	srv, closeRepo = serve()
	defer closeRepo()
	defer srv.Close()

	resp, err = http.Get(srv.URL + "/api/items/1")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRun_ListenFailureClosesRepository(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	closed := false
	orig := openRepositoryFunc
	openRepositoryFunc = func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (port.ItemRepository, func() error, error) {
		repo, _, err := orig(ctx, cfg, logger)
		return repo, func() error { closed = true; return nil }, err
	}
	defer func() { openRepositoryFunc = orig }()

	cfg := &config.Config{Backend: config.BackendMemory, GRPCAddr: taken.Addr().String()}
	err = run(cfg, zap.NewNop())

	assert.ErrorContains(t, err, "listen grpc")
	assert.True(t, closed, "repository left open after a failed start")
}

func TestRun_OpenRepositoryFailureReturnsError(t *testing.T) {
	cfg := &config.Config{Backend: config.BackendRedis, RedisAddr: "127.0.0.1:1", HTTPAddr: "127.0.0.1:0"}

	err := run(cfg, zap.NewNop())
	assert.ErrorContains(t, err, "connect redis")
}
