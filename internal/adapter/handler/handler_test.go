package handler

import (
	"testing"

	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/rl1809/inventory-store/internal/adapter/messaging"
	"github.com/rl1809/inventory-store/internal/adapter/storage"
	"github.com/rl1809/inventory-store/internal/core/service"
)

func newTestService(t *testing.T, opts ...storage.MemoryOption) *service.InventoryService {
	t.Helper()
	return service.NewInventoryService(
		storage.NewMemoryAdapter(opts...),
		messaging.NopPublisher{},
		zap.NewNop(),
		noop.NewTracerProvider().Tracer("test"),
	)
}
