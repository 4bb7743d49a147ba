package messaging

import (
	"context"

	"github.com/rl1809/inventory-store/internal/core/domain"
	"github.com/rl1809/inventory-store/internal/port"
)

var _ port.EventPublisher = NopPublisher{}

// NopPublisher drops events; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.ItemEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
