package port

import (
	"context"

	"github.com/rl1809/inventory-store/internal/core/domain"
)

type EventPublisher interface {
	// Publish announces a committed mutation
	Publish(ctx context.Context, event domain.ItemEvent) error

	Close() error
}
