package port

import (
	"context"

	"github.com/rl1809/inventory-store/internal/core/domain"
)

// ItemRepository is the single point of mutation for inventory items.
// Every method runs as one atomic step relative to all other calls.
type ItemRepository interface {
	// Add allocates the next id and stores a new item. Fails with domain.ErrIDExhausted
	// once the id space is used up.
	Add(ctx context.Context, payload domain.Payload) (domain.Item, error)

	// Get returns the item or a domain.NotFoundError
	Get(ctx context.Context, id uint64) (domain.Item, error)

	// List returns a snapshot of every stored item ordered by id
	List(ctx context.Context) ([]domain.Item, error)

	// Update overwrites name, quantity and price and stamps UpdatedAt
	Update(ctx context.Context, id uint64, payload domain.Payload) (domain.Item, error)

	// Delete removes the item and returns its last value. Ids are never recycled.
	Delete(ctx context.Context, id uint64) (domain.Item, error)
}
