package storage

import (
	"cmp"
	"context"
	"math"
	"slices"
	"sync"

	"github.com/rl1809/inventory-store/internal/core/domain"
	"github.com/rl1809/inventory-store/internal/port"
)

var _ port.ItemRepository = (*MemoryAdapter)(nil)

// firstItemID is the id handed out by an empty store.
const firstItemID uint64 = 1

// MemoryAdapter keeps the id counter and the item map behind one lock so that
// allocation and insertion can never interleave with another call.
type MemoryAdapter struct {
	mu     sync.RWMutex
	items  map[uint64]domain.Item
	nextID uint64
	now    func() uint64
}

type MemoryOption func(*MemoryAdapter)

// WithStartID sets the first id the store hands out.
func WithStartID(id uint64) MemoryOption {
	return func(m *MemoryAdapter) {
		m.nextID = id
	}
}

func WithClock(now func() uint64) MemoryOption {
	return func(m *MemoryAdapter) {
		m.now = now
	}
}

func NewMemoryAdapter(opts ...MemoryOption) *MemoryAdapter {
	m := &MemoryAdapter{
		items:  make(map[uint64]domain.Item),
		nextID: firstItemID,
		now:    domain.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemoryAdapter) Add(ctx context.Context, payload domain.Payload) (domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// MaxUint64 is never issued so the counter cannot wrap
	if m.nextID == math.MaxUint64 {
		return domain.Item{}, domain.ErrIDExhausted
	}

	item := domain.NewItem(m.nextID, payload, m.now())
	m.items[item.ID] = item
	m.nextID++

	return item.Clone(), nil
}

func (m *MemoryAdapter) Get(ctx context.Context, id uint64) (domain.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[id]
	if !ok {
		return domain.Item{}, domain.NotFoundGet(id)
	}
	return item.Clone(), nil
}

func (m *MemoryAdapter) List(ctx context.Context) ([]domain.Item, error) {
	m.mu.RLock()
	items := make([]domain.Item, 0, len(m.items))
	for _, item := range m.items {
		items = append(items, item.Clone())
	}
	m.mu.RUnlock()

	slices.SortFunc(items, func(a, b domain.Item) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return items, nil
}

func (m *MemoryAdapter) Update(ctx context.Context, id uint64, payload domain.Payload) (domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok {
		return domain.Item{}, domain.NotFoundUpdate(id)
	}

	item = item.Apply(payload, m.now())
	m.items[id] = item

	return item.Clone(), nil
}

func (m *MemoryAdapter) Delete(ctx context.Context, id uint64) (domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok {
		return domain.Item{}, domain.NotFoundDelete(id)
	}
	delete(m.items, id)

	return item, nil
}

// Len reports the number of stored items.
func (m *MemoryAdapter) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
