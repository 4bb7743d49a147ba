package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/inventory-store/internal/core/domain"
	"github.com/rl1809/inventory-store/internal/port"
)

// runRepositoryContract checks the behaviour every backend must share.
// newRepo must return an empty store whose first id is 1.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) port.ItemRepository) {
	t.Run("AddThenGet", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		added, err := repo.Add(ctx, domain.Payload{Name: "washer", Quantity: 12, Price: 0.1})
		require.NoError(t, err)
		assert.Nil(t, added.UpdatedAt)
		assert.NotZero(t, added.CreatedAt)

		got, err := repo.Get(ctx, added.ID)
		require.NoError(t, err)
		assert.Equal(t, added, got)
	})

	t.Run("BoltScenario", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		added, err := repo.Add(ctx, domain.Payload{Name: "bolt", Quantity: 100, Price: 0.5})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), added.ID)
		assert.Equal(t, uint32(100), added.Quantity)
		assert.Equal(t, 0.5, added.Price)
		assert.Nil(t, added.UpdatedAt)

		updated, err := repo.Update(ctx, 1, domain.Payload{Name: "bolt", Quantity: 90, Price: 0.55})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), updated.ID)
		assert.Equal(t, uint32(90), updated.Quantity)
		assert.Equal(t, 0.55, updated.Price)
		require.NotNil(t, updated.UpdatedAt)

		deleted, err := repo.Delete(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, updated, deleted)

		_, err = repo.Get(ctx, 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("UpdatePreservesIdentity", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		added, err := repo.Add(ctx, domain.Payload{Name: "gear", Quantity: 3, Price: 9.99})
		require.NoError(t, err)

		updated, err := repo.Update(ctx, added.ID, domain.Payload{Name: "sprocket", Quantity: 0, Price: -1})
		require.NoError(t, err)
		assert.Equal(t, added.ID, updated.ID)
		assert.Equal(t, added.CreatedAt, updated.CreatedAt)
		assert.Equal(t, "sprocket", updated.Name)
		assert.Equal(t, uint32(0), updated.Quantity)
		assert.Equal(t, -1.0, updated.Price)
		require.NotNil(t, updated.UpdatedAt)
		assert.GreaterOrEqual(t, *updated.UpdatedAt, updated.CreatedAt)

		got, err := repo.Get(ctx, added.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, got)
	})

	t.Run("ExtremeValuesStoredExactly", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		samePrice := func(want, got float64) bool {
			if math.IsNaN(want) {
				return math.IsNaN(got)
			}
			return want == got && math.Signbit(want) == math.Signbit(got)
		}

		prices := []float64{
			math.NaN(),
			math.Inf(1),
			math.Inf(-1),
			math.MaxFloat64,
			-math.MaxFloat64,
			math.SmallestNonzeroFloat64,
			math.Copysign(0, -1),
		}

		ids := make([]uint64, 0, len(prices))
		for _, price := range prices {
			added, err := repo.Add(ctx, domain.Payload{Name: "", Quantity: math.MaxUint32, Price: price})
			require.NoError(t, err, "add price %v", price)
			assert.True(t, samePrice(price, added.Price), "add price %v returned %v", price, added.Price)

			got, err := repo.Get(ctx, added.ID)
			require.NoError(t, err)
			assert.True(t, samePrice(price, got.Price), "stored price %v read back as %v", price, got.Price)
			assert.Equal(t, uint32(math.MaxUint32), got.Quantity)
			assert.Equal(t, "", got.Name)
			ids = append(ids, added.ID)
		}

		items, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, len(prices))
		for i, item := range items {
			assert.True(t, samePrice(prices[i], item.Price), "listed price %v, want %v", item.Price, prices[i])
		}

		// every price moves to the next one in the list
		for i, id := range ids {
			next := prices[(i+1)%len(prices)]
			updated, err := repo.Update(ctx, id, domain.Payload{Name: "edge", Quantity: 0, Price: next})
			require.NoError(t, err, "update to price %v", next)
			assert.True(t, samePrice(next, updated.Price))

			got, err := repo.Get(ctx, id)
			require.NoError(t, err)
			assert.True(t, samePrice(next, got.Price), "updated price %v read back as %v", next, got.Price)

			deleted, err := repo.Delete(ctx, id)
			require.NoError(t, err)
			assert.True(t, samePrice(next, deleted.Price))
		}
	})

	t.Run("IDsNeverReused", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, err := repo.Add(ctx, domain.Payload{Name: "a"})
		require.NoError(t, err)
		second, err := repo.Add(ctx, domain.Payload{Name: "b"})
		require.NoError(t, err)

		_, err = repo.Delete(ctx, second.ID)
		require.NoError(t, err)
		_, err = repo.Delete(ctx, first.ID)
		require.NoError(t, err)

		third, err := repo.Add(ctx, domain.Payload{Name: "c"})
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, third.ID)
		assert.NotEqual(t, second.ID, third.ID)
		assert.Greater(t, third.ID, second.ID)
	})

	t.Run("MissingIDIsNotFound", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Add(ctx, domain.Payload{Name: "keep"})
		require.NoError(t, err)

		for _, id := range []uint64{0, 999, 1 << 63} {
			_, err = repo.Get(ctx, id)
			assert.ErrorIs(t, err, domain.ErrNotFound, "get %d", id)

			_, err = repo.Update(ctx, id, domain.Payload{Name: "x"})
			assert.ErrorIs(t, err, domain.ErrNotFound, "update %d", id)

			_, err = repo.Delete(ctx, id)
			assert.ErrorIs(t, err, domain.ErrNotFound, "delete %d", id)

			var nf *domain.NotFoundError
			assert.True(t, errors.As(err, &nf))
		}

		items, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("ListReturnsEveryItem", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		items, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)

		const n = 25
		for i := 0; i < n; i++ {
			_, err := repo.Add(ctx, domain.Payload{Name: fmt.Sprintf("item-%d", i), Quantity: uint32(i)})
			require.NoError(t, err)
		}

		items, err = repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, n)

		seen := make(map[uint64]bool, n)
		for i, item := range items {
			assert.False(t, seen[item.ID], "duplicate id %d", item.ID)
			seen[item.ID] = true
			if i > 0 {
				assert.Less(t, items[i-1].ID, item.ID)
			}
		}
	})

	t.Run("ConcurrentAddsGetDistinctIDs", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		const workers = 8
		const perWorker = 10

		var mu sync.Mutex
		ids := make(map[uint64]bool)
		var wg sync.WaitGroup

		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < perWorker; i++ {
					item, err := repo.Add(ctx, domain.Payload{Name: fmt.Sprintf("w%d-%d", w, i)})
					if err != nil {
						t.Errorf("add failed: %v", err)
						return
					}
					mu.Lock()
					if ids[item.ID] {
						t.Errorf("id %d issued twice", item.ID)
					}
					ids[item.ID] = true
					mu.Unlock()
				}
			}(w)
		}
		wg.Wait()

		items, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, items, workers*perWorker)
		assert.Len(t, ids, workers*perWorker)
	})

	t.Run("ReadsNeverSeeMixedRecord", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a := domain.Payload{Name: "alpha", Quantity: 1, Price: 1.5}
		b := domain.Payload{Name: "beta", Quantity: 2, Price: 2.5}
		item, err := repo.Add(ctx, a)
		require.NoError(t, err)

		consistent := func(got domain.Item) bool {
			switch got.Name {
			case a.Name:
				return got.Quantity == a.Quantity && got.Price == a.Price
			case b.Name:
				return got.Quantity == b.Quantity && got.Price == b.Price
			}
			return false
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				p := a
				if i%2 == 0 {
					p = b
				}
				if _, err := repo.Update(ctx, item.ID, p); err != nil {
					t.Errorf("update failed: %v", err)
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				got, err := repo.Get(ctx, item.ID)
				if err != nil {
					t.Errorf("get failed: %v", err)
					return
				}
				if !consistent(got) {
					t.Errorf("mixed record observed: %+v", got)
				}
			}
		}()
		wg.Wait()
	})
}
