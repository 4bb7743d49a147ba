package storage

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/inventory-store/internal/core/domain"
	"github.com/rl1809/inventory-store/internal/port"
)

var _ port.ItemRepository = (*RedisAdapter)(nil)

const (
	defaultKeyPrefix = "inventory:"
	itemsKeySuffix   = "items"
	nextIDKeySuffix  = "next_id"
	maxTxRetries     = 100
)

var ErrTxContention = errors.New("redis transaction retries exhausted")

// deleteItemScript removes a hash field and returns its last value in one step.
var deleteItemScript = redis.NewScript(`
local value = redis.call('HGET', KEYS[1], ARGV[1])
if not value then
	return false
end
redis.call('HDEL', KEYS[1], ARGV[1])
return value
`)

// RedisAdapter stores items as JSON values in one hash keyed by id. The next id
// lives in its own key as a decimal string so the full uint64 range is usable.
// Add and Update run as WATCH/MULTI transactions and retry on conflict.
type RedisAdapter struct {
	client   *redis.Client
	itemsKey string
	nextKey  string
	now      func() uint64
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return NewRedisAdapterWithPrefix(client, defaultKeyPrefix)
}

// NewRedisAdapterWithPrefix namespaces every key, which lets tests share a server.
func NewRedisAdapterWithPrefix(client *redis.Client, prefix string) *RedisAdapter {
	return &RedisAdapter{
		client:   client,
		itemsKey: prefix + itemsKeySuffix,
		nextKey:  prefix + nextIDKeySuffix,
		now:      domain.Now,
	}
}

func (r *RedisAdapter) Add(ctx context.Context, payload domain.Payload) (domain.Item, error) {
	var item domain.Item

	txf := func(tx *redis.Tx) error {
		next, err := tx.Get(ctx, r.nextKey).Uint64()
		if errors.Is(err, redis.Nil) {
			next = firstItemID
		} else if err != nil {
			return fmt.Errorf("read next id: %w", err)
		}
		if next == math.MaxUint64 {
			return domain.ErrIDExhausted
		}

		item = domain.NewItem(next, payload, r.now())
		body, err := json.Marshal(item)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, r.itemsKey, strconv.FormatUint(item.ID, 10), body)
			pipe.Set(ctx, r.nextKey, strconv.FormatUint(next+1, 10), 0)
			return nil
		})
		return err
	}

	if err := r.watch(ctx, txf, r.nextKey); err != nil {
		return domain.Item{}, err
	}
	return item, nil
}

func (r *RedisAdapter) Get(ctx context.Context, id uint64) (domain.Item, error) {
	body, err := r.client.HGet(ctx, r.itemsKey, strconv.FormatUint(id, 10)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Item{}, domain.NotFoundGet(id)
	}
	if err != nil {
		return domain.Item{}, fmt.Errorf("hget item: %w", err)
	}
	return decodeItem(body)
}

func (r *RedisAdapter) List(ctx context.Context) ([]domain.Item, error) {
	values, err := r.client.HVals(ctx, r.itemsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("hvals items: %w", err)
	}

	items := make([]domain.Item, 0, len(values))
	for _, v := range values {
		item, err := decodeItem([]byte(v))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	slices.SortFunc(items, func(a, b domain.Item) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return items, nil
}

func (r *RedisAdapter) Update(ctx context.Context, id uint64, payload domain.Payload) (domain.Item, error) {
	field := strconv.FormatUint(id, 10)
	var item domain.Item

	txf := func(tx *redis.Tx) error {
		body, err := tx.HGet(ctx, r.itemsKey, field).Bytes()
		if errors.Is(err, redis.Nil) {
			return domain.NotFoundUpdate(id)
		}
		if err != nil {
			return fmt.Errorf("hget item: %w", err)
		}

		current, err := decodeItem(body)
		if err != nil {
			return err
		}
		item = current.Apply(payload, r.now())

		updated, err := json.Marshal(item)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, r.itemsKey, field, updated)
			return nil
		})
		return err
	}

	if err := r.watch(ctx, txf, r.itemsKey); err != nil {
		return domain.Item{}, err
	}
	return item, nil
}

func (r *RedisAdapter) Delete(ctx context.Context, id uint64) (domain.Item, error) {
	body, err := deleteItemScript.Run(ctx, r.client, []string{r.itemsKey}, strconv.FormatUint(id, 10)).Text()
	if errors.Is(err, redis.Nil) {
		return domain.Item{}, domain.NotFoundDelete(id)
	}
	if err != nil {
		return domain.Item{}, fmt.Errorf("delete item: %w", err)
	}
	return decodeItem([]byte(body))
}

// watch runs txf under WATCH on keys, retrying while another client wins the race.
func (r *RedisAdapter) watch(ctx context.Context, txf func(*redis.Tx) error, keys ...string) error {
	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrTxContention
}

func decodeItem(body []byte) (domain.Item, error) {
	var item domain.Item
	if err := json.Unmarshal(body, &item); err != nil {
		return domain.Item{}, fmt.Errorf("decode item: %w", err)
	}
	return item, nil
}
