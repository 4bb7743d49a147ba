package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/rl1809/inventory-store/internal/core/domain"
)

const selectItem = `SELECT id, name, quantity, price_bits, created_at, updated_at FROM items`

// priceBits stores a price as its IEEE 754 bit pattern. Neither backend keeps
// NaN in a floating point column, and every float64 must round-trip exactly.
func priceBits(price float64) int64 {
	return int64(math.Float64bits(price))
}

func priceFromBits(bits int64) float64 {
	return math.Float64frombits(uint64(bits))
}

// sqlStore holds the queries shared by the SQL backends. The sequence row and
// the items table change in one transaction, so the counter and the map can
// never disagree.
type sqlStore struct {
	db *sql.DB
	// lockClause is appended to reads that precede a write in the same tx
	lockClause string
	now        func() uint64
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (domain.Item, error) {
	var (
		item      domain.Item
		id        int64
		price     int64
		createdAt int64
		updatedAt sql.NullInt64
	)
	if err := row.Scan(&id, &item.Name, &item.Quantity, &price, &createdAt, &updatedAt); err != nil {
		return domain.Item{}, err
	}
	item.ID = uint64(id)
	item.Price = priceFromBits(price)
	item.CreatedAt = uint64(createdAt)
	if updatedAt.Valid {
		t := uint64(updatedAt.Int64)
		item.UpdatedAt = &t
	}
	return item, nil
}

// storable reports whether id fits the signed BIGINT columns.
func storable(id uint64) bool {
	return id <= math.MaxInt64
}

func (s *sqlStore) Add(ctx context.Context, payload domain.Payload) (domain.Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Item{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var next int64
	err = tx.QueryRowContext(ctx, `SELECT next_id FROM item_sequence WHERE id = 1`+s.lockClause).Scan(&next)
	if err != nil {
		return domain.Item{}, fmt.Errorf("read sequence: %w", err)
	}
	if next == math.MaxInt64 {
		return domain.Item{}, domain.ErrIDExhausted
	}

	item := domain.NewItem(uint64(next), payload, s.now())
	_, err = tx.ExecContext(ctx, `
		INSERT INTO items (id, name, quantity, price_bits, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NULL)`,
		next, item.Name, item.Quantity, priceBits(item.Price), int64(item.CreatedAt),
	)
	if err != nil {
		return domain.Item{}, fmt.Errorf("insert item: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE item_sequence SET next_id = ? WHERE id = 1`, next+1); err != nil {
		return domain.Item{}, fmt.Errorf("advance sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Item{}, fmt.Errorf("commit: %w", err)
	}
	return item, nil
}

func (s *sqlStore) Get(ctx context.Context, id uint64) (domain.Item, error) {
	if !storable(id) {
		return domain.Item{}, domain.NotFoundGet(id)
	}

	item, err := scanItem(s.db.QueryRowContext(ctx, selectItem+` WHERE id = ?`, int64(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Item{}, domain.NotFoundGet(id)
	}
	if err != nil {
		return domain.Item{}, fmt.Errorf("query item: %w", err)
	}
	return item, nil
}

func (s *sqlStore) List(ctx context.Context) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, selectItem+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

func (s *sqlStore) Update(ctx context.Context, id uint64, payload domain.Payload) (domain.Item, error) {
	if !storable(id) {
		return domain.Item{}, domain.NotFoundUpdate(id)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Item{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	item, err := scanItem(tx.QueryRowContext(ctx, selectItem+` WHERE id = ?`+s.lockClause, int64(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Item{}, domain.NotFoundUpdate(id)
	}
	if err != nil {
		return domain.Item{}, fmt.Errorf("query item: %w", err)
	}

	item = item.Apply(payload, s.now())
	_, err = tx.ExecContext(ctx, `
		UPDATE items
		SET name = ?, quantity = ?, price_bits = ?, updated_at = ?
		WHERE id = ?`,
		item.Name, item.Quantity, priceBits(item.Price), int64(*item.UpdatedAt), int64(id),
	)
	if err != nil {
		return domain.Item{}, fmt.Errorf("update item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Item{}, fmt.Errorf("commit: %w", err)
	}
	return item, nil
}

func (s *sqlStore) Delete(ctx context.Context, id uint64) (domain.Item, error) {
	if !storable(id) {
		return domain.Item{}, domain.NotFoundDelete(id)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Item{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	item, err := scanItem(tx.QueryRowContext(ctx, selectItem+` WHERE id = ?`+s.lockClause, int64(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Item{}, domain.NotFoundDelete(id)
	}
	if err != nil {
		return domain.Item{}, fmt.Errorf("query item: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, int64(id)); err != nil {
		return domain.Item{}, fmt.Errorf("delete item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Item{}, fmt.Errorf("commit: %w", err)
	}
	return item, nil
}
