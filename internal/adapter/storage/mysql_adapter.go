package storage

import (
	"database/sql"

	"github.com/rl1809/inventory-store/internal/core/domain"
	"github.com/rl1809/inventory-store/internal/port"
)

var _ port.ItemRepository = (*MySQLAdapter)(nil)

// MySQLAdapter locks the sequence row and the touched item row with
// SELECT ... FOR UPDATE, so concurrent servers sharing one database still
// allocate distinct ids.
type MySQLAdapter struct {
	sqlStore
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{sqlStore{db: db, lockClause: " FOR UPDATE", now: domain.Now}}
}
