package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// WithTx returns a Base bound to tx, or b itself when tx is nil.
func (b Base) WithTx(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// OldestFirst orders a scan of table by creation time then id, and caps it at
// limit rows when limit is positive. Repeated runs with a growing limit always
// see the same prefix of records.
func OldestFirst(q *gorm.DB, table string, limit int) *gorm.DB {
	q = q.Order(fmt.Sprintf("%s.created_at ASC", table)).Order(fmt.Sprintf("%s.id ASC", table))
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}
