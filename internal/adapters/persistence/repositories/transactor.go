package repositories

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// GormTransactor implements Transactor on top of gorm's native transactions.
// The open transaction travels in the context so that repositories created
// outside the transaction still participate in it.
type GormTransactor struct {
	db *gorm.DB
}

// NewTransactor creates a new gorm-backed transactor.
func NewTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

// WithinTransaction runs fn inside a single transaction. A rollback happens
// when fn returns an error or panics.
func (t *GormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction bound to ctx, or the base connection.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
