package database

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// ContextWithTx stores an open transaction in the context.
func ContextWithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns the transaction carried by ctx, or nil.
func TxFromContext(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txKey{}).(*gorm.DB)
	return tx
}

// Conn returns the transaction carried by ctx when there is one, otherwise db
// bound to ctx. Repositories run every statement through it.
func Conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}

// Transactor runs a unit of work inside a single transaction.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// GormTransactor is the GORM implementation of Transactor.
type GormTransactor struct {
	db *gorm.DB
}

// NewTransactor creates a Transactor bound to db.
func NewTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

// RunInTx commits when fn returns nil and rolls back when it returns an error
// or panics; the panic is re-raised after the rollback. A call made while a
// transaction is already open joins it.
func (t *GormTransactor) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if TxFromContext(ctx) != nil {
		return fn(ctx)
	}

	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ContextWithTx(ctx, tx))
	})
}
