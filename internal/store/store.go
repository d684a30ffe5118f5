// Package store provides durable persistence for product records.
package store

import (
	"context"
	"time"
)

// Product is a catalog record. ID and CreatedAt are assigned by the store
// on insert; ProductCode is the sole external identifier.
type Product struct {
	ID            int64
	ProductCode   string
	Name          string
	Price         float64
	ImageFilename *string
	CreatedAt     time.Time
}

// InsertParams carries the fields of a record to be persisted. CreatedAt is
// computed by the caller exactly once, at record construction.
type InsertParams struct {
	ProductCode   string
	Name          string
	Price         float64
	ImageFilename *string
	CreatedAt     time.Time
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type ProductStore interface {
	// FindByCode retrieves a single product by its code, case-sensitive.
	// Returns ErrProductNotFound if no product exists with the given code.
	FindByCode(ctx context.Context, code string) (*Product, error)

	// Insert adds a new product, assigning its ID. The write is atomic:
	// either the full record exists afterwards or nothing is persisted.
	// Returns ErrDuplicateCode if the product code is already taken.
	Insert(ctx context.Context, params InsertParams) (*Product, error)

	// FindAll returns all products ordered newest-first by creation time,
	// ties broken by most recent insert. Empty catalog yields an empty slice.
	FindAll(ctx context.Context) ([]Product, error)

	// DeleteByCode removes the product identified by code.
	// Returns ErrProductNotFound if no product exists with the given code.
	DeleteByCode(ctx context.Context, code string) error
}
