package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	cerrors "github.com/prasit/catalog_service/internal/errors"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{
		db: dbp,
	}
}

// FindByCode retrieves a product by its code.
// Returns ErrProductNotFound if no product exists with the given code.
func (p *PgStore) FindByCode(ctx context.Context, code string) (*Product, error) {
	row := p.db.QueryRow(ctx,
		`SELECT id, product_code, name, price, image_filename, created_at
		 FROM products WHERE product_code = $1`, code)

	var product Product
	err := row.Scan(&product.ID, &product.ProductCode, &product.Name,
		&product.Price, &product.ImageFilename, &product.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cerrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by code: %w", err)
	}
	return &product, nil
}

// Insert adds a new product and returns the persisted record.
// Returns ErrDuplicateCode when the unique constraint on product_code fires.
func (p *PgStore) Insert(ctx context.Context, params InsertParams) (*Product, error) {
	row := p.db.QueryRow(ctx,
		`INSERT INTO products (product_code, name, price, image_filename, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, product_code, name, price, image_filename, created_at`,
		params.ProductCode, params.Name, params.Price, params.ImageFilename, params.CreatedAt)

	var product Product
	err := row.Scan(&product.ID, &product.ProductCode, &product.Name,
		&product.Price, &product.ImageFilename, &product.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, cerrors.ErrDuplicateCode
		}
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	return &product, nil
}

// FindAll retrieves all products ordered newest-first. Ties on created_at
// resolve to the most recent insert via the id column.
func (p *PgStore) FindAll(ctx context.Context) ([]Product, error) {
	rows, err := p.db.Query(ctx,
		`SELECT id, product_code, name, price, image_filename, created_at
		 FROM products ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var product Product
		if err := rows.Scan(&product.ID, &product.ProductCode, &product.Name,
			&product.Price, &product.ImageFilename, &product.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read product rows: %w", err)
	}
	return products, nil
}

// DeleteByCode removes the product identified by code.
// Returns ErrProductNotFound if no product exists with the given code.
func (p *PgStore) DeleteByCode(ctx context.Context, code string) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM products WHERE product_code = $1`, code)
	if err != nil {
		return fmt.Errorf("failed to delete product by code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cerrors.ErrProductNotFound
	}
	return nil
}
