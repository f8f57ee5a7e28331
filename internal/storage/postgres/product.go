package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/eshop-shipping/internal/domain/product"
)

const (
	listProductsSQL = `SELECT name, price, available_amount FROM products ORDER BY name`

	getProductSQL = `SELECT name, price, available_amount FROM products WHERE name = $1`

	setProductAvailableSQL = `UPDATE products SET available_amount = $2, updated_at = now()
	WHERE name = $1`

	upsertProductSQL = `INSERT INTO products (name, price, available_amount)
	VALUES ($1, $2, $3)
	ON CONFLICT (name) DO UPDATE SET price = EXCLUDED.price,
		available_amount = EXCLUDED.available_amount, updated_at = now()`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns every product in the catalog ordered by name.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	defer rows.Close()

	var products []product.Product
	for rows.Next() {
		var p product.Product
		if err := rows.Scan(&p.Name, &p.Price, &p.Available); err != nil {
			return nil, errors.Wrap(err, "scan product")
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetByNames fetches the named products preserving argument order. A name
// without a catalog row yields a product.NotFoundError.
func (r *ProductRepository) GetByNames(ctx context.Context, names []string) ([]product.Product, error) {
	products := make([]product.Product, 0, len(names))
	for _, name := range names {
		var p product.Product
		err := r.pool.QueryRow(ctx, getProductSQL, name).
			Scan(&p.Name, &p.Price, &p.Available)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, &product.NotFoundError{Name: name}
			}
			return nil, errors.Wrapf(err, "get product %q", name)
		}
		products = append(products, p)
	}
	return products, nil
}

// SetAvailable stores the new availability for the named product.
func (r *ProductRepository) SetAvailable(ctx context.Context, name string, available int) error {
	tag, err := r.pool.Exec(ctx, setProductAvailableSQL, name, available)
	if err != nil {
		return errors.Wrapf(err, "set availability of %q", name)
	}
	if tag.RowsAffected() == 0 {
		return &product.NotFoundError{Name: name}
	}
	return nil
}

// Upsert inserts or replaces a catalog row. Used by the seed command.
func (r *ProductRepository) Upsert(ctx context.Context, p *product.Product) error {
	if _, err := r.pool.Exec(ctx, upsertProductSQL, p.Name, p.Price, p.Available); err != nil {
		return errors.Wrapf(err, "upsert product %q", p.Name)
	}
	return nil
}
