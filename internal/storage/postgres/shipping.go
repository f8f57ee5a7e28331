package postgres

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/eshop-shipping/internal/domain/shipping"
)

const (
	createShippingSQL = `INSERT INTO shipments (shipping_id, shipping_type, product_ids, order_id, status, due_date)
	VALUES ($1, $2, $3, $4, $5, $6)`

	getShippingSQL = `SELECT shipping_type, product_ids, order_id, status, due_date
	FROM shipments WHERE shipping_id = $1`

	updateShippingStatusSQL = `UPDATE shipments SET status = $2, updated_at = now()
	WHERE shipping_id = $1`
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

var _ shipping.Repository = (*ShippingRepository)(nil)

// ShippingRepository implements shipping.Repository backed by PostgreSQL.
type ShippingRepository struct {
	pool *pgxpool.Pool
}

// NewShippingRepository returns a ShippingRepository that uses the given pool.
func NewShippingRepository(pool *pgxpool.Pool) *ShippingRepository {
	return &ShippingRepository{pool: pool}
}

// Create persists a new shipment record. Product IDs are serialized as a
// comma-joined string. A duplicate shipping ID yields shipping.ErrAlreadyExists.
func (r *ShippingRepository) Create(ctx context.Context, rec *shipping.Record) error {
	_, err := r.pool.Exec(ctx, createShippingSQL,
		rec.ShippingID,
		rec.Type,
		strings.Join(rec.ProductIDs, ","),
		rec.OrderID,
		string(rec.Status),
		rec.DueDate.UTC(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return shipping.ErrAlreadyExists
		}
		return errors.Wrapf(err, "create shipment %q", rec.ShippingID)
	}
	return nil
}

// Get returns the shipment record for the given shipping ID, or
// shipping.ErrNotFound when absent.
func (r *ShippingRepository) Get(ctx context.Context, shippingID string) (*shipping.Record, error) {
	rec := shipping.Record{ShippingID: shippingID}
	var productIDs, status string

	err := r.pool.QueryRow(ctx, getShippingSQL, shippingID).
		Scan(&rec.Type, &productIDs, &rec.OrderID, &status, &rec.DueDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shipping.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get shipment %q", shippingID)
	}

	if productIDs != "" {
		rec.ProductIDs = strings.Split(productIDs, ",")
	}
	rec.Status = shipping.Status(status)
	rec.DueDate = rec.DueDate.UTC()
	return &rec, nil
}

// UpdateStatus sets the status of an existing shipment record, or returns
// shipping.ErrNotFound when the shipping ID is absent.
func (r *ShippingRepository) UpdateStatus(ctx context.Context, shippingID string, status shipping.Status) error {
	tag, err := r.pool.Exec(ctx, updateShippingStatusSQL, shippingID, string(status))
	if err != nil {
		return errors.Wrapf(err, "update shipment %q", shippingID)
	}
	if tag.RowsAffected() == 0 {
		return shipping.ErrNotFound
	}
	return nil
}
