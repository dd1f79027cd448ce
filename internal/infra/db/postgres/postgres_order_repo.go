package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"streamshop/internal/domain"
	"streamshop/internal/domain/model"
	"streamshop/internal/domain/ports/repository"
)

// Ensure interface compliance
var _ repository.OrderRepository = (*orderRepo)(nil)

type orderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) *orderRepo {
	return &orderRepo{pool: pool}
}

const orderColumns = `id, reference, customer_id, platform, payment_ref, status, account_id, fulfilled_at, expires_at, created_at`

func (r *orderRepo) Save(ctx context.Context, tx repository.Tx, o *model.Order) error {
	const q = `
INSERT INTO orders (id, reference, customer_id, platform, payment_ref, status, account_id, fulfilled_at, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE
  SET payment_ref  = EXCLUDED.payment_ref,
      status       = EXCLUDED.status,
      account_id   = EXCLUDED.account_id,
      fulfilled_at = EXCLUDED.fulfilled_at,
      expires_at   = EXCLUDED.expires_at;`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	_, err = ex.Exec(ctx, q, o.ID, o.Reference, o.CustomerID, o.Platform, o.PaymentRef, o.Status, o.AccountID, o.FulfilledAt, o.ExpiresAt, o.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// reference collision or a second order claiming the account
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1;`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	return scanOrder(ex.QueryRow(ctx, q, id))
}

func (r *orderRepo) FindByReference(ctx context.Context, tx repository.Tx, reference string) (*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE reference = $1;`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	return scanOrder(ex.QueryRow(ctx, q, reference))
}

func (r *orderRepo) ListByStatus(ctx context.Context, tx repository.Tx, statuses ...model.OrderStatus) ([]*model.Order, error) {
	const q = `
SELECT ` + orderColumns + `
  FROM orders
 WHERE status = ANY($1)
 ORDER BY created_at;`
	ss := make([]string, len(statuses))
	for i, s := range statuses {
		ss[i] = string(s)
	}
	return r.list(ctx, tx, q, ss)
}

func (r *orderRepo) ListByCustomer(ctx context.Context, tx repository.Tx, customerID string) ([]*model.Order, error) {
	const q = `
SELECT ` + orderColumns + `
  FROM orders
 WHERE customer_id = $1
 ORDER BY created_at DESC;`
	return r.list(ctx, tx, q, customerID)
}

func (r *orderRepo) ListExpiring(ctx context.Context, tx repository.Tx, withinDays int) ([]*model.Order, error) {
	const q = `
SELECT ` + orderColumns + `
  FROM orders
 WHERE status = 'fulfilled'
   AND expires_at IS NOT NULL
   AND expires_at <= NOW() + ($1::int * INTERVAL '1 day')
 ORDER BY expires_at;`
	return r.list(ctx, tx, q, withinDays)
}

func (r *orderRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.OrderStatus]int, error) {
	const q = `SELECT status, COUNT(*) FROM orders GROUP BY status;`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	defer rows.Close()
	out := make(map[model.OrderStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out[model.OrderStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *orderRepo) list(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.Order, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var out []*model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.Reference, &o.CustomerID, &o.Platform, &o.PaymentRef, &o.Status, &o.AccountID, &o.FulfilledAt, &o.ExpiresAt, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &o, nil
}
