package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"streamshop/internal/domain"
	"streamshop/internal/domain/model"
	"streamshop/internal/domain/ports/repository"
)

// Ensure interface compliance
var _ repository.AccountRepository = (*accountRepo)(nil)

type accountRepo struct {
	pool *pgxpool.Pool
}

func NewAccountRepo(pool *pgxpool.Pool) *accountRepo {
	return &accountRepo{pool: pool}
}

const accountColumns = `id, platform, credential, notes, status, order_id, created_at`

func (r *accountRepo) Save(ctx context.Context, tx repository.Tx, a *model.Account) error {
	const q = `
INSERT INTO accounts (id, platform, credential, notes, status, order_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE
  SET platform   = EXCLUDED.platform,
      credential = EXCLUDED.credential,
      notes      = EXCLUDED.notes,
      status     = EXCLUDED.status,
      order_id   = EXCLUDED.order_id;`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	if _, err := ex.Exec(ctx, q, a.ID, a.Platform, a.Credential, a.Notes, a.Status, a.OrderID, a.CreatedAt); err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

func (r *accountRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1;`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	return scanAccount(ex.QueryRow(ctx, q, id))
}

// FindOldestAvailableForUpdate selects the earliest-loaded available unit
// for the platform and locks the row until the surrounding transaction
// ends. SKIP LOCKED makes a concurrent assignment move on to the next
// unit instead of blocking on the same one.
func (r *accountRepo) FindOldestAvailableForUpdate(ctx context.Context, tx repository.Tx, platform string) (*model.Account, error) {
	const q = `
SELECT ` + accountColumns + `
  FROM accounts
 WHERE platform = $1 AND status = $2
 ORDER BY created_at, id
 LIMIT 1
 FOR UPDATE SKIP LOCKED;`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	a, err := scanAccount(ex.QueryRow(ctx, q, platform, model.AccountStatusAvailable))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoInventory
	}
	return a, err
}

func (r *accountRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts ORDER BY platform, status, created_at;`
	return r.list(ctx, tx, q)
}

func (r *accountRepo) ListByPlatform(ctx context.Context, tx repository.Tx, platform string) ([]*model.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE platform = $1 ORDER BY created_at;`
	return r.list(ctx, tx, q, platform)
}

func (r *accountRepo) Platforms(ctx context.Context, tx repository.Tx) ([]string, error) {
	const q = `
SELECT DISTINCT platform
  FROM accounts
 WHERE status <> $1
 ORDER BY platform;`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q, model.AccountStatusRetired)
	if err != nil {
		return nil, fmt.Errorf("list platforms: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *accountRepo) CountAvailableByPlatform(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	const q = `
SELECT platform, COUNT(*)
  FROM accounts
 WHERE status = $1
 GROUP BY platform;`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q, model.AccountStatusAvailable)
	if err != nil {
		return nil, fmt.Errorf("count available accounts: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var platform string
		var n int
		if err := rows.Scan(&platform, &n); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out[platform] = n
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *accountRepo) list(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.Account, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	var out []*model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	var a model.Account
	err := row.Scan(&a.ID, &a.Platform, &a.Credential, &a.Notes, &a.Status, &a.OrderID, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &a, nil
}
