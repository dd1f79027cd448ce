package repository

import (
	"context"

	"streamshop/internal/domain/model"
)

// AccountRepository persists inventory units.
type AccountRepository interface {
	Save(ctx context.Context, tx Tx, account *model.Account) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Account, error)
	// FindOldestAvailableForUpdate returns the earliest-loaded available
	// account for the platform, row-locked for the duration of tx so two
	// concurrent assignments can never pick the same unit. Returns
	// ErrNoInventory when none is free.
	FindOldestAvailableForUpdate(ctx context.Context, tx Tx, platform string) (*model.Account, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.Account, error)
	ListByPlatform(ctx context.Context, tx Tx, platform string) ([]*model.Account, error)
	// Platforms lists distinct platforms of non-retired accounts.
	Platforms(ctx context.Context, tx Tx) ([]string, error)
	// CountAvailableByPlatform powers the public catalog.
	CountAvailableByPlatform(ctx context.Context, tx Tx) (map[string]int, error)
}
