package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"streamshop/internal/domain/model"
	"streamshop/internal/domain/ports/repository"
)

// InventoryUseCase manages the account stock the admin sells from.
type InventoryUseCase struct {
	accounts repository.AccountRepository
}

func NewInventoryUseCase(accounts repository.AccountRepository) *InventoryUseCase {
	return &InventoryUseCase{accounts: accounts}
}

// Load adds one account to the stock.
func (uc *InventoryUseCase) Load(ctx context.Context, platform, credential, notes string) (*model.Account, error) {
	account, err := model.NewAccount(uuid.NewString(), platform, credential, notes)
	if err != nil {
		return nil, err
	}
	if err := uc.accounts.Save(ctx, repository.NoTX, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Update edits an account's platform, credential or notes. Blank fields
// keep their current value, mirroring the admin edit form.
func (uc *InventoryUseCase) Update(ctx context.Context, id, platform, credential, notes string) (*model.Account, error) {
	account, err := uc.accounts.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if p := strings.TrimSpace(platform); p != "" {
		account.Platform = p
	}
	if c := strings.TrimSpace(credential); c != "" {
		account.Credential = c
	}
	account.Notes = strings.TrimSpace(notes)
	if err := uc.accounts.Save(ctx, repository.NoTX, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Retire takes an account off sale. Assigned accounts are refused so the
// audit trail of past sales stays intact.
func (uc *InventoryUseCase) Retire(ctx context.Context, id string) error {
	account, err := uc.accounts.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return err
	}
	if err := account.Retire(); err != nil {
		return err
	}
	return uc.accounts.Save(ctx, repository.NoTX, account)
}

// Get returns one account.
func (uc *InventoryUseCase) Get(ctx context.Context, id string) (*model.Account, error) {
	return uc.accounts.FindByID(ctx, repository.NoTX, id)
}

// List returns the whole stock.
func (uc *InventoryUseCase) List(ctx context.Context) ([]*model.Account, error) {
	return uc.accounts.ListAll(ctx, repository.NoTX)
}

// Catalog returns the platforms currently purchasable: names mapped to
// their available-unit count, zero-stock platforms excluded.
func (uc *InventoryUseCase) Catalog(ctx context.Context) (map[string]int, error) {
	counts, err := uc.accounts.CountAvailableByPlatform(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	for platform, n := range counts {
		if n <= 0 {
			delete(counts, platform)
		}
	}
	return counts, nil
}

// Platforms lists every known platform, stocked or not.
func (uc *InventoryUseCase) Platforms(ctx context.Context) ([]string, error) {
	return uc.accounts.Platforms(ctx, repository.NoTX)
}
