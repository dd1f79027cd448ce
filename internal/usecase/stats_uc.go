package usecase

import (
	"context"

	"streamshop/internal/domain/model"
	"streamshop/internal/domain/ports/repository"
)

// StatsUseCase aggregates counters for the admin dashboard.
type StatsUseCase struct {
	orders    repository.OrderRepository
	accounts  repository.AccountRepository
	customers repository.CustomerRepository
}

func NewStatsUseCase(
	orders repository.OrderRepository,
	accounts repository.AccountRepository,
	customers repository.CustomerRepository,
) *StatsUseCase {
	return &StatsUseCase{orders: orders, accounts: accounts, customers: customers}
}

type StoreTotals struct {
	Customers       int
	OrdersByStatus  map[model.OrderStatus]int
	StockByPlatform map[string]int
}

// Totals collects the dashboard numbers in one call.
func (uc *StatsUseCase) Totals(ctx context.Context) (*StoreTotals, error) {
	customers, err := uc.customers.Count(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	byStatus, err := uc.orders.CountByStatus(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	stock, err := uc.accounts.CountAvailableByPlatform(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	return &StoreTotals{
		Customers:       customers,
		OrdersByStatus:  byStatus,
		StockByPlatform: stock,
	}, nil
}
