package repository

import (
	"context"

	"streamshop/internal/domain/model"
)

// OrderRepository persists orders.
type OrderRepository interface {
	Save(ctx context.Context, tx Tx, order *model.Order) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Order, error)
	FindByReference(ctx context.Context, tx Tx, reference string) (*model.Order, error)
	ListByStatus(ctx context.Context, tx Tx, statuses ...model.OrderStatus) ([]*model.Order, error)
	ListByCustomer(ctx context.Context, tx Tx, customerID string) ([]*model.Order, error)
	// ListExpiring returns fulfilled orders whose subscription lapses
	// within the given number of days, soonest first.
	ListExpiring(ctx context.Context, tx Tx, withinDays int) ([]*model.Order, error)
	CountByStatus(ctx context.Context, tx Tx) (map[model.OrderStatus]int, error)
}
