package repository

import (
	"context"

	"streamshop/internal/domain/model"
)

// CustomerRepository persists customers keyed by phone number.
type CustomerRepository interface {
	Save(ctx context.Context, tx Tx, customer *model.Customer) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Customer, error)
	FindByPhone(ctx context.Context, tx Tx, phone string) (*model.Customer, error)
	Count(ctx context.Context, tx Tx) (int, error)
}
