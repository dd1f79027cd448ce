package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"streamshop/internal/domain"
	"streamshop/internal/domain/model"
	"streamshop/internal/domain/ports/repository"
)

// CustomerUseCase registers and looks up customers by phone number.
type CustomerUseCase struct {
	customers repository.CustomerRepository
}

func NewCustomerUseCase(customers repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{customers: customers}
}

// Register returns the existing customer for the phone or creates one.
// A name is only required on first contact.
func (uc *CustomerUseCase) Register(ctx context.Context, phone, name string) (*model.Customer, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, domain.ErrValidation
	}
	existing, err := uc.customers.FindByPhone(ctx, repository.NoTX, phone)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	customer, err := model.NewCustomer(uuid.NewString(), phone, name)
	if err != nil {
		return nil, err
	}
	if err := uc.customers.Save(ctx, repository.NoTX, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Get returns a customer by ID.
func (uc *CustomerUseCase) Get(ctx context.Context, id string) (*model.Customer, error) {
	return uc.customers.FindByID(ctx, repository.NoTX, id)
}

// ByPhone returns a customer by phone number.
func (uc *CustomerUseCase) ByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	return uc.customers.FindByPhone(ctx, repository.NoTX, strings.TrimSpace(phone))
}
