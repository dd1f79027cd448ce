package model

import (
	"strings"
	"time"

	"streamshop/internal/domain"
)

// Customer is identified by phone number; the storefront has no customer
// passwords.
type Customer struct {
	ID        string // UUID
	Phone     string
	Name      string
	CreatedAt time.Time
}

func NewCustomer(id, phone, name string) (*Customer, error) {
	phone = strings.TrimSpace(phone)
	name = strings.TrimSpace(name)
	if id == "" || phone == "" || name == "" {
		return nil, domain.ErrValidation
	}
	return &Customer{
		ID:        id,
		Phone:     phone,
		Name:      name,
		CreatedAt: time.Now(),
	}, nil
}
