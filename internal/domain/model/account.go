package model

import (
	"strings"
	"time"

	"streamshop/internal/domain"
)

type AccountStatus string

const (
	AccountStatusAvailable AccountStatus = "available"
	AccountStatusAssigned  AccountStatus = "assigned"
	AccountStatusRetired   AccountStatus = "retired"
)

// Account is a single sellable credential for a streaming platform.
// Once assigned it is never deleted, only status-flipped, so the sale
// history stays reconstructible.
type Account struct {
	ID         string // UUID
	Platform   string
	Credential string // opaque payload entered by the admin
	Notes      string
	Status     AccountStatus
	OrderID    *string // set while assigned to an order
	CreatedAt  time.Time
}

// NewAccount creates an available inventory unit.
func NewAccount(id, platform, credential, notes string) (*Account, error) {
	platform = strings.TrimSpace(platform)
	if id == "" || platform == "" || strings.TrimSpace(credential) == "" {
		return nil, domain.ErrValidation
	}
	return &Account{
		ID:         id,
		Platform:   platform,
		Credential: credential,
		Notes:      notes,
		Status:     AccountStatusAvailable,
		CreatedAt:  time.Now(),
	}, nil
}

// Claim links the account to an order and flips it to assigned.
func (a *Account) Claim(orderID string) error {
	switch a.Status {
	case AccountStatusAssigned:
		return domain.ErrAccountAssigned
	case AccountStatusRetired:
		return domain.ErrAccountRetired
	}
	a.Status = AccountStatusAssigned
	a.OrderID = &orderID
	return nil
}

// Release returns a claimed account to the available pool.
func (a *Account) Release() {
	a.Status = AccountStatusAvailable
	a.OrderID = nil
}

// Retire removes an account from sale without deleting it. Assigned
// accounts cannot be retired while an order still references them.
func (a *Account) Retire() error {
	if a.Status == AccountStatusAssigned {
		return domain.ErrAccountAssigned
	}
	a.Status = AccountStatusRetired
	return nil
}
