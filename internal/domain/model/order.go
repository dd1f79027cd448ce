package model

import (
	"strings"
	"time"

	"streamshop/internal/domain"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusFulfilled OrderStatus = "fulfilled"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// orderTransitions is the full set of legal status edges. Fulfilled and
// cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusPaid, OrderStatusFulfilled, OrderStatusCancelled},
	OrderStatusPaid:    {OrderStatusFulfilled, OrderStatusCancelled},
}

// Order tracks a customer's request for one platform account through its
// lifecycle. Reference is the customer-facing code (lexically time-sorted
// ULID); ID is the internal key.
type Order struct {
	ID          string // UUID
	Reference   string // ULID shown to the customer
	CustomerID  string
	Platform    string
	PaymentRef  string // customer-entered transfer reference, may be empty
	Status      OrderStatus
	AccountID   *string    // nil until fulfilled
	FulfilledAt *time.Time // nil until fulfilled
	ExpiresAt   *time.Time // FulfilledAt + subscription duration
	CreatedAt   time.Time
}

// NewOrder creates a pending order with no account assigned.
func NewOrder(id, reference, customerID, platform, paymentRef string) (*Order, error) {
	platform = strings.TrimSpace(platform)
	if id == "" || reference == "" || customerID == "" || platform == "" {
		return nil, domain.ErrValidation
	}
	return &Order{
		ID:         id,
		Reference:  reference,
		CustomerID: customerID,
		Platform:   platform,
		PaymentRef: strings.TrimSpace(paymentRef),
		Status:     OrderStatusPending,
		CreatedAt:  time.Now(),
	}, nil
}

// CanTransition reports whether moving to the target status is a legal
// edge from the current one.
func (o *Order) CanTransition(to OrderStatus) bool {
	for _, next := range orderTransitions[o.Status] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves the order to the target status or fails with
// ErrInvalidState. It only changes Status; side effects (account link,
// expiry) belong to the use case.
func (o *Order) Transition(to OrderStatus) error {
	if !o.CanTransition(to) {
		return domain.ErrInvalidState
	}
	o.Status = to
	return nil
}

// Fulfill links the chosen account and stamps fulfillment and expiry.
func (o *Order) Fulfill(accountID string, at time.Time, subscriptionDays int) error {
	if err := o.Transition(OrderStatusFulfilled); err != nil {
		return err
	}
	expires := at.Add(time.Duration(subscriptionDays) * 24 * time.Hour)
	o.AccountID = &accountID
	o.FulfilledAt = &at
	o.ExpiresAt = &expires
	return nil
}

// Terminal reports whether the order reached a final state.
func (o *Order) Terminal() bool {
	return o.Status == OrderStatusFulfilled || o.Status == OrderStatusCancelled
}

// Expired reports whether a fulfilled order's subscription has lapsed.
func (o *Order) Expired(now time.Time) bool {
	return o.Status == OrderStatusFulfilled && o.ExpiresAt != nil && o.ExpiresAt.Before(now)
}
