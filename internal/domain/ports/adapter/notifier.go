package adapter

import (
	"context"

	"streamshop/internal/domain/model"
)

// AdminNotifier delivers operational notices to the store administrator.
// Implementations are best-effort: callers log failures and move on, a
// broken mail server must never block the order flow.
type AdminNotifier interface {
	// OrderCreated announces a freshly submitted order.
	OrderCreated(ctx context.Context, order *model.Order, customer *model.Customer) error
	// ExpiryDigest lists fulfilled orders whose subscriptions lapse soon.
	ExpiryDigest(ctx context.Context, orders []*model.Order) error
}
