package mail

import (
	"context"
	"sync"

	"streamshop/internal/domain/model"
	"streamshop/internal/domain/ports/adapter"
)

var _ adapter.AdminNotifier = (*NoopNotifier)(nil)

// NoopNotifier records notifications in memory. Used in tests and when
// SMTP is not configured.
type NoopNotifier struct {
	mu      sync.Mutex
	Orders  []*model.Order
	Digests [][]*model.Order
}

func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

func (n *NoopNotifier) OrderCreated(ctx context.Context, order *model.Order, customer *model.Customer) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Orders = append(n.Orders, order)
	return nil
}

func (n *NoopNotifier) ExpiryDigest(ctx context.Context, orders []*model.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Digests = append(n.Digests, orders)
	return nil
}
