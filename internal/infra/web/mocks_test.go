package web_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"streamshop/internal/domain"
	"streamshop/internal/domain/model"
	"streamshop/internal/domain/ports/repository"
)

// In-memory repositories backing the handler tests. Insertion order
// stands in for created_at ordering.

type memAccountRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Account
	order []string
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{store: make(map[string]*model.Account)}
}

var _ repository.AccountRepository = (*memAccountRepo)(nil)

func (m *memAccountRepo) Save(ctx context.Context, tx repository.Tx, a *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[a.ID]; !ok {
		m.order = append(m.order, a.ID)
	}
	cp := *a
	m.store[a.ID] = &cp
	return nil
}

func (m *memAccountRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAccountRepo) FindOldestAvailableForUpdate(ctx context.Context, tx repository.Tx, platform string) (*model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.order {
		a := m.store[id]
		if a.Platform == platform && a.Status == model.AccountStatusAvailable {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrNoInventory
}

func (m *memAccountRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Account, 0, len(m.order))
	for _, id := range m.order {
		cp := *m.store[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memAccountRepo) ListByPlatform(ctx context.Context, tx repository.Tx, platform string) ([]*model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Account
	for _, id := range m.order {
		if a := m.store[id]; a.Platform == platform {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memAccountRepo) Platforms(ctx context.Context, tx repository.Tx) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, id := range m.order {
		a := m.store[id]
		if a.Status == model.AccountStatusRetired || seen[a.Platform] {
			continue
		}
		seen[a.Platform] = true
		out = append(out, a.Platform)
	}
	return out, nil
}

func (m *memAccountRepo) CountAvailableByPlatform(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]int)
	for _, a := range m.store {
		if a.Status == model.AccountStatusAvailable {
			out[a.Platform]++
		}
	}
	return out, nil
}

type memOrderRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Order
	order []string
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{store: make(map[string]*model.Order)}
}

var _ repository.OrderRepository = (*memOrderRepo)(nil)

func (m *memOrderRepo) Save(ctx context.Context, tx repository.Tx, o *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[o.ID]; !ok {
		m.order = append(m.order, o.ID)
	}
	cp := *o
	m.store[o.ID] = &cp
	return nil
}

func (m *memOrderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrderRepo) FindByReference(ctx context.Context, tx repository.Tx, reference string) (*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.store {
		if o.Reference == reference {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memOrderRepo) ListByStatus(ctx context.Context, tx repository.Tx, statuses ...model.OrderStatus) ([]*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Order
	for _, id := range m.order {
		o := m.store[id]
		for _, s := range statuses {
			if o.Status == s {
				cp := *o
				out = append(out, &cp)
				break
			}
		}
	}
	return out, nil
}

func (m *memOrderRepo) ListByCustomer(ctx context.Context, tx repository.Tx, customerID string) ([]*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Order
	for _, id := range m.order {
		if o := m.store[id]; o.CustomerID == customerID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memOrderRepo) ListExpiring(ctx context.Context, tx repository.Tx, withinDays int) ([]*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cut := time.Now().Add(time.Duration(withinDays) * 24 * time.Hour)
	var out []*model.Order
	for _, id := range m.order {
		o := m.store[id]
		if o.Status == model.OrderStatusFulfilled && o.ExpiresAt != nil && o.ExpiresAt.Before(cut) {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memOrderRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.OrderStatus]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[model.OrderStatus]int)
	for _, o := range m.store {
		out[o.Status]++
	}
	return out, nil
}

type memCustomerRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{store: make(map[string]*model.Customer)}
}

var _ repository.CustomerRepository = (*memCustomerRepo)(nil)

func (m *memCustomerRepo) Save(ctx context.Context, tx repository.Tx, c *model.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.store[c.ID] = &cp
	return nil
}

func (m *memCustomerRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCustomerRepo) FindByPhone(ctx context.Context, tx repository.Tx, phone string) (*model.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.store {
		if c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCustomerRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}
