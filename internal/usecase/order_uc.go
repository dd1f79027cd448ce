package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"streamshop/internal/domain"
	"streamshop/internal/domain/model"
	"streamshop/internal/domain/ports/adapter"
	"streamshop/internal/domain/ports/repository"
)

// OrderUseCase drives the order fulfillment lifecycle:
// pending -> paid -> fulfilled, with cancellation possible until a
// terminal state is reached. Account assignment runs inside a database
// transaction so two concurrent assignments can never claim the same
// inventory unit.
type OrderUseCase struct {
	orders           repository.OrderRepository
	accounts         repository.AccountRepository
	customers        repository.CustomerRepository
	tm               repository.TransactionManager
	notifier         adapter.AdminNotifier
	subscriptionDays int
	log              *zerolog.Logger
}

func NewOrderUseCase(
	orders repository.OrderRepository,
	accounts repository.AccountRepository,
	customers repository.CustomerRepository,
	tm repository.TransactionManager,
	notifier adapter.AdminNotifier,
	subscriptionDays int,
	logger *zerolog.Logger,
) *OrderUseCase {
	compLog := logger.With().Str("component", "OrderUseCase").Logger()
	return &OrderUseCase{
		orders:           orders,
		accounts:         accounts,
		customers:        customers,
		tm:               tm,
		notifier:         notifier,
		subscriptionDays: subscriptionDays,
		log:              &compLog,
	}
}

// withTx runs fn inside a transaction when a TransactionManager is wired,
// and directly against the repositories otherwise (in-memory tests).
func (uc *OrderUseCase) withTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	if uc.tm == nil {
		return fn(ctx, repository.NoTX)
	}
	return uc.tm.WithTx(ctx, pgx.TxOptions{}, fn)
}

// Create registers a pending order for the customer and notifies the
// administrator. The platform must match an existing inventory category;
// availability is not required yet, assignment checks that later.
func (uc *OrderUseCase) Create(ctx context.Context, customerID, platform, paymentRef string) (*model.Order, error) {
	platform = strings.TrimSpace(platform)
	if customerID == "" || platform == "" {
		return nil, domain.ErrValidation
	}
	customer, err := uc.customers.FindByID(ctx, repository.NoTX, customerID)
	if err != nil {
		return nil, err
	}

	known, err := uc.accounts.Platforms(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	found := false
	for _, p := range known {
		if strings.EqualFold(p, platform) {
			platform = p
			found = true
			break
		}
	}
	if !found {
		return nil, domain.ErrValidation
	}

	order, err := model.NewOrder(uuid.NewString(), ulid.Make().String(), customer.ID, platform, paymentRef)
	if err != nil {
		return nil, err
	}
	if err := uc.orders.Save(ctx, repository.NoTX, order); err != nil {
		return nil, err
	}

	// Best effort: a broken mail server must not fail the order.
	if err := uc.notifier.OrderCreated(ctx, order, customer); err != nil {
		uc.log.Warn().Err(err).Str("order_id", order.ID).Msg("admin notification failed")
	}
	return order, nil
}

// MarkPaid records the admin's manual payment confirmation.
func (uc *OrderUseCase) MarkPaid(ctx context.Context, orderID string) (*model.Order, error) {
	var order *model.Order
	err := uc.withTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		o, err := uc.orders.FindByID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if o.Status != model.OrderStatusPending {
			return domain.ErrInvalidState
		}
		if err := o.Transition(model.OrderStatusPaid); err != nil {
			return err
		}
		if err := uc.orders.Save(ctx, tx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Assign claims the earliest-loaded available account for the order's
// platform and fulfills the order. Expiry is fulfillment time plus the
// configured subscription duration. The row lock taken by
// FindOldestAvailableForUpdate holds until commit, so the same account is
// invisible to any concurrent assignment.
func (uc *OrderUseCase) Assign(ctx context.Context, orderID string) (*model.Order, error) {
	var order *model.Order
	err := uc.withTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		o, err := uc.orders.FindByID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if !o.CanTransition(model.OrderStatusFulfilled) {
			return domain.ErrInvalidState
		}
		account, err := uc.accounts.FindOldestAvailableForUpdate(ctx, tx, o.Platform)
		if err != nil {
			return err
		}
		if err := account.Claim(o.ID); err != nil {
			return err
		}
		if err := o.Fulfill(account.ID, time.Now(), uc.subscriptionDays); err != nil {
			return err
		}
		if err := uc.accounts.Save(ctx, tx, account); err != nil {
			return err
		}
		if err := uc.orders.Save(ctx, tx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("order_id", order.ID).
		Str("platform", order.Platform).
		Time("expires_at", *order.ExpiresAt).
		Msg("order fulfilled")
	return order, nil
}

// Cancel aborts an order before fulfillment and releases any account that
// was already linked back to the available pool.
func (uc *OrderUseCase) Cancel(ctx context.Context, orderID string) (*model.Order, error) {
	var order *model.Order
	err := uc.withTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		o, err := uc.orders.FindByID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if err := o.Transition(model.OrderStatusCancelled); err != nil {
			return err
		}
		if o.AccountID != nil {
			account, err := uc.accounts.FindByID(ctx, tx, *o.AccountID)
			if err != nil {
				return err
			}
			account.Release()
			if err := uc.accounts.Save(ctx, tx, account); err != nil {
				return err
			}
			o.AccountID = nil
		}
		if err := uc.orders.Save(ctx, tx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Get returns an order by internal ID.
func (uc *OrderUseCase) Get(ctx context.Context, orderID string) (*model.Order, error) {
	return uc.orders.FindByID(ctx, repository.NoTX, orderID)
}

// GetByReference returns an order by its customer-facing code.
func (uc *OrderUseCase) GetByReference(ctx context.Context, reference string) (*model.Order, error) {
	return uc.orders.FindByReference(ctx, repository.NoTX, reference)
}

// ListOpen returns orders awaiting admin action, oldest first.
func (uc *OrderUseCase) ListOpen(ctx context.Context) ([]*model.Order, error) {
	return uc.orders.ListByStatus(ctx, repository.NoTX, model.OrderStatusPending, model.OrderStatusPaid)
}

// ListByCustomer returns all orders of one customer.
func (uc *OrderUseCase) ListByCustomer(ctx context.Context, customerID string) ([]*model.Order, error) {
	return uc.orders.ListByCustomer(ctx, repository.NoTX, customerID)
}

// ListExpiring returns fulfilled orders whose subscription lapses within
// the given number of days.
func (uc *OrderUseCase) ListExpiring(ctx context.Context, withinDays int) ([]*model.Order, error) {
	return uc.orders.ListExpiring(ctx, repository.NoTX, withinDays)
}
