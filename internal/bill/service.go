package bill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Raghav1000000000/cafe/internal/customer"
	"github.com/Raghav1000000000/cafe/internal/notify"
	"github.com/Raghav1000000000/cafe/internal/order"
	"github.com/Raghav1000000000/cafe/internal/phone"
)

var (
	ErrNotFound = errors.New("bill not found")
	// ErrInvalidItem covers non-positive quantities and negative prices.
	ErrInvalidItem = errors.New("invalid bill item")
	// ErrOrderNotBillable is returned when the named source order is not in
	// a billable status (READY or BILL_REQUESTED).
	ErrOrderNotBillable = errors.New("order cannot be billed in its current status")
)

// Repository is the slice of the store this package needs.
type Repository interface {
	FindBill(ctx context.Context, id string) (*Bill, error)
	InsertBill(ctx context.Context, b *Bill) error
	ListBills(ctx context.Context) ([]Bill, error)
	ListBillsByCustomer(ctx context.Context, normalizedPhone string) ([]Bill, error)
}

// OrderStore gives the bill service access to a source order for the
// bill-and-close flow.
type OrderStore interface {
	FindOrder(ctx context.Context, id string) (*order.Order, error)
	UpsertOrder(ctx context.Context, o *order.Order) error
}

// CustomerUpserter records last-known customer details when a bill carries
// a phone number.
type CustomerUpserter interface {
	UpsertCustomer(ctx context.Context, c *customer.Customer) error
}

// CreateInput carries the caller-supplied fields for a new bill. OrderID is
// optional: when set, the source order must be billable and is completed
// after the bill is stored.
type CreateInput struct {
	TableNumber   *int
	CustomerName  string
	CustomerPhone string
	Items         []order.Item
	OrderID       string
}

type Service interface {
	Create(ctx context.Context, in CreateInput) (*Bill, error)
	Get(ctx context.Context, id string) (*Bill, error)
	List(ctx context.Context, rawPhone string) ([]Bill, error)
}

type service struct {
	repo       Repository
	orders     OrderStore
	customers  CustomerUpserter
	notifier   notify.Notifier
	normalizer *phone.Normalizer
	now        func() int64
}

func NewService(repo Repository, orders OrderStore, customers CustomerUpserter, notifier notify.Notifier, normalizer *phone.Normalizer) Service {
	return &service{
		repo:       repo,
		orders:     orders,
		customers:  customers,
		notifier:   notifier,
		normalizer: normalizer,
		now:        func() int64 { return time.Now().UnixMilli() },
	}
}

func (s *service) Create(ctx context.Context, in CreateInput) (*Bill, error) {
	if len(in.Items) == 0 {
		log.Warn().Msg("service: attempt to create bill with no items")
		return nil, ErrNoItems
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for item %q must be positive", ErrInvalidItem, item.Name)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("%w: price for item %q must be non-negative", ErrInvalidItem, item.Name)
		}
	}

	var normalizedPhone string
	if in.CustomerPhone != "" {
		if !s.normalizer.IsValid(in.CustomerPhone) {
			return nil, phone.ErrInvalidPhone
		}
		normalizedPhone = s.normalizer.Normalize(in.CustomerPhone)
	}

	// The source order, when named, must be billable before anything is
	// written.
	var src *order.Order
	if in.OrderID != "" {
		var err error
		src, err = s.orders.FindOrder(ctx, in.OrderID)
		if err != nil {
			if errors.Is(err, order.ErrNotFound) {
				return nil, order.ErrNotFound
			}
			return nil, fmt.Errorf("service: failed to fetch order %s for billing: %w", in.OrderID, err)
		}
		if !src.Status.Billable() {
			log.Warn().Str("order_id", src.ID).Stringer("status", src.Status).Msg("service: rejected bill for unbillable order")
			return nil, fmt.Errorf("%w: %s", ErrOrderNotBillable, src.Status)
		}
	}

	totals, err := Compute(in.Items)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		log.Error().Err(err).Msg("service: failed to generate bill id")
		return nil, fmt.Errorf("service: failed to generate bill id: %w", err)
	}

	name := in.CustomerName
	if name == "" {
		name = order.PlaceholderCustomerName
	}

	b := &Bill{
		ID:            id.String(),
		TableNumber:   in.TableNumber,
		CustomerName:  name,
		CustomerPhone: normalizedPhone,
		Items:         append([]order.Item(nil), in.Items...),
		Totals:        totals,
		CreatedAt:     s.now(),
	}

	if err := s.repo.InsertBill(ctx, b); err != nil {
		log.Error().Err(err).Msg("service: failed to save bill")
		return nil, fmt.Errorf("service: failed to save bill: %w", err)
	}

	// Bill-and-close: the bill is already stored, so a failure here only
	// leaves the order open; it never takes the bill down with it.
	if src != nil {
		now := s.now()
		src.Status = order.StatusCompleted
		src.UpdatedAt = &now
		if err := s.orders.UpsertOrder(ctx, src); err != nil {
			log.Warn().Err(err).Str("order_id", src.ID).Msg("service: failed to complete order after billing")
		}
	}

	if normalizedPhone != "" {
		cust := &customer.Customer{
			Phone:       normalizedPhone,
			Name:        in.CustomerName,
			TableNumber: in.TableNumber,
		}
		if err := s.customers.UpsertCustomer(ctx, cust); err != nil {
			log.Warn().Err(err).Str("phone", normalizedPhone).Msg("service: failed to record customer for bill")
		}

		notify.Dispatch(s.notifier, normalizedPhone,
			fmt.Sprintf("Thanks %s! Your bill is ready. Total due: %s", name, FormatAmount(b.Total)))
	}

	log.Info().Str("bill_id", b.ID).Int64("total", b.Total).Msg("service: bill created")

	return b, nil
}

func (s *service) Get(ctx context.Context, id string) (*Bill, error) {
	b, err := s.repo.FindBill(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch bill %s: %w", id, err)
	}
	return b, nil
}

func (s *service) List(ctx context.Context, rawPhone string) ([]Bill, error) {
	if rawPhone == "" {
		bills, err := s.repo.ListBills(ctx)
		if err != nil {
			return nil, fmt.Errorf("service: failed to list bills: %w", err)
		}
		return bills, nil
	}

	if !s.normalizer.IsValid(rawPhone) {
		return nil, phone.ErrInvalidPhone
	}
	bills, err := s.repo.ListBillsByCustomer(ctx, s.normalizer.Normalize(rawPhone))
	if err != nil {
		return nil, fmt.Errorf("service: failed to list bills by customer: %w", err)
	}
	return bills, nil
}
