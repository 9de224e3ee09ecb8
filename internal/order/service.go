package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Raghav1000000000/cafe/internal/customer"
	"github.com/Raghav1000000000/cafe/internal/phone"
)

var (
	ErrNotFound                = errors.New("order not found")
	ErrNoItems                 = errors.New("order must contain at least one item")
	ErrInvalidItem             = errors.New("invalid order item")
	ErrInvalidTableNumber      = errors.New("table number must be positive")
	ErrInvalidTotalAmount      = errors.New("total amount must be non-negative")
	ErrOrderCompleted          = errors.New("order is already completed")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
)

// Repository is the slice of the store this package needs.
type Repository interface {
	FindOrder(ctx context.Context, id string) (*Order, error)
	UpsertOrder(ctx context.Context, o *Order) error
	ListOrders(ctx context.Context, f Filter) ([]Order, error)
}

// CustomerUpserter records last-known customer details when an order
// arrives with a phone number.
type CustomerUpserter interface {
	UpsertCustomer(ctx context.Context, c *customer.Customer) error
}

// CreateInput carries the caller-supplied fields for a new order.
// TotalAmount, when set, overrides the computed item sum.
type CreateInput struct {
	TableNumber   *int
	CustomerName  string
	CustomerPhone string
	Items         []Item
	TotalAmount   *int64
}

type Service interface {
	Create(ctx context.Context, in CreateInput) (*Order, error)
	Get(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, f Filter) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, next Status) (*Order, error)
}

type service struct {
	repo       Repository
	customers  CustomerUpserter
	normalizer *phone.Normalizer
	now        func() int64
}

func NewService(repo Repository, customers CustomerUpserter, normalizer *phone.Normalizer) Service {
	return &service{
		repo:       repo,
		customers:  customers,
		normalizer: normalizer,
		now:        func() int64 { return time.Now().UnixMilli() },
	}
}

func (s *service) Create(ctx context.Context, in CreateInput) (*Order, error) {
	if len(in.Items) == 0 {
		log.Warn().Msg("service: attempt to create order with no items")
		return nil, ErrNoItems
	}

	var computed int64
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for item %q must be positive", ErrInvalidItem, item.Name)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("%w: price for item %q must be non-negative", ErrInvalidItem, item.Name)
		}
		computed += item.Price * int64(item.Quantity)
	}

	if in.TableNumber != nil && *in.TableNumber <= 0 {
		return nil, ErrInvalidTableNumber
	}

	total := computed
	if in.TotalAmount != nil {
		if *in.TotalAmount < 0 {
			return nil, ErrInvalidTotalAmount
		}
		total = *in.TotalAmount
	}

	name := in.CustomerName
	if name == "" {
		name = PlaceholderCustomerName
	}

	var normalizedPhone string
	if in.CustomerPhone != "" {
		if !s.normalizer.IsValid(in.CustomerPhone) {
			return nil, phone.ErrInvalidPhone
		}
		normalizedPhone = s.normalizer.Normalize(in.CustomerPhone)
	}

	id, err := uuid.NewV4()
	if err != nil {
		log.Error().Err(err).Msg("service: failed to generate order id")
		return nil, fmt.Errorf("service: failed to generate order id: %w", err)
	}

	ord := &Order{
		ID:            id.String(),
		TableNumber:   in.TableNumber,
		CustomerName:  name,
		CustomerPhone: normalizedPhone,
		Items:         append([]Item(nil), in.Items...),
		TotalAmount:   total,
		Status:        StatusPending,
		CreatedAt:     s.now(),
	}

	if err := s.repo.UpsertOrder(ctx, ord); err != nil {
		log.Error().Err(err).Msg("service: failed to save order")
		return nil, fmt.Errorf("service: failed to save order: %w", err)
	}

	if normalizedPhone != "" {
		// Secondary write; losing it never fails the order.
		cust := &customer.Customer{
			Phone:       normalizedPhone,
			Name:        in.CustomerName,
			TableNumber: in.TableNumber,
		}
		if err := s.customers.UpsertCustomer(ctx, cust); err != nil {
			log.Warn().Err(err).Str("phone", normalizedPhone).Msg("service: failed to record customer for order")
		}
	}

	log.Info().Str("order_id", ord.ID).Int64("total_amount", ord.TotalAmount).Msg("service: order created")

	return ord, nil
}

func (s *service) Get(ctx context.Context, id string) (*Order, error) {
	ord, err := s.repo.FindOrder(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch order %s: %w", id, err)
	}
	return ord, nil
}

func (s *service) List(ctx context.Context, f Filter) ([]Order, error) {
	orders, err := s.repo.ListOrders(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus advances the order lifecycle. The load-then-store below is
// intentionally not atomic: concurrent updates to the same order interleave
// and the last write wins, matching the store's lack of locking.
func (s *service) UpdateStatus(ctx context.Context, id string, next Status) (*Order, error) {
	current, err := s.repo.FindOrder(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn().Str("order_id", id).Stringer("new_status", next).Msg("service: order not found, cannot update status")
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("service: failed to get order for status update: %w", err)
	}

	if current.Status.Terminal() {
		log.Warn().Str("order_id", id).Stringer("new_status", next).Msg("service: rejected status update on completed order")
		return nil, ErrOrderCompleted
	}

	if !current.Status.CanTransitionTo(next) {
		log.Warn().
			Str("order_id", id).
			Stringer("current_status", current.Status).
			Stringer("new_status", next).
			Msg("service: invalid status transition attempt")
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, current.Status, next)
	}

	now := s.now()
	current.Status = next
	current.UpdatedAt = &now

	if err := s.repo.UpsertOrder(ctx, current); err != nil {
		log.Error().Err(err).Str("order_id", id).Stringer("new_status", next).Msg("service: failed to update order status")
		return nil, fmt.Errorf("service: failed to update order status: %w", err)
	}

	log.Info().Str("order_id", id).Stringer("new_status", next).Msg("service: order status updated")

	return current, nil
}
