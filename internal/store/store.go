// Package store is the persistence layer: an optional Postgres primary
// with an always-present in-memory fallback. Every call goes to the
// primary first and degrades to the equivalent memory operation when the
// primary fails, so storage trouble is logged and absorbed rather than
// surfaced to callers.
package store

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Raghav1000000000/cafe/internal/bill"
	"github.com/Raghav1000000000/cafe/internal/customer"
	"github.com/Raghav1000000000/cafe/internal/menu"
	"github.com/Raghav1000000000/cafe/internal/order"
)

// Backend is the full operation set a storage implementation provides.
// The service packages consume narrow slices of it through their own
// repository interfaces; Store satisfies all of them.
type Backend interface {
	FindOrder(ctx context.Context, id string) (*order.Order, error)
	UpsertOrder(ctx context.Context, o *order.Order) error
	ListOrders(ctx context.Context, filter order.Filter) ([]order.Order, error)

	FindBill(ctx context.Context, id string) (*bill.Bill, error)
	InsertBill(ctx context.Context, b *bill.Bill) error
	ListBills(ctx context.Context) ([]bill.Bill, error)
	ListBillsByCustomer(ctx context.Context, phone string) ([]bill.Bill, error)

	UpsertCustomer(ctx context.Context, c *customer.Customer) error
	FindCustomer(ctx context.Context, phone string) (*customer.Customer, error)
	ListCustomers(ctx context.Context) ([]customer.Customer, error)

	FindMenuItem(ctx context.Context, id string) (*menu.Item, error)
	UpsertMenuItem(ctx context.Context, item *menu.Item) error
	ListMenuItems(ctx context.Context) ([]menu.Item, error)
	DeleteMenuItem(ctx context.Context, id string) error

	Ping(ctx context.Context) error
}

// notFoundSentinels are domain outcomes, not backend failures. They pass
// through the facade untouched instead of triggering the fallback.
var notFoundSentinels = []error{
	order.ErrNotFound,
	bill.ErrNotFound,
	customer.ErrNotFound,
	menu.ErrNotFound,
}

func recoverable(err error) bool {
	for _, sentinel := range notFoundSentinels {
		if errors.Is(err, sentinel) {
			return false
		}
	}
	return true
}

// Store fans calls out to the primary backend, falling back to memory per
// call. With no primary attached it runs memory-only.
type Store struct {
	primary Backend
	memory  *Memory
}

func New(primary Backend) *Store {
	return &Store{primary: primary, memory: NewMemory()}
}

// Persistent reports whether a primary backend is attached.
func (s *Store) Persistent() bool {
	return s.primary != nil
}

func (s *Store) degraded(op string, err error) {
	log.Warn().Err(err).Str("operation", op).Msg("store: primary backend failed, using memory fallback")
}

func (s *Store) FindOrder(ctx context.Context, id string) (*order.Order, error) {
	if s.primary != nil {
		o, err := s.primary.FindOrder(ctx, id)
		if err == nil || !recoverable(err) {
			return o, err
		}
		s.degraded("FindOrder", err)
	}
	return s.memory.FindOrder(ctx, id)
}

func (s *Store) UpsertOrder(ctx context.Context, o *order.Order) error {
	if s.primary != nil {
		err := s.primary.UpsertOrder(ctx, o)
		if err == nil || !recoverable(err) {
			return err
		}
		s.degraded("UpsertOrder", err)
	}
	return s.memory.UpsertOrder(ctx, o)
}

func (s *Store) ListOrders(ctx context.Context, filter order.Filter) ([]order.Order, error) {
	if s.primary != nil {
		orders, err := s.primary.ListOrders(ctx, filter)
		if err == nil || !recoverable(err) {
			return orders, err
		}
		s.degraded("ListOrders", err)
	}
	return s.memory.ListOrders(ctx, filter)
}

func (s *Store) FindBill(ctx context.Context, id string) (*bill.Bill, error) {
	if s.primary != nil {
		b, err := s.primary.FindBill(ctx, id)
		if err == nil || !recoverable(err) {
			return b, err
		}
		s.degraded("FindBill", err)
	}
	return s.memory.FindBill(ctx, id)
}

func (s *Store) InsertBill(ctx context.Context, b *bill.Bill) error {
	if s.primary != nil {
		err := s.primary.InsertBill(ctx, b)
		if err == nil || !recoverable(err) {
			return err
		}
		s.degraded("InsertBill", err)
	}
	return s.memory.InsertBill(ctx, b)
}

func (s *Store) ListBills(ctx context.Context) ([]bill.Bill, error) {
	if s.primary != nil {
		bills, err := s.primary.ListBills(ctx)
		if err == nil || !recoverable(err) {
			return bills, err
		}
		s.degraded("ListBills", err)
	}
	return s.memory.ListBills(ctx)
}

func (s *Store) ListBillsByCustomer(ctx context.Context, phone string) ([]bill.Bill, error) {
	if s.primary != nil {
		bills, err := s.primary.ListBillsByCustomer(ctx, phone)
		if err == nil || !recoverable(err) {
			return bills, err
		}
		s.degraded("ListBillsByCustomer", err)
	}
	return s.memory.ListBillsByCustomer(ctx, phone)
}

func (s *Store) UpsertCustomer(ctx context.Context, c *customer.Customer) error {
	if s.primary != nil {
		err := s.primary.UpsertCustomer(ctx, c)
		if err == nil || !recoverable(err) {
			return err
		}
		s.degraded("UpsertCustomer", err)
	}
	return s.memory.UpsertCustomer(ctx, c)
}

func (s *Store) FindCustomer(ctx context.Context, phone string) (*customer.Customer, error) {
	if s.primary != nil {
		c, err := s.primary.FindCustomer(ctx, phone)
		if err == nil || !recoverable(err) {
			return c, err
		}
		s.degraded("FindCustomer", err)
	}
	return s.memory.FindCustomer(ctx, phone)
}

func (s *Store) ListCustomers(ctx context.Context) ([]customer.Customer, error) {
	if s.primary != nil {
		customers, err := s.primary.ListCustomers(ctx)
		if err == nil || !recoverable(err) {
			return customers, err
		}
		s.degraded("ListCustomers", err)
	}
	return s.memory.ListCustomers(ctx)
}

func (s *Store) FindMenuItem(ctx context.Context, id string) (*menu.Item, error) {
	if s.primary != nil {
		item, err := s.primary.FindMenuItem(ctx, id)
		if err == nil || !recoverable(err) {
			return item, err
		}
		s.degraded("FindMenuItem", err)
	}
	return s.memory.FindMenuItem(ctx, id)
}

func (s *Store) UpsertMenuItem(ctx context.Context, item *menu.Item) error {
	if s.primary != nil {
		err := s.primary.UpsertMenuItem(ctx, item)
		if err == nil || !recoverable(err) {
			return err
		}
		s.degraded("UpsertMenuItem", err)
	}
	return s.memory.UpsertMenuItem(ctx, item)
}

func (s *Store) ListMenuItems(ctx context.Context) ([]menu.Item, error) {
	if s.primary != nil {
		items, err := s.primary.ListMenuItems(ctx)
		if err == nil || !recoverable(err) {
			return items, err
		}
		s.degraded("ListMenuItems", err)
	}
	return s.memory.ListMenuItems(ctx)
}

func (s *Store) DeleteMenuItem(ctx context.Context, id string) error {
	if s.primary != nil {
		err := s.primary.DeleteMenuItem(ctx, id)
		if err == nil || !recoverable(err) {
			return err
		}
		s.degraded("DeleteMenuItem", err)
	}
	return s.memory.DeleteMenuItem(ctx, id)
}

// Ping reports primary backend health. A memory-only store is always
// healthy.
func (s *Store) Ping(ctx context.Context) error {
	if s.primary == nil {
		return nil
	}
	return s.primary.Ping(ctx)
}
