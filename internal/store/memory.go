package store

import (
	"context"
	"sync"
	"time"

	"github.com/Raghav1000000000/cafe/internal/bill"
	"github.com/Raghav1000000000/cafe/internal/customer"
	"github.com/Raghav1000000000/cafe/internal/menu"
	"github.com/Raghav1000000000/cafe/internal/order"
)

// Memory is the in-process backend. It serves the facade's degraded mode
// and runs the whole system when no database is configured. Listings come
// back in insertion order. The mutex guards the maps themselves; there is
// no atomicity across calls, so concurrent read-then-write sequences
// resolve as last write wins.
type Memory struct {
	mu sync.RWMutex

	orders   map[string]*order.Order
	orderIDs []string

	bills   map[string]*bill.Bill
	billIDs []string

	customers      map[string]*customer.Customer
	customerPhones []string

	menuItems   map[string]*menu.Item
	menuItemIDs []string

	now func() int64
}

func NewMemory() *Memory {
	return &Memory{
		orders:    make(map[string]*order.Order),
		bills:     make(map[string]*bill.Bill),
		customers: make(map[string]*customer.Customer),
		menuItems: make(map[string]*menu.Item),
		now:       func() int64 { return time.Now().UnixMilli() },
	}
}

func (m *Memory) FindOrder(ctx context.Context, id string) (*order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (m *Memory) UpsertOrder(ctx context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.orders[o.ID]; !ok {
		m.orderIDs = append(m.orderIDs, o.ID)
	}
	m.orders[o.ID] = cloneOrder(o)
	return nil
}

func (m *Memory) ListOrders(ctx context.Context, filter order.Filter) ([]order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	orders := make([]order.Order, 0, len(m.orderIDs))
	for _, id := range m.orderIDs {
		o := m.orders[id]
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.TableNumber != nil && (o.TableNumber == nil || *o.TableNumber != *filter.TableNumber) {
			continue
		}
		orders = append(orders, *cloneOrder(o))
	}
	return orders, nil
}

func (m *Memory) FindBill(ctx context.Context, id string) (*bill.Bill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.bills[id]
	if !ok {
		return nil, bill.ErrNotFound
	}
	return cloneBill(b), nil
}

func (m *Memory) InsertBill(ctx context.Context, b *bill.Bill) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.bills[b.ID]; !ok {
		m.billIDs = append(m.billIDs, b.ID)
	}
	m.bills[b.ID] = cloneBill(b)
	return nil
}

func (m *Memory) ListBills(ctx context.Context) ([]bill.Bill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bills := make([]bill.Bill, 0, len(m.billIDs))
	for _, id := range m.billIDs {
		bills = append(bills, *cloneBill(m.bills[id]))
	}
	return bills, nil
}

func (m *Memory) ListBillsByCustomer(ctx context.Context, phone string) ([]bill.Bill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bills := make([]bill.Bill, 0)
	for _, id := range m.billIDs {
		if b := m.bills[id]; b.CustomerPhone == phone {
			bills = append(bills, *cloneBill(b))
		}
	}
	return bills, nil
}

// UpsertCustomer merges into the stored record: name and table number are
// overwritten only when provided, verifiedAt only when set, createdAt
// never changes after the first insert, updatedAt always refreshes.
func (m *Memory) UpsertCustomer(ctx context.Context, c *customer.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	existing, ok := m.customers[c.Phone]
	if !ok {
		stored := cloneCustomer(c)
		if stored.CreatedAt == 0 {
			stored.CreatedAt = now
		}
		stored.UpdatedAt = now
		m.customers[c.Phone] = stored
		m.customerPhones = append(m.customerPhones, c.Phone)
		return nil
	}

	if c.Name != "" {
		existing.Name = c.Name
	}
	if c.TableNumber != nil {
		tn := *c.TableNumber
		existing.TableNumber = &tn
	}
	if c.VerifiedAt != nil {
		ts := *c.VerifiedAt
		existing.VerifiedAt = &ts
	}
	existing.UpdatedAt = now
	return nil
}

func (m *Memory) FindCustomer(ctx context.Context, phone string) (*customer.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.customers[phone]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return cloneCustomer(c), nil
}

func (m *Memory) ListCustomers(ctx context.Context) ([]customer.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	customers := make([]customer.Customer, 0, len(m.customerPhones))
	for _, phone := range m.customerPhones {
		customers = append(customers, *cloneCustomer(m.customers[phone]))
	}
	return customers, nil
}

func (m *Memory) FindMenuItem(ctx context.Context, id string) (*menu.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.menuItems[id]
	if !ok {
		return nil, menu.ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (m *Memory) UpsertMenuItem(ctx context.Context, item *menu.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.menuItems[item.ID]; !ok {
		m.menuItemIDs = append(m.menuItemIDs, item.ID)
	}
	clone := *item
	m.menuItems[item.ID] = &clone
	return nil
}

func (m *Memory) ListMenuItems(ctx context.Context) ([]menu.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]menu.Item, 0, len(m.menuItemIDs))
	for _, id := range m.menuItemIDs {
		items = append(items, *m.menuItems[id])
	}
	return items, nil
}

func (m *Memory) DeleteMenuItem(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.menuItems[id]; !ok {
		return menu.ErrNotFound
	}
	delete(m.menuItems, id)
	for i, existing := range m.menuItemIDs {
		if existing == id {
			m.menuItemIDs = append(m.menuItemIDs[:i], m.menuItemIDs[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

// Stored records are value copies so later caller-side mutation cannot
// reach the store, and reads hand out copies for the same reason.

func cloneOrder(o *order.Order) *order.Order {
	clone := *o
	clone.Items = append([]order.Item(nil), o.Items...)
	if o.TableNumber != nil {
		tn := *o.TableNumber
		clone.TableNumber = &tn
	}
	if o.UpdatedAt != nil {
		ts := *o.UpdatedAt
		clone.UpdatedAt = &ts
	}
	return &clone
}

func cloneBill(b *bill.Bill) *bill.Bill {
	clone := *b
	clone.Items = append([]order.Item(nil), b.Items...)
	if b.TableNumber != nil {
		tn := *b.TableNumber
		clone.TableNumber = &tn
	}
	return &clone
}

func cloneCustomer(c *customer.Customer) *customer.Customer {
	clone := *c
	if c.TableNumber != nil {
		tn := *c.TableNumber
		clone.TableNumber = &tn
	}
	if c.VerifiedAt != nil {
		ts := *c.VerifiedAt
		clone.VerifiedAt = &ts
	}
	return &clone
}
