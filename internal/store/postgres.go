package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Raghav1000000000/cafe/internal/bill"
	"github.com/Raghav1000000000/cafe/internal/customer"
	"github.com/Raghav1000000000/cafe/internal/menu"
	"github.com/Raghav1000000000/cafe/internal/order"
)

// Postgres is the persistent backend. Line items ride along as JSONB
// documents and every timestamp is an epoch-millisecond BIGINT, matching
// the wire format exactly.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) FindOrder(ctx context.Context, id string) (*order.Order, error) {
	query := `
		SELECT id, table_number, customer_name, customer_phone, items, total_amount, status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var (
		o     order.Order
		items []byte
	)
	err := p.db.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.TableNumber,
		&o.CustomerName,
		&o.CustomerPhone,
		&items,
		&o.TotalAmount,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("store: failed to select order %s: %w", id, err)
	}

	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("store: failed to decode items for order %s: %w", id, err)
	}
	return &o, nil
}

func (p *Postgres) UpsertOrder(ctx context.Context, o *order.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("store: failed to encode items for order %s: %w", o.ID, err)
	}

	query := `
		INSERT INTO orders (id, table_number, customer_name, customer_phone, items, total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			table_number = EXCLUDED.table_number,
			customer_name = EXCLUDED.customer_name,
			customer_phone = EXCLUDED.customer_phone,
			items = EXCLUDED.items,
			total_amount = EXCLUDED.total_amount,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`

	_, err = p.db.Exec(ctx, query,
		o.ID,
		o.TableNumber,
		o.CustomerName,
		o.CustomerPhone,
		items,
		o.TotalAmount,
		string(o.Status),
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("store: failed to upsert order %s: %w", o.ID, err)
	}
	return nil
}

func (p *Postgres) ListOrders(ctx context.Context, filter order.Filter) ([]order.Order, error) {
	query := `
		SELECT id, table_number, customer_name, customer_phone, items, total_amount, status, created_at, updated_at
		FROM orders
	`

	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.TableNumber != nil {
		args = append(args, *filter.TableNumber)
		conds = append(conds, fmt.Sprintf("table_number = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]order.Order, 0)
	for rows.Next() {
		var (
			o     order.Order
			items []byte
		)
		err := rows.Scan(
			&o.ID,
			&o.TableNumber,
			&o.CustomerName,
			&o.CustomerPhone,
			&items,
			&o.TotalAmount,
			&o.Status,
			&o.CreatedAt,
			&o.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("store: failed to scan order row: %w", err)
		}
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("store: failed to decode items for order %s: %w", o.ID, err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: error iterating orders: %w", err)
	}
	return orders, nil
}

func (p *Postgres) FindBill(ctx context.Context, id string) (*bill.Bill, error) {
	query := `
		SELECT id, table_number, customer_name, customer_phone, items, subtotal, tax, service_charge, total, created_at
		FROM bills
		WHERE id = $1
	`

	var (
		b     bill.Bill
		items []byte
	)
	err := p.db.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.TableNumber,
		&b.CustomerName,
		&b.CustomerPhone,
		&items,
		&b.Subtotal,
		&b.Tax,
		&b.Service,
		&b.Total,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, bill.ErrNotFound
		}
		return nil, fmt.Errorf("store: failed to select bill %s: %w", id, err)
	}

	if err := json.Unmarshal(items, &b.Items); err != nil {
		return nil, fmt.Errorf("store: failed to decode items for bill %s: %w", id, err)
	}
	return &b, nil
}

func (p *Postgres) InsertBill(ctx context.Context, b *bill.Bill) error {
	items, err := json.Marshal(b.Items)
	if err != nil {
		return fmt.Errorf("store: failed to encode items for bill %s: %w", b.ID, err)
	}

	query := `
		INSERT INTO bills (id, table_number, customer_name, customer_phone, items, subtotal, tax, service_charge, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = p.db.Exec(ctx, query,
		b.ID,
		b.TableNumber,
		b.CustomerName,
		b.CustomerPhone,
		items,
		b.Subtotal,
		b.Tax,
		b.Service,
		b.Total,
		b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("store: failed to insert bill %s: %w", b.ID, err)
	}
	return nil
}

func (p *Postgres) ListBills(ctx context.Context) ([]bill.Bill, error) {
	query := `
		SELECT id, table_number, customer_name, customer_phone, items, subtotal, tax, service_charge, total, created_at
		FROM bills
		ORDER BY created_at, id
	`
	return p.queryBills(ctx, query)
}

func (p *Postgres) ListBillsByCustomer(ctx context.Context, phone string) ([]bill.Bill, error) {
	query := `
		SELECT id, table_number, customer_name, customer_phone, items, subtotal, tax, service_charge, total, created_at
		FROM bills
		WHERE customer_phone = $1
		ORDER BY created_at, id
	`
	return p.queryBills(ctx, query, phone)
}

func (p *Postgres) queryBills(ctx context.Context, query string, args ...any) ([]bill.Bill, error) {
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: failed to query bills: %w", err)
	}
	defer rows.Close()

	bills := make([]bill.Bill, 0)
	for rows.Next() {
		var (
			b     bill.Bill
			items []byte
		)
		err := rows.Scan(
			&b.ID,
			&b.TableNumber,
			&b.CustomerName,
			&b.CustomerPhone,
			&items,
			&b.Subtotal,
			&b.Tax,
			&b.Service,
			&b.Total,
			&b.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("store: failed to scan bill row: %w", err)
		}
		if err := json.Unmarshal(items, &b.Items); err != nil {
			return nil, fmt.Errorf("store: failed to decode items for bill %s: %w", b.ID, err)
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: error iterating bills: %w", err)
	}
	return bills, nil
}

// UpsertCustomer merges into the stored row. COALESCE keeps the existing
// name, table number and verification timestamp when the incoming record
// leaves them unset; created_at is written only on first insert.
func (p *Postgres) UpsertCustomer(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (phone, name, table_number, verified_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (phone) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), customers.name),
			table_number = COALESCE(EXCLUDED.table_number, customers.table_number),
			verified_at = COALESCE(EXCLUDED.verified_at, customers.verified_at),
			updated_at = EXCLUDED.updated_at
	`

	_, err := p.db.Exec(ctx, query,
		c.Phone,
		c.Name,
		c.TableNumber,
		c.VerifiedAt,
		time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("store: failed to upsert customer %s: %w", c.Phone, err)
	}
	return nil
}

func (p *Postgres) FindCustomer(ctx context.Context, phone string) (*customer.Customer, error) {
	query := `
		SELECT phone, name, table_number, verified_at, created_at, updated_at
		FROM customers
		WHERE phone = $1
	`

	var c customer.Customer
	err := p.db.QueryRow(ctx, query, phone).Scan(
		&c.Phone,
		&c.Name,
		&c.TableNumber,
		&c.VerifiedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, fmt.Errorf("store: failed to select customer %s: %w", phone, err)
	}
	return &c, nil
}

func (p *Postgres) ListCustomers(ctx context.Context) ([]customer.Customer, error) {
	query := `
		SELECT phone, name, table_number, verified_at, created_at, updated_at
		FROM customers
		ORDER BY created_at, phone
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: failed to query customers: %w", err)
	}
	defer rows.Close()

	customers := make([]customer.Customer, 0)
	for rows.Next() {
		var c customer.Customer
		err := rows.Scan(
			&c.Phone,
			&c.Name,
			&c.TableNumber,
			&c.VerifiedAt,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("store: failed to scan customer row: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: error iterating customers: %w", err)
	}
	return customers, nil
}

func (p *Postgres) FindMenuItem(ctx context.Context, id string) (*menu.Item, error) {
	query := `
		SELECT id, name, price, category, available, created_at, updated_at
		FROM menu_items
		WHERE id = $1
	`

	var item menu.Item
	err := p.db.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.Name,
		&item.Price,
		&item.Category,
		&item.Available,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, menu.ErrNotFound
		}
		return nil, fmt.Errorf("store: failed to select menu item %s: %w", id, err)
	}
	return &item, nil
}

func (p *Postgres) UpsertMenuItem(ctx context.Context, item *menu.Item) error {
	query := `
		INSERT INTO menu_items (id, name, price, category, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			category = EXCLUDED.category,
			available = EXCLUDED.available,
			updated_at = EXCLUDED.updated_at
	`

	_, err := p.db.Exec(ctx, query,
		item.ID,
		item.Name,
		item.Price,
		item.Category,
		item.Available,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("store: failed to upsert menu item %s: %w", item.ID, err)
	}
	return nil
}

func (p *Postgres) ListMenuItems(ctx context.Context) ([]menu.Item, error) {
	query := `
		SELECT id, name, price, category, available, created_at, updated_at
		FROM menu_items
		ORDER BY created_at, id
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: failed to query menu items: %w", err)
	}
	defer rows.Close()

	items := make([]menu.Item, 0)
	for rows.Next() {
		var item menu.Item
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Price,
			&item.Category,
			&item.Available,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("store: failed to scan menu item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: error iterating menu items: %w", err)
	}
	return items, nil
}

func (p *Postgres) DeleteMenuItem(ctx context.Context, id string) error {
	cmdTag, err := p.db.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("store: failed to delete menu item %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return menu.ErrNotFound
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}
