// Package order holds the order entity, its status lifecycle and the order
// operations exposed to the transport layer.
package order

// Item is one line of an order: a menu item reference, its unit price in
// minor currency units and the quantity requested.
type Item struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// Order is the persisted order record. Field names and the epoch-millisecond
// timestamps are part of the wire contract with existing clients, so json
// tags stay camelCase.
type Order struct {
	ID            string `json:"id"`
	TableNumber   *int   `json:"tableNumber,omitempty"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone,omitempty"`
	Items         []Item `json:"items"`
	TotalAmount   int64  `json:"totalAmount"`
	Status        Status `json:"status"`
	CreatedAt     int64  `json:"createdAt"`
	UpdatedAt     *int64 `json:"updatedAt,omitempty"`
}

// PlaceholderCustomerName is used when an order arrives without a name.
const PlaceholderCustomerName = "Guest"

// Filter narrows ListOrders results. Zero values match everything.
type Filter struct {
	Status      Status
	TableNumber *int
}
