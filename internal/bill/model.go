// Package bill turns order line items into immutable, fully computed bill
// records: subtotal, tax and service charge in minor currency units.
package bill

import (
	"fmt"

	"github.com/Raghav1000000000/cafe/internal/order"
)

// Bill is the persisted bill record. It snapshots the table, customer and
// items at generation time; there is no update path once created. Field
// names and epoch-millisecond timestamps are part of the wire contract.
type Bill struct {
	ID            string       `json:"id"`
	TableNumber   *int         `json:"tableNumber,omitempty"`
	CustomerName  string       `json:"customerName"`
	CustomerPhone string       `json:"customerPhone,omitempty"`
	Items         []order.Item `json:"items"`
	Totals
	CreatedAt int64 `json:"createdAt"`
}

// Totals is the deterministic arithmetic part of a bill.
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Service  int64 `json:"service"`
	Total    int64 `json:"total"`
}

// FormatAmount renders a minor-unit amount as a major.minor string for
// human-facing messages, e.g. 257 -> "2.57".
func FormatAmount(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}
