package bill

import (
	"errors"

	"github.com/Raghav1000000000/cafe/internal/order"
)

// Charge rates applied on top of the subtotal, in percent.
const (
	taxRatePercent     = 5
	serviceRatePercent = 2
)

// ErrNoItems is returned when a bill is requested for an empty item list.
// An empty list is an input error, never a zero-valued bill.
var ErrNoItems = errors.New("bill must contain at least one item")

// Compute derives the bill totals from items. Pure integer arithmetic on
// minor currency units; no I/O. Tax and service charge are each computed
// from the subtotal independently so they can be reproduced from it alone.
func Compute(items []order.Item) (Totals, error) {
	if len(items) == 0 {
		return Totals{}, ErrNoItems
	}

	var subtotal int64
	for _, item := range items {
		subtotal += item.Price * int64(item.Quantity)
	}

	tax := roundPercent(subtotal, taxRatePercent)
	service := roundPercent(subtotal, serviceRatePercent)

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Service:  service,
		Total:    subtotal + tax + service,
	}, nil
}

// roundPercent returns pct percent of amount, rounded half away from zero.
// Subtotals are never negative, so adding half the divisor before the
// integer division gives exactly that rounding.
func roundPercent(amount, pct int64) int64 {
	return (amount*pct + 50) / 100
}
