// Package report folds a day's bills into revenue and item statistics.
// Aggregation is pure: it reads the bill collection and computes, nothing
// is cached or mutated.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/Raghav1000000000/cafe/internal/bill"
)

const topItemLimit = 10

// ItemSales is one line of the top-items ranking, grouped by item id with
// a fallback to the name when the id is absent.
type ItemSales struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Revenue  int64  `json:"revenue"`
}

// HourlyBucket counts the bills created within one hour of the report day.
type HourlyBucket struct {
	Orders  int   `json:"orders"`
	Revenue int64 `json:"revenue"`
}

type Report struct {
	Date              string                  `json:"date"`
	TotalRevenue      int64                   `json:"totalRevenue"`
	TotalOrders       int                     `json:"totalOrders"`
	TotalCustomers    int                     `json:"totalCustomers"`
	AverageOrderValue int64                   `json:"averageOrderValue"`
	TopItems          []ItemSales             `json:"topItems"`
	HourlyBreakdown   map[string]HourlyBucket `json:"hourlyBreakdown"`
}

// Aggregate computes the report for the calendar day of the given moment,
// in that moment's location. The day window is inclusive on both ends,
// 00:00:00.000 through 23:59:59.999 local time.
//
// totalCustomers counts distinct customer names, not phones. That is how
// the system has always counted and callers depend on the number, so it
// stays name-based.
func Aggregate(bills []bill.Bill, day time.Time) Report {
	loc := day.Location()
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	startMs := start.UnixMilli()
	endMs := start.Add(24*time.Hour).UnixMilli() - 1

	rep := Report{
		Date:            start.Format("2006-01-02"),
		TopItems:        []ItemSales{},
		HourlyBreakdown: make(map[string]HourlyBucket, 24),
	}
	for h := 0; h < 24; h++ {
		rep.HourlyBreakdown[fmt.Sprintf("%02d", h)] = HourlyBucket{}
	}

	customers := make(map[string]struct{})
	itemIndex := make(map[string]int)
	var items []ItemSales

	for _, b := range bills {
		if b.CreatedAt < startMs || b.CreatedAt > endMs {
			continue
		}

		rep.TotalOrders++
		rep.TotalRevenue += b.Total
		customers[b.CustomerName] = struct{}{}

		hour := fmt.Sprintf("%02d", time.UnixMilli(b.CreatedAt).In(loc).Hour())
		bucket := rep.HourlyBreakdown[hour]
		bucket.Orders++
		bucket.Revenue += b.Total
		rep.HourlyBreakdown[hour] = bucket

		for _, it := range b.Items {
			key := it.ID
			if key == "" {
				key = it.Name
			}
			idx, ok := itemIndex[key]
			if !ok {
				idx = len(items)
				itemIndex[key] = idx
				items = append(items, ItemSales{ID: it.ID, Name: it.Name})
			}
			items[idx].Quantity += it.Quantity
			items[idx].Revenue += it.Price * int64(it.Quantity)
		}
	}

	rep.TotalCustomers = len(customers)
	if rep.TotalOrders > 0 {
		rep.AverageOrderValue = rep.TotalRevenue / int64(rep.TotalOrders)
	}

	// Stable sort keeps first-encountered items ahead on equal quantity.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Quantity > items[j].Quantity
	})
	if len(items) > topItemLimit {
		items = items[:topItemLimit]
	}
	if items != nil {
		rep.TopItems = items
	}

	return rep
}
