// Package analysis derives purchase-frequency statistics from the bills
// collection. It is read-only and recomputed on demand.
package analysis

import (
	"sort"
	"time"

	"github.com/araddon/dateparse"

	"github.com/karanhb-pixel/grocery-inventory-app/internal/domain"
)

// BillSource is anything that can hand over a snapshot of the bills
// collection, in insertion order.
type BillSource interface {
	Bills() []domain.Bill
}

type Aggregator struct {
	source BillSource
	now    func() time.Time
}

func New(source BillSource) *Aggregator {
	return &Aggregator{source: source, now: time.Now}
}

// Frequency groups bills whose date falls inside the last windowDays by
// item name and computes count, quantity and spend totals with averages.
// Groups come back sorted by count descending; ties keep group-creation
// order. Bills with unparseable dates fall outside every window.
func (g *Aggregator) Frequency(windowDays int) []domain.FrequencyStat {
	now := g.now()
	cutoff := now.Add(-time.Duration(windowDays) * 24 * time.Hour)

	groups := make(map[string]*domain.FrequencyStat)
	var order []string
	for _, bill := range g.source.Bills() {
		billDate, err := dateparse.ParseAny(bill.Date)
		if err != nil || billDate.Before(cutoff) || billDate.After(now) {
			continue
		}
		stat, ok := groups[bill.ItemName]
		if !ok {
			stat = &domain.FrequencyStat{
				ItemName:         bill.ItemName,
				LastPurchaseDate: bill.Date,
			}
			groups[bill.ItemName] = stat
			order = append(order, bill.ItemName)
		}
		stat.Count++
		stat.TotalQuantity += bill.Quantity
		stat.TotalSpent += bill.PurchasePrice * float64(bill.Quantity)
		if laterDate(bill.Date, stat.LastPurchaseDate) {
			stat.LastPurchaseDate = bill.Date
		}
	}

	out := make([]domain.FrequencyStat, 0, len(groups))
	for _, name := range order {
		stat := *groups[name]
		stat.AvgQuantity = float64(stat.TotalQuantity) / float64(stat.Count)
		if stat.TotalQuantity > 0 {
			stat.AvgPrice = stat.TotalSpent / float64(stat.TotalQuantity)
		}
		out = append(out, stat)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// Consumption is the restock view: totals per item since local midnight
// `days` days ago.
func (g *Aggregator) Consumption(days int) map[string]domain.ConsumptionStat {
	now := g.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -days)

	out := make(map[string]domain.ConsumptionStat)
	for _, bill := range g.source.Bills() {
		billDate, err := dateparse.ParseAny(bill.Date)
		if err != nil || billDate.Before(start) {
			continue
		}
		stat := out[bill.ItemName]
		stat.TotalQuantity += bill.Quantity
		stat.Frequency++
		out[bill.ItemName] = stat
	}
	return out
}

func laterDate(a, b string) bool {
	ta, ea := dateparse.ParseAny(a)
	tb, eb := dateparse.ParseAny(b)
	if ea != nil || eb != nil {
		return a > b
	}
	return ta.After(tb)
}
