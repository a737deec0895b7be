package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karanhb-pixel/grocery-inventory-app/internal/domain"
)

type staticBills []domain.Bill

func (s staticBills) Bills() []domain.Bill { return s }

func newTestAggregator(bills []domain.Bill) *Aggregator {
	g := New(staticBills(bills))
	g.now = func() time.Time {
		return time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	}
	return g
}

func TestFrequencyGroupsAndAverages(t *testing.T) {
	g := newTestAggregator([]domain.Bill{
		{ItemName: "Rice", Date: "2024-05-20", Quantity: 2, PurchasePrice: 10},
		{ItemName: "Rice", Date: "2024-05-15", Quantity: 1, PurchasePrice: 12},
	})

	stats := g.Frequency(30)
	require.Len(t, stats, 1)

	rice := stats[0]
	assert.Equal(t, "Rice", rice.ItemName)
	assert.Equal(t, 2, rice.Count)
	assert.Equal(t, int64(3), rice.TotalQuantity)
	assert.Equal(t, 1.5, rice.AvgQuantity)
	assert.Equal(t, 32.0, rice.TotalSpent)
	assert.InDelta(t, 10.67, rice.AvgPrice, 0.01)
	assert.Equal(t, "2024-05-20", rice.LastPurchaseDate)
}

func TestFrequencyWindowExcludesOldBills(t *testing.T) {
	g := newTestAggregator([]domain.Bill{
		{ItemName: "Rice", Date: "2024-05-20", Quantity: 1, PurchasePrice: 10},
		{ItemName: "Rice", Date: "2024-03-01", Quantity: 5, PurchasePrice: 8},
		{ItemName: "Milk", Date: "2024-02-01", Quantity: 2, PurchasePrice: 25},
	})

	stats := g.Frequency(7)
	require.Len(t, stats, 1)
	assert.Equal(t, "Rice", stats[0].ItemName)
	assert.Equal(t, int64(1), stats[0].TotalQuantity)
}

func TestFrequencySortsByCountDescending(t *testing.T) {
	g := newTestAggregator([]domain.Bill{
		{ItemName: "Milk", Date: "2024-05-18", Quantity: 1, PurchasePrice: 25},
		{ItemName: "Rice", Date: "2024-05-19", Quantity: 1, PurchasePrice: 10},
		{ItemName: "Rice", Date: "2024-05-20", Quantity: 1, PurchasePrice: 10},
		{ItemName: "Eggs", Date: "2024-05-20", Quantity: 1, PurchasePrice: 6},
	})

	stats := g.Frequency(30)
	require.Len(t, stats, 3)
	assert.Equal(t, "Rice", stats[0].ItemName)
	// equal counts keep group-creation order
	assert.Equal(t, "Milk", stats[1].ItemName)
	assert.Equal(t, "Eggs", stats[2].ItemName)
}

func TestFrequencySkipsUnparseableDates(t *testing.T) {
	g := newTestAggregator([]domain.Bill{
		{ItemName: "Rice", Date: "not-a-date", Quantity: 1, PurchasePrice: 10},
		{ItemName: "Rice", Date: "2024-05-20", Quantity: 2, PurchasePrice: 10},
	})

	stats := g.Frequency(30)
	require.Len(t, stats, 1)
	assert.Equal(t, int64(2), stats[0].TotalQuantity)
}

func TestFrequencyZeroQuantityGroup(t *testing.T) {
	g := newTestAggregator([]domain.Bill{
		{ItemName: "Rice", Date: "2024-05-20", Quantity: 0, PurchasePrice: 10},
	})

	stats := g.Frequency(30)
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].Count)
	assert.Equal(t, 0.0, stats[0].AvgPrice)
}

func TestConsumptionTotals(t *testing.T) {
	g := newTestAggregator([]domain.Bill{
		{ItemName: "Rice", Date: "2024-05-20", Quantity: 2, PurchasePrice: 10},
		{ItemName: "Rice", Date: "2024-05-10", Quantity: 3, PurchasePrice: 10},
		{ItemName: "Milk", Date: "2024-05-19", Quantity: 1, PurchasePrice: 25},
		{ItemName: "Milk", Date: "2024-01-01", Quantity: 9, PurchasePrice: 20},
	})

	out := g.Consumption(30)
	require.Len(t, out, 2)
	assert.Equal(t, int64(5), out["Rice"].TotalQuantity)
	assert.Equal(t, 2, out["Rice"].Frequency)
	assert.Equal(t, int64(1), out["Milk"].TotalQuantity)
	assert.Equal(t, 1, out["Milk"].Frequency)
}
