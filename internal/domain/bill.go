package domain

import (
	"strings"

	"github.com/spf13/cast"
)

// Bill is a recorded purchase event. Item name and category are denormalized
// copies taken at creation time; previousPurchasePrice snapshots what the
// item cost before this purchase overwrote it.
type Bill struct {
	ID                    int64   `json:"id"`
	Date                  string  `json:"date"`
	ItemID                int64   `json:"itemId"`
	ItemName              string  `json:"itemName"`
	Category              string  `json:"category"`
	Quantity              int64   `json:"quantity"`
	PurchasePrice         float64 `json:"purchasePrice"`
	PreviousPurchasePrice float64 `json:"previousPurchasePrice"`
	Timestamp             string  `json:"timestamp"`
}

func (b *Bill) Validate() error {
	if strings.TrimSpace(b.Date) == "" {
		return Invalid("date", "must not be empty")
	}
	if strings.TrimSpace(b.ItemName) == "" {
		return Invalid("itemName", "must not be empty")
	}
	if b.Quantity < 1 {
		return Invalid("quantity", "must be >= 1")
	}
	if b.PurchasePrice <= 0 {
		return Invalid("purchasePrice", "must be > 0")
	}
	return nil
}

// NormalizeBill coerces an untyped remote record into a Bill. Quantity falls
// back to 1, other numerics to 0, strings to "". Returns ok=false for
// records missing itemName or date, which are dropped.
func NormalizeBill(raw map[string]interface{}) (Bill, bool) {
	bill := Bill{
		ID:                    cast.ToInt64(raw["id"]),
		Date:                  cast.ToString(raw["date"]),
		ItemID:                cast.ToInt64(raw["itemId"]),
		ItemName:              cast.ToString(raw["itemName"]),
		Category:              cast.ToString(raw["category"]),
		Quantity:              cast.ToInt64(raw["quantity"]),
		PurchasePrice:         cast.ToFloat64(raw["purchasePrice"]),
		PreviousPurchasePrice: cast.ToFloat64(raw["previousPurchasePrice"]),
		Timestamp:             cast.ToString(raw["timestamp"]),
	}
	if bill.Quantity == 0 {
		bill.Quantity = 1
	}
	if bill.ItemName == "" || bill.Date == "" {
		return Bill{}, false
	}
	return bill, true
}
