package domain

import (
	"strings"

	"github.com/spf13/cast"
)

// StatusActive is the default status assigned to new inventory items.
const StatusActive = "Active"

// Categories is the fixed set a new or updated item must belong to.
var Categories = []string{
	"Staples",
	"Dairy",
	"Vegetables",
	"Fruits",
	"Snacks",
	"Beverages",
	"Household",
	"Other",
}

// InventoryItem is a grocery item with a selling price and the price last
// paid for it. The csv tags fix the exchange column order.
type InventoryItem struct {
	ID            int64   `json:"id" csv:"ID"`
	Name          string  `json:"name" csv:"Name"`
	Price         float64 `json:"price" csv:"Selling Price"`
	PurchasePrice float64 `json:"purchasePrice" csv:"Purchase Price"`
	Category      string  `json:"category" csv:"Category"`
	Status        string  `json:"status" csv:"Status"`
}

func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Validate checks the add/update constraints. The id is not checked here,
// assignment is the aggregate's job.
func (i *InventoryItem) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return Invalid("name", "must not be empty")
	}
	if i.Price < 0 {
		return Invalid("price", "must be >= 0")
	}
	if i.PurchasePrice < 0 {
		return Invalid("purchasePrice", "must be >= 0")
	}
	if i.Category == "" {
		return Invalid("category", "must not be empty")
	}
	if !ValidCategory(i.Category) {
		return Invalid("category", "unknown category "+i.Category)
	}
	return nil
}

// NormalizeItem coerces an untyped remote record into an InventoryItem.
// Numeric fields fall back to 0, missing strings to "", missing status to
// Active. Returns ok=false when the record fails the minimal validity
// predicate (non-empty name and category) and must be dropped.
func NormalizeItem(raw map[string]interface{}) (InventoryItem, bool) {
	item := InventoryItem{
		ID:            cast.ToInt64(raw["id"]),
		Name:          cast.ToString(raw["name"]),
		Price:         cast.ToFloat64(raw["price"]),
		PurchasePrice: cast.ToFloat64(raw["purchasePrice"]),
		Category:      cast.ToString(raw["category"]),
		Status:        cast.ToString(raw["status"]),
	}
	if item.Status == "" {
		item.Status = StatusActive
	}
	if item.Name == "" || item.Category == "" {
		return InventoryItem{}, false
	}
	return item, true
}
