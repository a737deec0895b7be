package domain

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemValidate(t *testing.T) {
	item := InventoryItem{Name: "Rice", Price: 60, PurchasePrice: 50, Category: "Staples"}
	assert.NoError(t, item.Validate())

	bad := item
	bad.Name = "  "
	assert.Error(t, bad.Validate())

	bad = item
	bad.Price = -1
	assert.Error(t, bad.Validate())

	bad = item
	bad.Category = "Electronics"
	assert.Error(t, bad.Validate())
}

func TestNormalizeItemCoercesLooseTypes(t *testing.T) {
	item, ok := NormalizeItem(map[string]interface{}{
		"id":            "7",
		"name":          "Rice",
		"price":         "60.5",
		"purchasePrice": 50,
		"category":      "Staples",
	})
	require.True(t, ok)
	assert.Equal(t, int64(7), item.ID)
	assert.Equal(t, 60.5, item.Price)
	assert.Equal(t, 50.0, item.PurchasePrice)
	assert.Equal(t, StatusActive, item.Status)
}

func TestNormalizeItemDropsNamelessRecords(t *testing.T) {
	_, ok := NormalizeItem(map[string]interface{}{"id": 1, "category": "Dairy"})
	assert.False(t, ok)

	_, ok = NormalizeItem(map[string]interface{}{"id": 1, "name": "Milk"})
	assert.False(t, ok)
}

func TestBillValidate(t *testing.T) {
	bill := Bill{Date: "2024-05-20", ItemName: "Rice", Quantity: 1, PurchasePrice: 35}
	assert.NoError(t, bill.Validate())

	bad := bill
	bad.Quantity = 0
	assert.Error(t, bad.Validate())

	bad = bill
	bad.PurchasePrice = 0
	assert.Error(t, bad.Validate())
}

func TestNormalizeBillDefaultsQuantity(t *testing.T) {
	bill, ok := NormalizeBill(map[string]interface{}{
		"itemName":      "Rice",
		"date":          "2024-05-20",
		"purchasePrice": "35",
	})
	require.True(t, ok)
	assert.Equal(t, int64(1), bill.Quantity)
	assert.Equal(t, 35.0, bill.PurchasePrice)

	_, ok = NormalizeBill(map[string]interface{}{"itemName": "Rice"})
	assert.False(t, ok)
}

func TestIsValidation(t *testing.T) {
	err := Invalid("name", "must not be empty")
	assert.True(t, IsValidation(err))
	assert.True(t, IsValidation(errors.Wrap(err, "add item")))
	assert.False(t, IsValidation(ErrNotFound))
}
