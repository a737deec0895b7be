// Package events names the in-process bus topics the aggregates publish on.
package events

const (
	// InventoryChanged fires after any inventory mutation has been applied
	// and saved locally.
	InventoryChanged = "inventory.changed"
	// BillsChanged fires after any bills mutation has been applied and
	// saved locally.
	BillsChanged = "bills.changed"
)
