// Package bills owns the purchase-event collection. Adding a bill snapshots
// the referenced item's current purchase price and then propagates the new
// price forward into inventory; deleting a bill never rolls that back.
package bills

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/araddon/dateparse"
	"github.com/asaskevich/EventBus"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/karanhb-pixel/grocery-inventory-app/internal/domain"
	"github.com/karanhb-pixel/grocery-inventory-app/internal/events"
	"github.com/karanhb-pixel/grocery-inventory-app/internal/store"
)

// ItemDirectory is the slice of the inventory aggregate bills need: resolve
// referenced items and push the propagated price back.
type ItemDirectory interface {
	Get(id int64) (domain.InventoryItem, error)
	FindByName(name string) (domain.InventoryItem, error)
	SetPurchasePrice(id int64, price float64) error
}

// Candidate is the input for Add. The referenced item is resolved by ItemID
// when set, otherwise by case-insensitive exact ItemName.
type Candidate struct {
	Date          string  `json:"date"`
	ItemID        int64   `json:"itemId"`
	ItemName      string  `json:"itemName"`
	Quantity      int64   `json:"quantity"`
	PurchasePrice float64 `json:"purchasePrice"`
}

// Patch carries the updatable fields; the merged bill is re-validated.
// Updates do not re-run price propagation.
type Patch struct {
	Date          *string  `json:"date"`
	Quantity      *int64   `json:"quantity"`
	PurchasePrice *float64 `json:"purchasePrice"`
}

// BulkRow is one line of a bulk bill entry sharing a single date.
type BulkRow struct {
	ItemName      string  `json:"itemName"`
	Quantity      int64   `json:"quantity"`
	PurchasePrice float64 `json:"purchasePrice"`
}

type Aggregate struct {
	mu     sync.Mutex
	bills  []domain.Bill
	nextID int64

	store *store.Store
	items ItemDirectory
	bus   EventBus.Bus
	now   func() time.Time
}

func New(st *store.Store, items ItemDirectory, bus EventBus.Bus) *Aggregate {
	return &Aggregate{
		nextID: 1,
		store:  st,
		items:  items,
		bus:    bus,
		now:    time.Now,
	}
}

// Hydrate loads the collection from local storage, soft-failing to empty.
func (a *Aggregate) Hydrate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	var bills []domain.Bill
	if err := a.store.Load(store.BillsKey, &bills); err != nil {
		zap.S().Warnf("bills hydrate failed, starting empty: %v", err)
		bills = nil
	}
	a.bills = bills
	a.nextID = store.NextID(billIDs(bills))
	zap.S().Infof("bills loaded, %d bills", len(a.bills))
}

// Bills returns a copy of the collection in insertion order.
func (a *Aggregate) Bills() []domain.Bill {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.Bill(nil), a.bills...)
}

// List returns bills sorted newest date first, the order the bills panel
// shows them in.
func (a *Aggregate) List() []domain.Bill {
	view := a.Bills()
	sort.SliceStable(view, func(i, j int) bool {
		ti, ei := dateparse.ParseAny(view[i].Date)
		tj, ej := dateparse.ParseAny(view[j].Date)
		if ei != nil || ej != nil {
			return view[i].Date > view[j].Date
		}
		return ti.After(tj)
	})
	return view
}

// Add validates the candidate, resolves the referenced inventory item,
// snapshots its current purchase price as previousPurchasePrice, appends the
// bill and then overwrites the item's purchase price with the bill's.
func (a *Aggregate) Add(c Candidate) (domain.Bill, error) {
	item, err := a.resolveItem(c)
	if err != nil {
		return domain.Bill{}, err
	}

	a.mu.Lock()
	bill := domain.Bill{
		Date:                  strings.TrimSpace(c.Date),
		ItemID:                item.ID,
		ItemName:              item.Name,
		Category:              item.Category,
		Quantity:              c.Quantity,
		PurchasePrice:         c.PurchasePrice,
		PreviousPurchasePrice: item.PurchasePrice,
		Timestamp:             a.now().UTC().Format(time.RFC3339),
	}
	if err := bill.Validate(); err != nil {
		a.mu.Unlock()
		return domain.Bill{}, err
	}
	bill.ID = a.nextID
	a.nextID++
	a.bills = append(a.bills, bill)
	a.persistLocked()
	a.mu.Unlock()

	// Forward price propagation into inventory. The item was resolved a
	// moment ago; losing the race to a concurrent delete is only worth a log.
	if err := a.items.SetPurchasePrice(item.ID, c.PurchasePrice); err != nil {
		zap.S().Warnf("price propagation skipped, item %d gone: %v", item.ID, err)
	}
	return bill, nil
}

// BulkAdd records several purchases sharing one date. Valid rows commit,
// invalid rows are reported; each row propagates its price like Add.
func (a *Aggregate) BulkAdd(date string, rows []BulkRow) ([]domain.Bill, []error) {
	added := make([]domain.Bill, 0, len(rows))
	var errs []error
	for _, row := range rows {
		bill, err := a.Add(Candidate{
			Date:          date,
			ItemName:      row.ItemName,
			Quantity:      row.Quantity,
			PurchasePrice: row.PurchasePrice,
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		added = append(added, bill)
	}
	return added, errs
}

func (a *Aggregate) resolveItem(c Candidate) (domain.InventoryItem, error) {
	if c.ItemID > 0 {
		item, err := a.items.Get(c.ItemID)
		if err != nil {
			return domain.InventoryItem{}, domain.Invalid("itemId", "not found in inventory")
		}
		return item, nil
	}
	if strings.TrimSpace(c.ItemName) == "" {
		return domain.InventoryItem{}, domain.Invalid("itemName", "must not be empty")
	}
	item, err := a.items.FindByName(c.ItemName)
	if err != nil {
		return domain.InventoryItem{}, domain.Invalid("itemName", "not found in inventory")
	}
	return item, nil
}

// Update merges the patch and re-validates. Missing id returns ErrNotFound.
func (a *Aggregate) Update(id int64, p Patch) (domain.Bill, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	idx := a.indexLocked(id)
	if idx < 0 {
		return domain.Bill{}, domain.ErrNotFound
	}
	merged := a.bills[idx]
	if p.Date != nil {
		merged.Date = strings.TrimSpace(*p.Date)
	}
	if p.Quantity != nil {
		merged.Quantity = *p.Quantity
	}
	if p.PurchasePrice != nil {
		merged.PurchasePrice = *p.PurchasePrice
	}
	if err := merged.Validate(); err != nil {
		return domain.Bill{}, err
	}
	a.bills[idx] = merged
	a.persistLocked()
	return merged, nil
}

// Delete removes the bill; a missing id is a no-op. The price the bill
// propagated into inventory stays in place.
func (a *Aggregate) Delete(id int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	idx := a.indexLocked(id)
	if idx < 0 {
		return
	}
	a.bills = append(a.bills[:idx], a.bills[idx+1:]...)
	a.persistLocked()
}

// FilterByDate returns every bill when date is empty, else exact matches.
func (a *Aggregate) FilterByDate(date string) []domain.Bill {
	if strings.TrimSpace(date) == "" {
		return a.List()
	}
	var out []domain.Bill
	for _, bill := range a.Bills() {
		if bill.Date == date {
			out = append(out, bill)
		}
	}
	return out
}

// LastPriceForItem returns the purchase price of the most recently appended
// bill referencing the item (insertion order, not date order). The
// reference may be a numeric id or an item name. ok=false when no bill
// references it; callers prefill the new-bill form with this.
func (a *Aggregate) LastPriceForItem(ref string) (float64, bool) {
	id := cast.ToInt64(ref)
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := len(a.bills) - 1; i >= 0; i-- {
		bill := a.bills[i]
		if (id > 0 && bill.ItemID == id) || strings.EqualFold(bill.ItemName, ref) {
			return bill.PurchasePrice, true
		}
	}
	return 0, false
}

// Replace swaps in a wholesale new collection and recomputes the counter.
// Local only: pulled data must not bounce back to the remote.
func (a *Aggregate) Replace(bills []domain.Bill) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.bills = append([]domain.Bill(nil), bills...)
	a.nextID = store.NextID(billIDs(a.bills))
	a.saveLocked()
}

// Clear drops everything and resets the counter. Local only, like Replace.
func (a *Aggregate) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.bills = nil
	a.nextID = 1
	if err := a.store.Delete(store.BillsKey); err != nil {
		zap.S().Errorf("bills clear failed: %v", err)
	}
}

func (a *Aggregate) indexLocked(id int64) int {
	for i, bill := range a.bills {
		if bill.ID == id {
			return i
		}
	}
	return -1
}

func (a *Aggregate) persistLocked() {
	a.saveLocked()
	a.bus.Publish(events.BillsChanged)
}

func (a *Aggregate) saveLocked() {
	if err := a.store.Save(store.BillsKey, a.bills); err != nil {
		zap.S().Errorf("bills save failed: %v", err)
	}
}

func billIDs(bills []domain.Bill) []int64 {
	ids := make([]int64, len(bills))
	for i, bill := range bills {
		ids[i] = bill.ID
	}
	return ids
}
