// Package inventory owns the in-memory item collection and the operations
// that keep its invariants: validated mutations, monotonic ids, filtered and
// sorted views, and wholesale replacement from remote sync.
package inventory

import (
	"sort"
	"strings"
	"sync"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/karanhb-pixel/grocery-inventory-app/internal/domain"
	"github.com/karanhb-pixel/grocery-inventory-app/internal/events"
	"github.com/karanhb-pixel/grocery-inventory-app/internal/store"
)

const (
	SortByName     = "name"
	SortByCategory = "category"
)

// Candidate is the validated input for Add.
type Candidate struct {
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	PurchasePrice float64 `json:"purchasePrice"`
	Category      string  `json:"category"`
}

// Patch carries the fields an update may change; nil fields keep the
// current value. The merged record is re-validated before it replaces the
// old one.
type Patch struct {
	Name          *string  `json:"name"`
	Price         *float64 `json:"price"`
	PurchasePrice *float64 `json:"purchasePrice"`
	Category      *string  `json:"category"`
	Status        *string  `json:"status"`
}

type Aggregate struct {
	mu     sync.Mutex
	items  []domain.InventoryItem
	nextID int64

	store    *store.Store
	bus      EventBus.Bus
	collator *collate.Collator
}

func New(st *store.Store, bus EventBus.Bus) *Aggregate {
	return &Aggregate{
		nextID:   1,
		store:    st,
		bus:      bus,
		collator: collate.New(language.English),
	}
}

// Hydrate loads the collection from local storage. Absence or a corrupt
// payload soft-fails into an empty collection with the counter reset to 1.
func (a *Aggregate) Hydrate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	var items []domain.InventoryItem
	if err := a.store.Load(store.InventoryKey, &items); err != nil {
		zap.S().Warnf("inventory hydrate failed, starting empty: %v", err)
		items = nil
	}
	a.items = items
	a.nextID = store.NextID(itemIDs(items))
	zap.S().Infof("inventory loaded, %d items", len(a.items))
}

// Items returns a copy of the collection in insertion order.
func (a *Aggregate) Items() []domain.InventoryItem {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.InventoryItem(nil), a.items...)
}

func (a *Aggregate) Get(id int64) (domain.InventoryItem, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, item := range a.items {
		if item.ID == id {
			return item, nil
		}
	}
	return domain.InventoryItem{}, domain.ErrNotFound
}

// FindByName resolves an item by case-insensitive exact name.
func (a *Aggregate) FindByName(name string) (domain.InventoryItem, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, item := range a.items {
		if strings.EqualFold(item.Name, name) {
			return item, nil
		}
	}
	return domain.InventoryItem{}, domain.ErrNotFound
}

// Add validates the candidate, assigns the next id and the default status,
// and persists. Nothing is mutated on a validation failure.
func (a *Aggregate) Add(c Candidate) (domain.InventoryItem, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	item := domain.InventoryItem{
		Name:          strings.TrimSpace(c.Name),
		Price:         c.Price,
		PurchasePrice: c.PurchasePrice,
		Category:      c.Category,
		Status:        domain.StatusActive,
	}
	if err := item.Validate(); err != nil {
		return domain.InventoryItem{}, err
	}
	item.ID = a.nextID
	a.nextID++
	a.items = append(a.items, item)
	a.persistLocked()
	return item, nil
}

// BulkAdd commits every valid candidate and reports the rest. Partial
// success is deliberate: one bad row does not block the batch.
func (a *Aggregate) BulkAdd(candidates []Candidate) ([]domain.InventoryItem, []error) {
	added := make([]domain.InventoryItem, 0, len(candidates))
	var errs []error
	for _, c := range candidates {
		item, err := a.Add(c)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		added = append(added, item)
	}
	return added, errs
}

// Update merges the patch onto the record and re-validates the result under
// the same constraints as Add.
func (a *Aggregate) Update(id int64, p Patch) (domain.InventoryItem, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	idx := a.indexLocked(id)
	if idx < 0 {
		return domain.InventoryItem{}, domain.ErrNotFound
	}
	merged := a.items[idx]
	if p.Name != nil {
		merged.Name = strings.TrimSpace(*p.Name)
	}
	if p.Price != nil {
		merged.Price = *p.Price
	}
	if p.PurchasePrice != nil {
		merged.PurchasePrice = *p.PurchasePrice
	}
	if p.Category != nil {
		merged.Category = *p.Category
	}
	if p.Status != nil {
		merged.Status = *p.Status
	}
	if err := merged.Validate(); err != nil {
		return domain.InventoryItem{}, err
	}
	a.items[idx] = merged
	a.persistLocked()
	return merged, nil
}

// SetPurchasePrice overwrites one item's purchase price. This is the
// forward price propagation a bill performs on its referenced item.
func (a *Aggregate) SetPurchasePrice(id int64, price float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	idx := a.indexLocked(id)
	if idx < 0 {
		return domain.ErrNotFound
	}
	a.items[idx].PurchasePrice = price
	a.persistLocked()
	return nil
}

// Delete removes the item outright; deleting a missing id is a no-op.
func (a *Aggregate) Delete(id int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	idx := a.indexLocked(id)
	if idx < 0 {
		return
	}
	a.items = append(a.items[:idx], a.items[idx+1:]...)
	a.persistLocked()
}

// Query returns a filtered-then-sorted view. Filtering is a
// case-insensitive substring match on name or category; an empty term keeps
// everything. Sorting is locale-aware on the chosen key, with category ties
// broken by name.
func (a *Aggregate) Query(searchTerm, sortKey string) []domain.InventoryItem {
	view := a.Items()
	if term := strings.ToLower(strings.TrimSpace(searchTerm)); term != "" {
		filtered := view[:0]
		for _, item := range view {
			if strings.Contains(strings.ToLower(item.Name), term) ||
				strings.Contains(strings.ToLower(item.Category), term) {
				filtered = append(filtered, item)
			}
		}
		view = filtered
	}
	a.sortView(view, sortKey)
	return view
}

func (a *Aggregate) sortView(view []domain.InventoryItem, sortKey string) {
	coll := a.collator
	sort.SliceStable(view, func(i, j int) bool {
		if sortKey == SortByCategory {
			if c := coll.CompareString(view[i].Category, view[j].Category); c != 0 {
				return c < 0
			}
		}
		return coll.CompareString(view[i].Name, view[j].Name) < 0
	})
}

// Replace swaps in a wholesale new collection (remote pull or file import),
// recomputes the counter and persists. No field-by-field merging, and no
// sync trigger: pulled or imported data must not bounce back to the remote.
func (a *Aggregate) Replace(items []domain.InventoryItem) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.items = append([]domain.InventoryItem(nil), items...)
	a.nextID = store.NextID(itemIDs(a.items))
	a.saveLocked()
}

// Clear drops everything and resets the counter. Local only, like Replace.
func (a *Aggregate) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.items = nil
	a.nextID = 1
	if err := a.store.Delete(store.InventoryKey); err != nil {
		zap.S().Errorf("inventory clear failed: %v", err)
	}
}

func (a *Aggregate) indexLocked(id int64) int {
	for i, item := range a.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// persistLocked saves and schedules a remote push. A storage failure is
// logged and the in-memory state stays authoritative until the next
// successful save.
func (a *Aggregate) persistLocked() {
	a.saveLocked()
	a.bus.Publish(events.InventoryChanged)
}

func (a *Aggregate) saveLocked() {
	if err := a.store.Save(store.InventoryKey, a.items); err != nil {
		zap.S().Errorf("inventory save failed: %v", err)
	}
}

func itemIDs(items []domain.InventoryItem) []int64 {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
