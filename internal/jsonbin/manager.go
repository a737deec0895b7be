package jsonbin

import (
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"github.com/karanhb-pixel/grocery-inventory-app/internal/domain"
	"github.com/karanhb-pixel/grocery-inventory-app/internal/events"
)

// Manager connects local mutations to debounced remote pushes. The
// aggregates publish on the bus after every mutation; the manager owns one
// trailing-edge debouncer per collection and only ever sends the latest
// in-memory snapshot.
type Manager struct {
	client    *Client
	invPush   *Debouncer
	billsPush *Debouncer
}

func NewManager(
	client *Client,
	bus EventBus.Bus,
	delay time.Duration,
	itemsSnapshot func() []domain.InventoryItem,
	billsSnapshot func() []domain.Bill,
) (*Manager, error) {
	m := &Manager{client: client}
	m.invPush = NewDebouncer(delay, func() {
		if err := client.Push(CollectionInventory, itemsSnapshot()); err != nil {
			zap.S().Errorf("inventory sync failed: %v", err)
		}
	})
	m.billsPush = NewDebouncer(delay, func() {
		if err := client.Push(CollectionBills, billsSnapshot()); err != nil {
			zap.S().Errorf("bills sync failed: %v", err)
		}
	})
	if err := bus.Subscribe(events.InventoryChanged, m.invPush.Trigger); err != nil {
		return nil, err
	}
	if err := bus.Subscribe(events.BillsChanged, m.billsPush.Trigger); err != nil {
		return nil, err
	}
	return m, nil
}

// Stop flushes pending pushes and cancels the timers.
func (m *Manager) Stop() {
	m.invPush.Flush()
	m.billsPush.Flush()
	m.invPush.Stop()
	m.billsPush.Stop()
}
