package jsonbin

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karanhb-pixel/grocery-inventory-app/internal/domain"
	"github.com/karanhb-pixel/grocery-inventory-app/internal/events"
)

func TestManagerDebouncesMutationBurst(t *testing.T) {
	var (
		mu     sync.Mutex
		pushes int
		last   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		pushes++
		last = string(body)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	bus := EventBus.New()
	var (
		itemsMu sync.Mutex
		items   []domain.InventoryItem
	)
	snapshot := func() []domain.InventoryItem {
		itemsMu.Lock()
		defer itemsMu.Unlock()
		return append([]domain.InventoryItem(nil), items...)
	}

	m, err := NewManager(newTestClient(srv.URL), bus, 50*time.Millisecond,
		snapshot, func() []domain.Bill { return nil })
	require.NoError(t, err)
	defer m.Stop()

	// three mutations inside one quiet period
	for _, name := range []string{"Rice", "Milk", "Sugar"} {
		itemsMu.Lock()
		items = append(items, domain.InventoryItem{
			ID: int64(len(items) + 1), Name: name, Category: "Staples", Status: domain.StatusActive,
		})
		itemsMu.Unlock()
		bus.Publish(events.InventoryChanged)
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return pushes == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	// the single push carries the state as of the last mutation
	assert.Contains(t, last, "Sugar")
	assert.Contains(t, last, "Rice")
}
