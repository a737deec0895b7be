package jsonbin

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karanhb-pixel/grocery-inventory-app/config"
	"github.com/karanhb-pixel/grocery-inventory-app/internal/domain"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.SyncConfig{
		BaseURL:      baseURL,
		APIKey:       "test-master-key",
		InventoryBin: "inv-bin",
		BillsBin:     "bill-bin",
		TimeoutSec:   5,
	}, NewStatusTracker())
}

func TestConfigured(t *testing.T) {
	c := newTestClient("http://example.invalid")
	assert.True(t, c.Configured(CollectionInventory))
	assert.True(t, c.Configured(CollectionBills))

	demo := NewClient(config.SyncConfig{
		BaseURL:      "http://example.invalid",
		APIKey:       placeholderKey,
		InventoryBin: "inv-bin",
		BillsBin:     placeholderBin,
		TimeoutSec:   5,
	}, NewStatusTracker())
	assert.False(t, demo.Configured(CollectionInventory))
	assert.False(t, demo.Configured(CollectionBills))
}

func TestDemoModeSkipsNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	status := NewStatusTracker()
	c := NewClient(config.SyncConfig{
		BaseURL:    srv.URL,
		APIKey:     placeholderKey,
		TimeoutSec: 5,
	}, status)

	assert.NoError(t, c.Push(CollectionInventory, []string{"x"}))
	_, err := c.PullItems()
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, called)

	cur := status.Current()
	require.NotNil(t, cur)
	assert.Equal(t, LevelWarning, cur.Level)
}

func TestPushSendsMasterKeyAndBody(t *testing.T) {
	var gotKey, gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Master-Key")
		gotPath = r.URL.Path
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		require.Equal(t, http.MethodPut, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	err := c.Push(CollectionInventory, []map[string]interface{}{{"id": 1, "name": "Rice"}})
	require.NoError(t, err)

	assert.Equal(t, "test-master-key", gotKey)
	assert.Equal(t, "/inv-bin", gotPath)
	assert.Contains(t, gotBody, `"name":"Rice"`)
}

func TestPushNon2xxIsSyncError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	err := c.Push(CollectionBills, []string{})
	require.Error(t, err)

	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, 401, syncErr.StatusCode)
}

func TestPullItemsUnwrapsEnvelopeAndNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/inv-bin/latest", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"record":[
			{"id":1,"name":"Rice","price":"60","purchasePrice":50,"category":"Staples"},
			{"id":2,"name":"","category":"Dairy"},
			{"id":3,"name":"Milk","category":""}
		]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	items, err := c.PullItems()
	require.NoError(t, err)

	// rows without a name or category are dropped, not zero-filled
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, "Rice", items[0].Name)
	assert.Equal(t, 60.0, items[0].Price)
	assert.Equal(t, "Active", items[0].Status)
}

func TestPullBillsAcceptsBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"itemName":"Rice","date":"2024-05-20","purchasePrice":35},
			{"id":2,"itemName":"","date":"2024-05-20"}
		]`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	bills, err := c.PullBills()
	require.NoError(t, err)

	require.Len(t, bills, 1)
	assert.Equal(t, "Rice", bills[0].ItemName)
	// quantity defaults to 1 when the stored row lacks it
	assert.Equal(t, int64(1), bills[0].Quantity)
}

func TestPull404IsBinNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.PullItems()
	assert.ErrorIs(t, err, ErrBinNotFound)

	assert.ErrorIs(t, c.Ping(CollectionInventory), ErrBinNotFound)
}

func TestPingSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bill-bin/latest", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"record":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	assert.NoError(t, c.Ping(CollectionBills))
}

func TestPullDiscardsSupersededResponse(t *testing.T) {
	firstArrived := make(chan struct{})
	release := make(chan struct{})
	var reqs atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if reqs.Add(1) == 1 {
			close(firstArrived)
			<-release
			_, _ = w.Write([]byte(`{"record":[{"id":1,"name":"Old","category":"Staples"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"record":[{"id":2,"name":"Fresh","category":"Staples"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	type result struct {
		items []domain.InventoryItem
		err   error
	}
	firstDone := make(chan result, 1)
	go func() {
		items, err := c.PullItems()
		firstDone <- result{items: items, err: err}
	}()
	<-firstArrived

	// a newer pull completes while the first response is still in flight
	items, err := c.PullItems()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Fresh", items[0].Name)

	// the first response arrives late and must be thrown away
	close(release)
	got := <-firstDone
	assert.ErrorIs(t, got.err, ErrStaleResponse)
	assert.Nil(t, got.items)
}

func TestUnwrapEnvelope(t *testing.T) {
	rows := unwrapEnvelope([]byte(`{"record":[{"id":1}]}`))
	require.Len(t, rows, 1)

	rows = unwrapEnvelope([]byte(`[{"id":1},{"id":2}]`))
	require.Len(t, rows, 2)

	assert.Nil(t, unwrapEnvelope([]byte(`{"metadata":{}}`)))
	assert.Nil(t, unwrapEnvelope([]byte(`"oops"`)))
}
