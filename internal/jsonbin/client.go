// Package jsonbin is the remote sync client for a JSONBin-style document
// store: one bin per collection, PUT overwrites the whole array, GET /latest
// returns the last revision wrapped in a {"record": [...]} envelope.
package jsonbin

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/guonaihong/gout"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/karanhb-pixel/grocery-inventory-app/config"
	"github.com/karanhb-pixel/grocery-inventory-app/internal/domain"
)

type Collection string

const (
	CollectionInventory Collection = "inventory"
	CollectionBills     Collection = "bills"
)

const (
	headerMasterKey = "X-Master-Key"

	placeholderKey = "YOUR_JSONBIN_API_KEY_HERE"
	placeholderBin = "YOUR_JSONBIN_BIN_ID_HERE"
)

var (
	// ErrNotConfigured marks the demo-mode short circuit: placeholder or
	// missing credentials, no network I/O attempted.
	ErrNotConfigured = errors.New("jsonbin: not configured")
	// ErrBinNotFound maps a 404 on the bin to a configuration error. Not
	// retried.
	ErrBinNotFound = errors.New("jsonbin: bin not found")
	// ErrStaleResponse marks a pull whose response arrived after a newer
	// pull started; the response is discarded.
	ErrStaleResponse = errors.New("jsonbin: stale response discarded")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SyncError is a remote HTTP failure (non-2xx, non-404).
type SyncError struct {
	Op         string
	StatusCode int
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("jsonbin: %s failed with HTTP %d", e.Op, e.StatusCode)
}

type Client struct {
	baseURL string
	apiKey  string
	bins    map[Collection]string
	timeout time.Duration
	status  *StatusTracker
	seq     map[Collection]*atomic.Uint64
}

func NewClient(cfg config.SyncConfig, status *StatusTracker) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		bins: map[Collection]string{
			CollectionInventory: cfg.InventoryBin,
			CollectionBills:     cfg.BillsBin,
		},
		timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		status:  status,
		seq: map[Collection]*atomic.Uint64{
			CollectionInventory: {},
			CollectionBills:     {},
		},
	}
}

func (c *Client) Status() *StatusTracker {
	return c.status
}

// Configured reports whether the collection has real credentials. Anything
// else leaves the client in demo mode.
func (c *Client) Configured(col Collection) bool {
	bin := c.bins[col]
	if c.apiKey == "" || c.apiKey == placeholderKey {
		return false
	}
	return bin != "" && bin != placeholderBin
}

func (c *Client) demoMode(col Collection) bool {
	if c.Configured(col) {
		return false
	}
	c.status.Show(LevelWarning, "Demo mode - configure JSONBin to enable sync")
	return true
}

// Ping checks connectivity by reading the latest revision. A 404 means the
// bin id is wrong; that is reported, not retried.
func (c *Client) Ping(col Collection) error {
	if c.demoMode(col) {
		return ErrNotConfigured
	}
	var code int
	err := gout.GET(c.latestURL(col)).
		SetTimeout(c.timeout).
		SetHeader(gout.H{headerMasterKey: c.apiKey}).
		Code(&code).
		Do()
	if err != nil {
		c.status.Show(LevelError, "JSONBin connection failed")
		return errors.Wrap(err, "jsonbin: ping")
	}
	switch {
	case code == 404:
		c.status.Show(LevelError, fmt.Sprintf("JSONBin %s bin not found", col))
		return ErrBinNotFound
	case code < 200 || code > 299:
		c.status.Show(LevelError, "JSONBin connection failed")
		return &SyncError{Op: "ping", StatusCode: code}
	}
	c.status.ShowTransient(LevelSuccess, "Connected to JSONBin")
	return nil
}

// Push serializes the full collection and overwrites the remote bin. A
// failed push is reported and logged, never retried.
func (c *Client) Push(col Collection, records interface{}) error {
	if c.demoMode(col) {
		return nil
	}
	c.status.Show(LevelLoading, fmt.Sprintf("Syncing %s to JSONBin...", col))
	var code int
	err := gout.PUT(c.binURL(col)).
		SetTimeout(c.timeout).
		SetHeader(gout.H{headerMasterKey: c.apiKey, "Content-Type": "application/json"}).
		SetJSON(records).
		Code(&code).
		Do()
	if err != nil {
		c.status.Show(LevelError, "Sync failed")
		return errors.Wrapf(err, "jsonbin: push %s", col)
	}
	if code < 200 || code > 299 {
		c.status.Show(LevelError, fmt.Sprintf("Sync failed: HTTP %d", code))
		return &SyncError{Op: "push " + string(col), StatusCode: code}
	}
	zap.S().Debugf("pushed %s collection to jsonbin", col)
	c.status.ShowTransient(LevelSuccess, "Sync successful")
	return nil
}

// PullItems fetches, unwraps and normalizes the inventory bin. Records
// failing the validity predicate are dropped, never kept.
func (c *Client) PullItems() ([]domain.InventoryItem, error) {
	rows, err := c.pull(CollectionInventory)
	if err != nil {
		return nil, err
	}
	items := make([]domain.InventoryItem, 0, len(rows))
	for _, row := range rows {
		if item, ok := domain.NormalizeItem(row); ok {
			items = append(items, item)
		}
	}
	c.status.ShowTransient(LevelSuccess, fmt.Sprintf("Loaded %d items from JSONBin", len(items)))
	return items, nil
}

// PullBills is the bills counterpart of PullItems.
func (c *Client) PullBills() ([]domain.Bill, error) {
	rows, err := c.pull(CollectionBills)
	if err != nil {
		return nil, err
	}
	bills := make([]domain.Bill, 0, len(rows))
	for _, row := range rows {
		if bill, ok := domain.NormalizeBill(row); ok {
			bills = append(bills, bill)
		}
	}
	c.status.ShowTransient(LevelSuccess, fmt.Sprintf("Loaded %d bills from JSONBin", len(bills)))
	return bills, nil
}

func (c *Client) pull(col Collection) ([]map[string]interface{}, error) {
	if c.demoMode(col) {
		return nil, ErrNotConfigured
	}
	c.status.Show(LevelLoading, fmt.Sprintf("Loading %s from JSONBin...", col))

	// Monotonic token per collection: a response that completes after a
	// newer pull started must not overwrite newer data.
	seq := c.seq[col]
	token := seq.Add(1)

	var (
		code int
		body []byte
	)
	err := gout.GET(c.latestURL(col)).
		SetTimeout(c.timeout).
		SetHeader(gout.H{headerMasterKey: c.apiKey}).
		Code(&code).
		BindBody(&body).
		Do()
	if err != nil {
		c.status.Show(LevelError, "Load failed")
		return nil, errors.Wrapf(err, "jsonbin: pull %s", col)
	}
	if seq.Load() != token {
		return nil, ErrStaleResponse
	}
	switch {
	case code == 404:
		c.status.Show(LevelError, fmt.Sprintf("JSONBin %s bin not found", col))
		return nil, ErrBinNotFound
	case code < 200 || code > 299:
		c.status.Show(LevelError, fmt.Sprintf("Load failed: HTTP %d", code))
		return nil, &SyncError{Op: "pull " + string(col), StatusCode: code}
	}
	return unwrapEnvelope(body), nil
}

func (c *Client) binURL(col Collection) string {
	return c.baseURL + "/" + c.bins[col]
}

func (c *Client) latestURL(col Collection) string {
	return c.binURL(col) + "/latest"
}

// unwrapEnvelope accepts either the {"record": [...]} envelope or a bare
// array and returns the raw rows. Anything else counts as empty.
func unwrapEnvelope(body []byte) []map[string]interface{} {
	var env struct {
		Record []map[string]interface{} `json:"record"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Record != nil {
		return env.Record
	}
	var bare []map[string]interface{}
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare
	}
	return nil
}
