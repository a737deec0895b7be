package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/karanhb-pixel/grocery-inventory-app/internal/app"
	"github.com/karanhb-pixel/grocery-inventory-app/internal/jsonbin"
)

type syncHandler struct {
	app *app.Application
}

func registerSyncRoutes(g *echo.Group, a *app.Application) {
	h := &syncHandler{app: a}
	g.GET("/sync/status", h.status)
	g.GET("/sync/ping/:collection", h.ping)
	g.POST("/sync/push/:collection", h.push)
	g.POST("/sync/pull/:collection", h.pull)
}

func collectionParam(c echo.Context) (jsonbin.Collection, bool) {
	switch c.Param("collection") {
	case "inventory":
		return jsonbin.CollectionInventory, true
	case "bills":
		return jsonbin.CollectionBills, true
	default:
		return "", false
	}
}

func (h *syncHandler) status(c echo.Context) error {
	return ok(c, map[string]interface{}{
		"inventoryConfigured": h.app.SyncClient().Configured(jsonbin.CollectionInventory),
		"billsConfigured":     h.app.SyncClient().Configured(jsonbin.CollectionBills),
		"status":              h.app.SyncStatus().Current(),
	})
}

func (h *syncHandler) ping(c echo.Context) error {
	col, valid := collectionParam(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "unknown collection", nil)
	}
	if err := h.app.SyncClient().Ping(col); err != nil {
		return failSync(c, err)
	}
	return ok(c, map[string]interface{}{"collection": col, "reachable": true})
}

// push overwrites the remote bin with the local collection right away,
// bypassing the debounce window.
func (h *syncHandler) push(c echo.Context) error {
	col, valid := collectionParam(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "unknown collection", nil)
	}
	var err error
	if col == jsonbin.CollectionInventory {
		err = h.app.PushInventory()
	} else {
		err = h.app.PushBills()
	}
	if err != nil {
		return failSync(c, err)
	}
	return ok(c, map[string]interface{}{"collection": col, "pushed": true})
}

// pull replaces the local collection with the remote one. The pulled data is
// persisted locally but never echoed back to the remote.
func (h *syncHandler) pull(c echo.Context) error {
	col, valid := collectionParam(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "unknown collection", nil)
	}
	var (
		count int
		err   error
	)
	if col == jsonbin.CollectionInventory {
		count, err = h.app.PullInventory()
	} else {
		count, err = h.app.PullBills()
	}
	if err != nil {
		return failSync(c, err)
	}
	return ok(c, map[string]interface{}{"collection": col, "records": count})
}

// failSync maps sync client errors onto the HTTP surface.
func failSync(c echo.Context, err error) error {
	switch {
	case errors.Is(err, jsonbin.ErrNotConfigured):
		return fail(c, http.StatusConflict, "SYNC_NOT_CONFIGURED", "remote sync is not configured", nil)
	case errors.Is(err, jsonbin.ErrBinNotFound):
		return fail(c, http.StatusBadGateway, "SYNC_BIN_NOT_FOUND", "remote bin does not exist", nil)
	case errors.Is(err, jsonbin.ErrStaleResponse):
		return fail(c, http.StatusConflict, "SYNC_STALE", "a newer sync superseded this request", nil)
	default:
		return fail(c, http.StatusBadGateway, "SYNC_FAILED", "remote sync failed", err.Error())
	}
}
