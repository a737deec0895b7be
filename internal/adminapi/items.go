package adminapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/karanhb-pixel/grocery-inventory-app/internal/app"
	"github.com/karanhb-pixel/grocery-inventory-app/internal/inventory"
)

type itemHandler struct {
	app *app.Application
}

func registerItemRoutes(g *echo.Group, a *app.Application) {
	h := &itemHandler{app: a}
	g.GET("/items", h.list)
	g.GET("/items/:id", h.get)
	g.POST("/items", h.create)
	g.POST("/items/bulk", h.bulkCreate)
	g.PUT("/items/:id", h.update)
	g.DELETE("/items/:id", h.remove)
}

// list returns the filtered-then-sorted view. q matches name or category,
// sort is name (default) or category.
func (h *itemHandler) list(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	sortKey := strings.TrimSpace(c.QueryParam("sort"))
	if sortKey != inventory.SortByCategory {
		sortKey = inventory.SortByName
	}
	view := h.app.Inventory().Query(q, sortKey)
	return ok(c, map[string]interface{}{
		"items": view,
		"total": len(view),
	})
}

func (h *itemHandler) get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid item ID", nil)
	}
	item, err := h.app.Inventory().Get(id)
	if err != nil {
		return failFrom(c, err)
	}
	return ok(c, item)
}

func (h *itemHandler) create(c echo.Context) error {
	var payload inventory.Candidate
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse item", err.Error())
	}
	item, err := h.app.Inventory().Add(payload)
	if err != nil {
		return failFrom(c, err)
	}
	return ok(c, item)
}

func (h *itemHandler) bulkCreate(c echo.Context) error {
	var payload struct {
		Items []inventory.Candidate `json:"items"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse items", err.Error())
	}
	if len(payload.Items) == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "No items given", nil)
	}
	added, errs := h.app.Inventory().BulkAdd(payload.Items)
	return ok(c, map[string]interface{}{
		"added":  added,
		"errors": errStrings(errs),
	})
}

func (h *itemHandler) update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid item ID", nil)
	}
	var patch inventory.Patch
	if err := c.Bind(&patch); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse item", err.Error())
	}
	item, err := h.app.Inventory().Update(id, patch)
	if err != nil {
		return failFrom(c, err)
	}
	return ok(c, item)
}

func (h *itemHandler) remove(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid item ID", nil)
	}
	h.app.Inventory().Delete(id)
	return ok(c, map[string]interface{}{"id": id})
}

func errStrings(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}
