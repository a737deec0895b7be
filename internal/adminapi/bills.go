package adminapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/karanhb-pixel/grocery-inventory-app/internal/app"
	"github.com/karanhb-pixel/grocery-inventory-app/internal/bills"
)

type billHandler struct {
	app *app.Application
}

func registerBillRoutes(g *echo.Group, a *app.Application) {
	h := &billHandler{app: a}
	g.GET("/bills", h.list)
	g.GET("/bills/lastprice", h.lastPrice)
	g.POST("/bills", h.create)
	g.POST("/bills/bulk", h.bulkCreate)
	g.PUT("/bills/:id", h.update)
	g.DELETE("/bills/:id", h.remove)
}

// list returns all bills newest first, or exact matches for ?date=.
func (h *billHandler) list(c echo.Context) error {
	date := strings.TrimSpace(c.QueryParam("date"))
	view := h.app.Bills().FilterByDate(date)
	return ok(c, map[string]interface{}{
		"bills": view,
		"total": len(view),
	})
}

// lastPrice prefills a new bill's price field with the most recently
// recorded purchase price for the item (?item= is an id or a name).
func (h *billHandler) lastPrice(c echo.Context) error {
	ref := strings.TrimSpace(c.QueryParam("item"))
	if ref == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "item query parameter required", nil)
	}
	price, found := h.app.Bills().LastPriceForItem(ref)
	return ok(c, map[string]interface{}{
		"item":  ref,
		"price": price,
		"found": found,
	})
}

func (h *billHandler) create(c echo.Context) error {
	var payload bills.Candidate
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse bill", err.Error())
	}
	bill, err := h.app.Bills().Add(payload)
	if err != nil {
		return failFrom(c, err)
	}
	return ok(c, bill)
}

func (h *billHandler) bulkCreate(c echo.Context) error {
	var payload struct {
		Date string          `json:"date"`
		Rows []bills.BulkRow `json:"rows"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse bills", err.Error())
	}
	if strings.TrimSpace(payload.Date) == "" || len(payload.Rows) == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Date and at least one row required", nil)
	}
	added, errs := h.app.Bills().BulkAdd(payload.Date, payload.Rows)
	return ok(c, map[string]interface{}{
		"added":  added,
		"errors": errStrings(errs),
	})
}

func (h *billHandler) update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid bill ID", nil)
	}
	var patch bills.Patch
	if err := c.Bind(&patch); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse bill", err.Error())
	}
	bill, err := h.app.Bills().Update(id, patch)
	if err != nil {
		return failFrom(c, err)
	}
	return ok(c, bill)
}

func (h *billHandler) remove(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid bill ID", nil)
	}
	h.app.Bills().Delete(id)
	return ok(c, map[string]interface{}{"id": id})
}
