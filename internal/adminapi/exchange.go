package adminapi

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/karanhb-pixel/grocery-inventory-app/internal/app"
)

type exchangeHandler struct {
	app *app.Application
}

func registerExchangeRoutes(g *echo.Group, a *app.Application) {
	h := &exchangeHandler{app: a}
	g.GET("/export/items.json", h.exportJSON)
	g.GET("/export/items.csv", h.exportCSV)
	g.POST("/import/items.json", h.importJSON)
	g.POST("/import/items.csv", h.importCSV)
}

func (h *exchangeHandler) exportJSON(c echo.Context) error {
	data, err := h.app.Inventory().ExportJSON()
	if err != nil {
		return failFrom(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="inventory.json"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

func (h *exchangeHandler) exportCSV(c echo.Context) error {
	data, err := h.app.Inventory().ExportCSV()
	if err != nil {
		return failFrom(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="inventory.csv"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(data))
}

// importJSON replaces the whole inventory with the posted array. Invalid
// rows are dropped, not rejected.
func (h *exchangeHandler) importJSON(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "unable to read request body", err.Error())
	}
	count, err := h.app.Inventory().ImportJSON(body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "import failed", err.Error())
	}
	return ok(c, map[string]interface{}{"imported": count})
}

func (h *exchangeHandler) importCSV(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "unable to read request body", err.Error())
	}
	count, err := h.app.Inventory().ImportCSV(string(body))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "import failed", err.Error())
	}
	return ok(c, map[string]interface{}{"imported": count})
}
