// Package adminapi exposes the inventory, bills, analysis and sync
// operations over JSON HTTP. One file per resource; all responses share the
// ok/fail envelope.
package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/karanhb-pixel/grocery-inventory-app/internal/app"
	"github.com/karanhb-pixel/grocery-inventory-app/internal/domain"
)

// Register mounts every admin API route group on e.
func Register(e *echo.Echo, a *app.Application) {
	g := e.Group("/api")
	registerItemRoutes(g, a)
	registerBillRoutes(g, a)
	registerAnalysisRoutes(g, a)
	registerSyncRoutes(g, a)
	registerExchangeRoutes(g, a)

	g.DELETE("/data", func(c echo.Context) error {
		a.ClearAll()
		return ok(c, map[string]interface{}{"cleared": true})
	})
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code": 0,
		"data": data,
	})
}

func fail(c echo.Context, status int, code, msg string, detail interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"code":    1,
		"error":   code,
		"message": msg,
		"detail":  detail,
	})
}

// failFrom maps an operation error onto an HTTP status and error code.
func failFrom(c echo.Context, err error) error {
	switch {
	case domain.IsValidation(err):
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", "record not found", nil)
	default:
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "operation failed", err.Error())
	}
}
