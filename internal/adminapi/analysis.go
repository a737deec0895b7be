package adminapi

import (
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/karanhb-pixel/grocery-inventory-app/internal/app"
)

type analysisHandler struct {
	app *app.Application
}

func registerAnalysisRoutes(g *echo.Group, a *app.Application) {
	h := &analysisHandler{app: a}
	g.GET("/analysis/frequency", h.frequency)
	g.GET("/analysis/consumption", h.consumption)
}

// frequency groups bills inside the lookback window by item name, most
// purchased first.
func (h *analysisHandler) frequency(c echo.Context) error {
	days := cast.ToInt(c.QueryParam("days"))
	if days <= 0 {
		days = 30
	}
	stats := h.app.Analysis().Frequency(days)
	return ok(c, map[string]interface{}{
		"days":  days,
		"stats": stats,
		"total": len(stats),
	})
}

func (h *analysisHandler) consumption(c echo.Context) error {
	days := cast.ToInt(c.QueryParam("days"))
	if days <= 0 {
		days = 30
	}
	stats := h.app.Analysis().Consumption(days)
	return ok(c, map[string]interface{}{
		"days":  days,
		"stats": stats,
	})
}
