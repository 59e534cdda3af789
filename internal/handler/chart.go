package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dentexpo/expo-manager/internal/chart"
	"github.com/dentexpo/expo-manager/internal/repository"
)

// ChartProductModels handles GET /v1/charts/product-models and
// renders the model distribution.  ?type= selects bar or pie.
func (h *Handler) ChartProductModels(c echo.Context) error {
	stats, err := h.Stats.ProductStats(c.Request().Context())
	if err != nil {
		return h.respondRepoErr(c, err)
	}
	return h.renderChart(c, "Products by model", stats.ModelDistribution)
}

// ChartProductColors handles GET /v1/charts/product-colors.
func (h *Handler) ChartProductColors(c echo.Context) error {
	stats, err := h.Stats.ProductStats(c.Request().Context())
	if err != nil {
		return h.respondRepoErr(c, err)
	}
	return h.renderChart(c, "Products by color", stats.ColorDistribution)
}

// ChartRecordStatus handles GET /v1/charts/record-status and renders
// the participation status summary.
func (h *Handler) ChartRecordStatus(c echo.Context) error {
	summary, err := h.Stats.StatusSummary(c.Request().Context())
	if err != nil {
		return h.respondRepoErr(c, err)
	}
	return h.renderChart(c, "Participation status", summary)
}

// ChartExhibitionsMonthly handles GET /v1/charts/exhibitions-monthly
// and renders exhibitions per month as a trend line by default.
func (h *Handler) ChartExhibitionsMonthly(c echo.Context) error {
	stats, err := h.Stats.ExhibitionStats(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return h.respondRepoErr(c, err)
	}
	kind := c.QueryParam("type")
	if kind == "" {
		kind = "line"
	}
	return h.renderChartKind(c, kind, "Exhibitions per month", stats.MonthlyDistribution)
}

// ChartParticipation handles GET /v1/charts/participation and renders
// products per exhibition.
func (h *Handler) ChartParticipation(c echo.Context) error {
	counts, err := h.Stats.ParticipationByExhibition(c.Request().Context())
	if err != nil {
		return h.respondRepoErr(c, err)
	}
	return h.renderChart(c, "Products per exhibition", counts)
}

func (h *Handler) renderChart(c echo.Context, title string, items []repository.CountItem) error {
	return h.renderChartKind(c, c.QueryParam("type"), title, items)
}

func (h *Handler) renderChartKind(c echo.Context, kind, title string, items []repository.CountItem) error {
	points := make([]chart.Point, 0, len(items))
	for _, it := range items {
		points = append(points, chart.Point{Label: it.Label, Value: float64(it.Count)})
	}
	png, err := h.Charts.Render(kind, title, points)
	switch {
	case errors.Is(err, chart.ErrNoData):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no data to chart"})
	case errors.Is(err, chart.ErrUnknownType):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be one of bar, pie, line"})
	case err != nil:
		h.Log.Error("chart rendering failed", err, map[string]any{"path": c.Path()})
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "chart rendering failed"})
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
