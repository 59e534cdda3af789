package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// ProductStats handles GET /v1/stats/products.
func (h *Handler) ProductStats(c echo.Context) error {
	stats, err := h.Stats.ProductStats(c.Request().Context())
	if err != nil {
		return h.respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// ExhibitionStats handles GET /v1/stats/exhibitions.
func (h *Handler) ExhibitionStats(c echo.Context) error {
	stats, err := h.Stats.ExhibitionStats(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return h.respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// RecordStats handles GET /v1/stats/records and returns the
// participation status summary.
func (h *Handler) RecordStats(c echo.Context) error {
	summary, err := h.Stats.StatusSummary(c.Request().Context())
	if err != nil {
		return h.respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status_summary": summary})
}

// ParticipationStats handles GET /v1/stats/participation and returns
// per-exhibition product counts.
func (h *Handler) ParticipationStats(c echo.Context) error {
	counts, err := h.Stats.ParticipationByExhibition(c.Request().Context())
	if err != nil {
		return h.respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"participation": counts})
}
