// Package handler implements the HTTP endpoints: CRUD for products,
// exhibitions and participation records, statistics, exports and
// chart rendering.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/dentexpo/expo-manager/internal/chart"
	"github.com/dentexpo/expo-manager/internal/config"
	"github.com/dentexpo/expo-manager/internal/export"
	"github.com/dentexpo/expo-manager/internal/logging"
	"github.com/dentexpo/expo-manager/internal/middleware"
	"github.com/dentexpo/expo-manager/internal/report"
	"github.com/dentexpo/expo-manager/internal/repository"
)

// Handler bundles the repositories and services used by the HTTP
// endpoints.  One instance serves all routes.
type Handler struct {
	Products    *repository.ProductRepo
	Exhibitions *repository.ExhibitionRepo
	Records     *repository.RecordRepo
	Stats       *repository.StatsRepo
	Users       *repository.UserRepo
	Builder     *report.Builder
	Exports     *export.Service
	Charts      *chart.Renderer
	Log         *logging.Logger
	Auth        config.AuthConfig
	Cache       config.CacheConfig
	Dates       config.DateConfig
	Redis       *redis.Client
	AsyncExport bool // broker available; async export requests allowed
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// respondValidation reports field-level validation problems.  The
// whole list is returned so a client can fix everything in one round.
func respondValidation(c echo.Context, errs []string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
}

// respondRepoErr translates repository sentinels into HTTP statuses;
// anything unexpected is logged and reported as a 500.
func (h *Handler) respondRepoErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrExhibitionNotFound),
		errors.Is(err, repository.ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "dependent participation records exist"})
	default:
		h.Log.Error("database operation failed", err, map[string]any{"path": c.Path()})
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// containsFold reports whether s contains substr case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// invalidate drops all cached read responses after a write.
func (h *Handler) invalidate(c echo.Context) {
	middleware.InvalidateCache(c.Request().Context(), h.Cache, h.Redis)
}
