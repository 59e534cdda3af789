package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dentexpo/expo-manager/internal/export"
	"github.com/dentexpo/expo-manager/internal/queue"
)

// exportEntities are the datasets that can be exported.
var exportEntities = map[string]bool{
	"products": true, "exhibitions": true, "records": true,
}

// Export handles GET /v1/export/:entity?format=xlsx|csv|pdf and
// writes the file synchronously, returning its path.
func (h *Handler) Export(c echo.Context) error {
	entity := c.Param("entity")
	if !exportEntities[entity] {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown export entity"})
	}
	format := c.QueryParam("format")
	if format == "" {
		format = "xlsx"
	}
	// JSON always means the full-database snapshot.
	if format == "json" {
		return h.ExportSnapshot(c)
	}

	ds, err := h.Builder.Dataset(c.Request().Context(), entity)
	if err != nil {
		return h.respondRepoErr(c, err)
	}
	path, err := h.Exports.Export(format, ds)
	if err != nil {
		return h.respondExportErr(c, err)
	}
	h.Log.Info("export written", map[string]any{"entity": entity, "format": format, "path": path})
	return c.JSON(http.StatusOK, echo.Map{"path": path})
}

// ExportSnapshot handles GET /v1/export/snapshot and writes a full
// JSON backup of the database.
func (h *Handler) ExportSnapshot(c echo.Context) error {
	snap, err := h.Builder.Snapshot(c.Request().Context())
	if err != nil {
		return h.respondRepoErr(c, err)
	}
	path, err := h.Exports.WriteSnapshot(snap)
	if err != nil {
		return h.respondExportErr(c, err)
	}
	h.Log.Info("snapshot written", map[string]any{"path": path})
	return c.JSON(http.StatusOK, echo.Map{"path": path})
}

// ExportAsync handles POST /v1/export/:entity/async and enqueues the
// export for the background worker.  When the broker is unreachable
// the export falls back to running synchronously.
func (h *Handler) ExportAsync(c echo.Context) error {
	entity := c.Param("entity")
	if !exportEntities[entity] && entity != "snapshot" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown export entity"})
	}
	var body struct {
		Format string `json:"format"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Format == "" {
		body.Format = "xlsx"
	}

	var requestedBy string
	if sub := c.Get("user_id"); sub != nil {
		requestedBy = fmt.Sprint(sub)
	}
	ev := queue.ExportRequestedEvent{
		Entity:      entity,
		Format:      body.Format,
		RequestedBy: requestedBy,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if h.AsyncExport {
		if err := queue.PublishExportRequested(c.Request().Context(), ev); err == nil {
			return c.JSON(http.StatusAccepted, echo.Map{"queued": true})
		}
		h.Log.Warn("export queue unavailable, running synchronously", map[string]any{"entity": entity})
	}

	// Fallback: produce the file inline.
	if entity == "snapshot" {
		return h.ExportSnapshot(c)
	}
	ds, err := h.Builder.Dataset(c.Request().Context(), entity)
	if err != nil {
		return h.respondRepoErr(c, err)
	}
	path, err := h.Exports.Export(body.Format, ds)
	if err != nil {
		return h.respondExportErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"path": path, "queued": false})
}

// respondExportErr maps export failures: empty datasets and unknown
// formats are client errors, everything else (disk full, permission)
// is logged and reported as 500 for the operator to remediate.
func (h *Handler) respondExportErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, export.ErrNoData):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to export"})
	case errors.Is(err, export.ErrUnknownFormat):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "format must be one of xlsx, csv, pdf"})
	default:
		h.Log.Error("export failed", err, map[string]any{"path": c.Path()})
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export failed; check disk space and permissions"})
	}
}
