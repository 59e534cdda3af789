package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dentexpo/expo-manager/internal/model"
	"github.com/dentexpo/expo-manager/internal/repository"
)

// CreateRecord handles POST /v1/records and links a product to an
// exhibition.  Status defaults to pending when omitted.
func (h *Handler) CreateRecord(c echo.Context) error {
	var body struct {
		ProductID    uint64 `json:"product_id"`
		ExhibitionID uint64 `json:"exhibition_id"`
		Status       string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	rec := model.ParticipationRecord{
		ProductID:    body.ProductID,
		ExhibitionID: body.ExhibitionID,
		Status:       model.RecordStatus(body.Status),
	}
	if errs := rec.Validate(); len(errs) > 0 {
		return respondValidation(c, errs)
	}
	if err := h.Records.Create(c.Request().Context(), &rec); err != nil {
		return h.respondRepoErr(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, rec)
}

// ListRecords handles GET /v1/records.  Optional filters: status,
// product_id, exhibition_id.
func (h *Handler) ListRecords(c echo.Context) error {
	ctx := c.Request().Context()

	if s := c.QueryParam("status"); s != "" {
		status := model.RecordStatus(s)
		if !status.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be one of pending, in-progress, ended"})
		}
		records, err := h.Records.ListByStatus(ctx, status)
		if err != nil {
			return h.respondRepoErr(c, err)
		}
		return respondRecords(c, records)
	}
	if s := c.QueryParam("product_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "product id must be a positive integer"})
		}
		records, err := h.Records.ListByProduct(ctx, id)
		if err != nil {
			return h.respondRepoErr(c, err)
		}
		return respondRecords(c, records)
	}
	if s := c.QueryParam("exhibition_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "exhibition id must be a positive integer"})
		}
		records, err := h.Records.ListByExhibition(ctx, id)
		if err != nil {
			return h.respondRepoErr(c, err)
		}
		return respondRecords(c, records)
	}

	records, err := h.Records.List(ctx)
	if err != nil {
		return h.respondRepoErr(c, err)
	}
	return respondRecords(c, records)
}

func respondRecords(c echo.Context, records []model.ParticipationRecord) error {
	if records == nil {
		records = []model.ParticipationRecord{}
	}
	return c.JSON(http.StatusOK, records)
}

// GetRecord handles GET /v1/records/:id.
func (h *Handler) GetRecord(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "record id must be a positive integer"})
	}
	rec, err := h.Records.GetByID(c.Request().Context(), id)
	if err != nil {
		return h.respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

// UpdateRecordStatus handles PATCH /v1/records/:id/status.
func (h *Handler) UpdateRecordStatus(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "record id must be a positive integer"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := model.RecordStatus(body.Status)
	if !status.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be one of pending, in-progress, ended"})
	}
	if err := h.Records.UpdateStatus(c.Request().Context(), id, status); err != nil {
		return h.respondRepoErr(c, err)
	}
	h.invalidate(c)
	rec, err := h.Records.GetByID(c.Request().Context(), id)
	if err != nil {
		return h.respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

// DeleteRecord handles DELETE /v1/records/:id.
func (h *Handler) DeleteRecord(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "record id must be a positive integer"})
	}
	if err := h.Records.Delete(c.Request().Context(), id); err != nil {
		return h.respondRepoErr(c, err)
	}
	h.invalidate(c)
	return c.NoContent(http.StatusNoContent)
}

// RefreshRecordStatuses handles POST /v1/records/refresh and derives
// every record's status from its exhibition window.
func (h *Handler) RefreshRecordStatuses(c echo.Context) error {
	n, err := h.Records.RefreshStatuses(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return h.respondRepoErr(c, err)
	}
	if n > 0 {
		h.invalidate(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": n})
}

// CleanupRecords handles POST /v1/maintenance/cleanup and removes
// records of exhibitions that ended more than days ago (default 365),
// then optimizes the tables.
func (h *Handler) CleanupRecords(c echo.Context) error {
	days := 365
	if s := c.QueryParam("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "days must be a positive integer"})
		}
		days = n
	}
	removed, err := h.Records.CleanupOlderThan(c.Request().Context(), days, time.Now().UTC())
	if err != nil {
		return h.respondRepoErr(c, err)
	}
	if removed > 0 {
		h.invalidate(c)
		if err := repository.Optimize(c.Request().Context(), h.Products.DB()); err != nil {
			h.Log.Warn("table optimize failed after cleanup", map[string]any{"reason": err.Error()})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"removed": removed})
}
