package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dentexpo/expo-manager/internal/model"
)

type exhibitionBody struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// exhibitionView adds the derived schedule fields to the stored row.
type exhibitionView struct {
	model.Exhibition
	Status           string `json:"status"`
	DurationDays     int    `json:"duration_days"`
	NeedsPreparation bool   `json:"needs_preparation"`
}

func (h *Handler) viewOf(e *model.Exhibition) exhibitionView {
	now := time.Now().UTC()
	return exhibitionView{
		Exhibition:       *e,
		Status:           e.StatusOn(now),
		DurationDays:     e.Duration(),
		NeedsPreparation: e.NeedsPreparationOn(now),
	}
}

// parseExhibition binds and validates an exhibition payload.  Dates
// use the configured date layout.
func (h *Handler) parseExhibition(c echo.Context, id uint64) (*model.Exhibition, []string, error) {
	var body exhibitionBody
	if err := c.Bind(&body); err != nil {
		return nil, nil, err
	}
	e := &model.Exhibition{ID: id, Name: body.Name, Address: body.Address}
	var errs []string
	if body.StartDate != "" {
		t, err := time.Parse(h.Dates.DateFormat, body.StartDate)
		if err != nil {
			errs = append(errs, "invalid start date format")
		} else {
			e.StartDate = t
		}
	}
	if body.EndDate != "" {
		t, err := time.Parse(h.Dates.DateFormat, body.EndDate)
		if err != nil {
			errs = append(errs, "invalid end date format")
		} else {
			e.EndDate = t
		}
	}
	errs = append(errs, e.Validate()...)
	return e, errs, nil
}

// CreateExhibition handles POST /v1/exhibitions.
func (h *Handler) CreateExhibition(c echo.Context) error {
	e, errs, err := h.parseExhibition(c, 0)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(errs) > 0 {
		return respondValidation(c, errs)
	}
	if err := h.Exhibitions.Create(c.Request().Context(), e); err != nil {
		return h.respondRepoErr(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, h.viewOf(e))
}

// ListExhibitions handles GET /v1/exhibitions.  Optional from/to
// parameters restrict the result to a date range; q filters by name
// or address.
func (h *Handler) ListExhibitions(c echo.Context) error {
	ctx := c.Request().Context()

	var exhibitions []model.Exhibition
	var err error
	from, to := c.QueryParam("from"), c.QueryParam("to")
	if from != "" && to != "" {
		f, errF := time.Parse(h.Dates.DateFormat, from)
		t, errT := time.Parse(h.Dates.DateFormat, to)
		if errF != nil || errT != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date range"})
		}
		exhibitions, err = h.Exhibitions.ListByDateRange(ctx, f, t)
	} else {
		exhibitions, err = h.Exhibitions.List(ctx)
	}
	if err != nil {
		return h.respondRepoErr(c, err)
	}

	q := c.QueryParam("q")
	views := make([]exhibitionView, 0, len(exhibitions))
	for i := range exhibitions {
		e := &exhibitions[i]
		if q != "" && !matchesExhibition(e, q) {
			continue
		}
		views = append(views, h.viewOf(e))
	}
	return c.JSON(http.StatusOK, views)
}

func matchesExhibition(e *model.Exhibition, q string) bool {
	return containsFold(e.Name, q) || containsFold(e.Address, q)
}

// GetExhibition handles GET /v1/exhibitions/:id.
func (h *Handler) GetExhibition(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "exhibition id must be a positive integer"})
	}
	e, err := h.Exhibitions.GetByID(c.Request().Context(), id)
	if err != nil {
		return h.respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, h.viewOf(e))
}

// UpdateExhibition handles PUT /v1/exhibitions/:id.
func (h *Handler) UpdateExhibition(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "exhibition id must be a positive integer"})
	}
	e, errs, err := h.parseExhibition(c, id)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(errs) > 0 {
		return respondValidation(c, errs)
	}
	if err := h.Exhibitions.Update(c.Request().Context(), e); err != nil {
		return h.respondRepoErr(c, err)
	}
	h.invalidate(c)
	stored, err := h.Exhibitions.GetByID(c.Request().Context(), id)
	if err != nil {
		return h.respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, h.viewOf(stored))
}

// DeleteExhibition handles DELETE /v1/exhibitions/:id, refusing with
// 409 when participation records exist unless cascade=1.
func (h *Handler) DeleteExhibition(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "exhibition id must be a positive integer"})
	}
	cascade := c.QueryParam("cascade") == "1"
	if err := h.Exhibitions.Delete(c.Request().Context(), id, cascade); err != nil {
		return h.respondRepoErr(c, err)
	}
	h.invalidate(c)
	return c.NoContent(http.StatusNoContent)
}
