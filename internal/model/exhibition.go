package model

import (
	"strings"
	"time"
)

// Exhibition statuses derived from the event window relative to today.
const (
	ExhibitionUpcoming = "upcoming"
	ExhibitionOngoing  = "ongoing"
	ExhibitionEnded    = "ended"
)

// preparationWindowDays is how many days before the start date an
// exhibition is flagged as needing preparation.
const preparationWindowDays = 7

// Exhibition is a trade show at which products can be exhibited.
// StartDate and EndDate are calendar dates; the end date is inclusive.
type Exhibition struct {
	ID        uint64    `json:"exhibition_id"` // exhibitions.exhibition_id
	Name      string    `json:"name"`          // exhibitions.name
	Address   string    `json:"address"`       // exhibitions.address
	StartDate time.Time `json:"start_date"`    // exhibitions.start_date
	EndDate   time.Time `json:"end_date"`      // exhibitions.end_date
	CreatedAt time.Time `json:"created_at"`    // exhibitions.created_at
	UpdatedAt time.Time `json:"updated_at"`    // exhibitions.updated_at
}

// Validate checks field presence, limits and date ordering.  The
// schema does not enforce start <= end, so this is the only gate.
func (e *Exhibition) Validate() []string {
	var errs []string
	if strings.TrimSpace(e.Name) == "" {
		errs = append(errs, "name is required")
	} else if len(e.Name) > maxNameLen {
		errs = append(errs, "name must be at most 100 characters")
	}
	if strings.TrimSpace(e.Address) == "" {
		errs = append(errs, "address is required")
	} else if len(e.Address) > maxNameLen {
		errs = append(errs, "address must be at most 100 characters")
	}
	if e.StartDate.IsZero() {
		errs = append(errs, "start date is required")
	}
	if e.EndDate.IsZero() {
		errs = append(errs, "end date is required")
	}
	if !e.StartDate.IsZero() && !e.EndDate.IsZero() && e.StartDate.After(e.EndDate) {
		errs = append(errs, "start date must not be after end date")
	}
	return errs
}

// StatusOn classifies the exhibition relative to the given day.
func (e *Exhibition) StatusOn(day time.Time) string {
	d := truncateToDay(day)
	switch {
	case d.Before(truncateToDay(e.StartDate)):
		return ExhibitionUpcoming
	case d.After(truncateToDay(e.EndDate)):
		return ExhibitionEnded
	default:
		return ExhibitionOngoing
	}
}

// Status classifies the exhibition relative to today (UTC).
func (e *Exhibition) Status() string {
	return e.StatusOn(time.Now().UTC())
}

// Duration returns the length of the exhibition in days, inclusive of
// both endpoints.
func (e *Exhibition) Duration() int {
	return int(truncateToDay(e.EndDate).Sub(truncateToDay(e.StartDate)).Hours()/24) + 1
}

// Overlaps reports whether two exhibitions share at least one day.
func (e *Exhibition) Overlaps(other *Exhibition) bool {
	return !e.StartDate.After(other.EndDate) && !e.EndDate.Before(other.StartDate)
}

// NeedsPreparationOn reports whether the given day falls inside the
// preparation window immediately before the exhibition starts.
func (e *Exhibition) NeedsPreparationOn(day time.Time) bool {
	until := int(truncateToDay(e.StartDate).Sub(truncateToDay(day)).Hours() / 24)
	return until > 0 && until <= preparationWindowDays
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
