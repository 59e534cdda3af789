package model

import (
	"strconv"
	"strings"
	"time"
)

// Product is a piece of dental equipment that can be shown at
// exhibitions.  Products are linked to exhibitions many-to-many
// through ParticipationRecord.
type Product struct {
	ID        uint64    `json:"product_id"` // products.product_id
	Model     string    `json:"model"`      // products.model
	Name      string    `json:"name"`       // products.name
	Color     string    `json:"color"`      // products.color
	CreatedAt time.Time `json:"created_at"` // products.created_at
	UpdatedAt time.Time `json:"updated_at"` // products.updated_at
}

// Field length caps mirror the column widths in the schema.
const (
	maxModelLen = 50
	maxNameLen  = 100
	maxColorLen = 20
)

// Validate checks field presence and limits and returns a list of
// human-readable problems.  An empty slice means the product is valid.
// New products get their ID from the DB, so ID is not checked here;
// ValidateID covers contexts where an existing ID is required.
func (p *Product) Validate() []string {
	var errs []string
	if strings.TrimSpace(p.Model) == "" {
		errs = append(errs, "model is required")
	} else if len(p.Model) > maxModelLen {
		errs = append(errs, "model must be at most 50 characters")
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "name is required")
	} else if len(p.Name) > maxNameLen {
		errs = append(errs, "name must be at most 100 characters")
	}
	if strings.TrimSpace(p.Color) == "" {
		errs = append(errs, "color is required")
	} else if len(p.Color) > maxColorLen {
		errs = append(errs, "color must be at most 20 characters")
	}
	return errs
}

// Series classifies the product by its model prefix.  The catalog has
// two established lines; anything else falls into "other".
func (p *Product) Series() string {
	switch {
	case strings.HasPrefix(p.Model, "T2"):
		return "T2 series"
	case strings.HasPrefix(p.Model, "K3"):
		return "K3 series"
	default:
		return "other"
	}
}

// MatchesSearch reports whether the product matches a free-text search
// term across its ID, model, name, color and series.
func (p *Product) MatchesSearch(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	fields := []string{
		strconv.FormatUint(p.ID, 10),
		strings.ToLower(p.Model),
		strings.ToLower(p.Name),
		strings.ToLower(p.Color),
		strings.ToLower(p.Series()),
	}
	for _, f := range fields {
		if strings.Contains(f, term) {
			return true
		}
	}
	return false
}
