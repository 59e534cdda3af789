package model

import (
	"time"
)

// RecordStatus is the participation state of a product at an
// exhibition.  The set matches the ENUM column on
// product_exhibition_records.
type RecordStatus string

const (
	StatusPending    RecordStatus = "pending"
	StatusInProgress RecordStatus = "in-progress"
	StatusEnded      RecordStatus = "ended"
)

// AllStatuses lists every valid participation status in display order.
var AllStatuses = []RecordStatus{StatusPending, StatusInProgress, StatusEnded}

// Valid reports whether s is one of the enumerated statuses.
func (s RecordStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusEnded:
		return true
	}
	return false
}

// ParticipationRecord links a product to an exhibition it attends.
// It is the join entity of the many-to-many relationship and carries
// the participation status.  The name fields are joined from the
// parent tables for display and are not persisted here.
type ParticipationRecord struct {
	ID             uint64       `json:"record_id"`                 // product_exhibition_records.record_id
	ProductID      uint64       `json:"product_id"`                // product_exhibition_records.product_id
	ExhibitionID   uint64       `json:"exhibition_id"`             // product_exhibition_records.exhibition_id
	Status         RecordStatus `json:"status"`                    // product_exhibition_records.status
	ProductName    string       `json:"product_name,omitempty"`    // joined products.name
	ExhibitionName string       `json:"exhibition_name,omitempty"` // joined exhibitions.name
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Validate checks foreign keys and the status enum.  Both referenced
// ids must be positive; referential integrity itself is enforced by
// the store.
func (r *ParticipationRecord) Validate() []string {
	var errs []string
	errs = append(errs, ValidateID(r.ProductID, "product")...)
	errs = append(errs, ValidateID(r.ExhibitionID, "exhibition")...)
	if r.Status == "" {
		r.Status = StatusPending
	} else if !r.Status.Valid() {
		errs = append(errs, "status must be one of pending, in-progress, ended")
	}
	return errs
}

// StatusForDates derives the participation status from the exhibition
// window: pending before it opens, in-progress while it runs, ended
// after the last day.
func StatusForDates(start, end, day time.Time) RecordStatus {
	d := truncateToDay(day)
	switch {
	case d.Before(truncateToDay(start)):
		return StatusPending
	case d.After(truncateToDay(end)):
		return StatusEnded
	default:
		return StatusInProgress
	}
}

// Active reports whether the record still refers to a current or
// future participation.
func (r *ParticipationRecord) Active() bool {
	return r.Status == StatusPending || r.Status == StatusInProgress
}

// CountByStatus tallies records per status, including zero entries
// for statuses with no records so chart axes stay stable.
func CountByStatus(records []ParticipationRecord) map[RecordStatus]int {
	counts := make(map[RecordStatus]int, len(AllStatuses))
	for _, s := range AllStatuses {
		counts[s] = 0
	}
	for _, r := range records {
		counts[r.Status]++
	}
	return counts
}
