// Package model defines the persisted entities of the trade-show
// manager and their field-level validation.  Validators return a list
// of descriptive problems instead of a single error so callers can
// surface everything wrong with a submission at once.
package model

import "fmt"

// ValidateID reports an error string when id is not a positive
// integer.  Identifiers come from AUTO_INCREMENT columns and zero
// always means "unset".
func ValidateID(id uint64, what string) []string {
	if id == 0 {
		return []string{fmt.Sprintf("%s id must be a positive integer", what)}
	}
	return nil
}
