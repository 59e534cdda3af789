// Package repository contains the data access layer: thin wrappers
// around *sql.DB issuing parameterized SQL.  Sentinel errors let
// handlers distinguish failure scenarios, e.g. ErrConflict signals
// that a delete cannot proceed because dependent participation
// records exist.
package repository

import "errors"

// ErrProductNotFound indicates no product row matched the lookup.
var ErrProductNotFound = errors.New("product not found")

// ErrExhibitionNotFound indicates no exhibition row matched the lookup.
var ErrExhibitionNotFound = errors.New("exhibition not found")

// ErrRecordNotFound indicates no participation record matched the lookup.
var ErrRecordNotFound = errors.New("participation record not found")

// ErrUserNotFound indicates no operator account matched the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrConflict is returned when a delete cannot be performed because
// of dependent rows, such as removing a product that still has
// participation records.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")
