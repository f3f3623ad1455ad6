// Package dataset reads raw tables and aligns heterogeneous series onto the
// date index of a primary price series.
package dataset

import "errors"

// Errors returned by readers and alignment.
var (
	// ErrMalformedInput is returned for unreadable headers, dates or numbers.
	ErrMalformedInput = errors.New("malformed input")

	// ErrDuplicateDate is returned when a series holds the same date twice.
	ErrDuplicateDate = errors.New("duplicate date")

	// ErrInvalidSeries is returned for an inconsistent set of series specs.
	ErrInvalidSeries = errors.New("invalid series")
)
