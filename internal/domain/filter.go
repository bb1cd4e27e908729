package domain

import (
	"strings"
	"time"
)

// SearchFilter carries the optional constraints of one search call.
// Zero values mean "no constraint"; all provided constraints are conjunctive.
type SearchFilter struct {
	Query        string
	VolumeID     *int64
	DocumentType string
	TagID        *int64
	DateFrom     *time.Time
	DateTo       *time.Time

	// IncludeUnpublished lifts the published-volume visibility predicate.
	// Set only for administrators.
	IncludeUnpublished bool
}

func (f SearchFilter) HasQuery() bool {
	return strings.TrimSpace(f.Query) != ""
}

// Empty reports whether the filter constrains nothing at all.
func (f SearchFilter) Empty() bool {
	return !f.HasQuery() &&
		f.VolumeID == nil &&
		f.DocumentType == "" &&
		f.TagID == nil &&
		f.DateFrom == nil &&
		f.DateTo == nil
}
