// Package house holds the pieces shared by every House record type: the
// source-location triple attached to each record and the error taxonomy the
// extractors report through.
package house

import "fmt"

// Sources records where a scraped record came from and where its two on-disk
// representations live. CachePath and JSONPath are deterministic functions of
// the url and record identity, so re-scraping the same page overwrites the
// old files instead of accumulating duplicates.
type Sources struct {
	URL       string `json:"url"`
	CachePath string `json:"html"`
	JSONPath  string `json:"json"`
}

// UnrecognizedMarkupError means an extractor hit a table label or element it
// has no case for. This is deliberately fatal for the record: when
// congress.gov changes its markup we want to find out immediately, not
// silently drop a field.
type UnrecognizedMarkupError struct {
	Entity string
	Label  string
}

func (e *UnrecognizedMarkupError) Error() string {
	return fmt.Sprintf("%s: unrecognized markup label %q", e.Entity, e.Label)
}

// MissingFieldError means a field the record cannot exist without (a bill
// title, a vote question) was absent from the source document.
type MissingFieldError struct {
	Entity string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q", e.Entity, e.Field)
}
