package scraper

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMonday reports a requested start date that is not a Monday.
	ErrInvalidMonday = errors.New("date must be a Monday")

	// ErrTooOld reports a requested Monday more than two weeks in the past.
	ErrTooOld = errors.New("date cannot be more than 2 weeks in the past")

	// ErrMissingTable reports a fetched page without the agenda table. This
	// usually means the site's markup changed and the selectors are stale.
	ErrMissingTable = errors.New("table with class schedule not found on the page")
)

// HTTPError reports a transport failure or non-success status while
// fetching a page.
type HTTPError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetching %s: unexpected status code %d", e.URL, e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
