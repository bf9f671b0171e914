package preview

import "fmt"

// Error represents a generic preview fetch failure: bad URL, network error,
// or a non-2xx status that is not an anti-scraping signal.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("preview error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("preview error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// BlockedError indicates the site refused the request with an explicit
// anti-scraping status (401, 403 or 999). Callers show a "blocked by site"
// message instead of a generic network error.
type BlockedError struct {
	URL        string
	StatusCode int
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("preview blocked by site %s (HTTP %d)", e.URL, e.StatusCode)
}

// TimeoutError indicates the fetch exceeded its fixed timeout.
type TimeoutError struct {
	URL string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("preview fetch timed out for %s", e.URL)
}
