package scraper

import "fmt"

// RunError reports a failure that aborted a company's run, such as an unreachable
// listing page. Individual job page failures never produce a RunError.
type RunError struct {
	Company string
	URL     string
	Message string
	Cause   error
}

func (e *RunError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("scrape %s: %s (%s): %v", e.Company, e.Message, e.URL, e.Cause)
	}
	return fmt.Sprintf("scrape %s: %s (%s)", e.Company, e.Message, e.URL)
}

func (e *RunError) Unwrap() error {
	return e.Cause
}
