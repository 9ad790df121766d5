// Package crawling discovers job links and research papers on listing pages.
package crawling

import "fmt"

// DiscoveryError reports a listing or publications page that could not be searched for links.
type DiscoveryError struct {
	Page    string
	Message string
	Cause   error
}

func (e *DiscoveryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("link discovery on %s: %s: %v", e.Page, e.Message, e.Cause)
	}
	return fmt.Sprintf("link discovery on %s: %s", e.Page, e.Message)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Cause
}
