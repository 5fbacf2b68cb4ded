package flightclient

import "fmt"

// ProviderLookupError means a place name could not be resolved to a code.
// StatusCode and Body are set when the upstream answered with an error status.
type ProviderLookupError struct {
	Place      string
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderLookupError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("lookup %q: upstream returned status %d: %s", e.Place, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("lookup %q: %v", e.Place, e.Err)
	default:
		return fmt.Sprintf("lookup %q: no matching location", e.Place)
	}
}

func (e *ProviderLookupError) Unwrap() error {
	return e.Err
}

// ProviderSearchError means the flight search call failed. The upstream
// status code and body are kept for diagnostics.
type ProviderSearchError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderSearchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("search: upstream returned status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("search: %v", e.Err)
}

func (e *ProviderSearchError) Unwrap() error {
	return e.Err
}
