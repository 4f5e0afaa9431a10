package provider

import (
	"fmt"
	"net/http"
)

const networkErrorMessage = "Unable to load country data. Please check your internet connection and try again."

// NetworkError is returned when the country catalogue cannot be loaded. Its
// message is safe to show to the user; the cause is available via Unwrap.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return networkErrorMessage }

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}
