package predict

import (
	"fmt"
)

// TransportError means no HTTP response could be obtained.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("prediction service unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPError means the service answered with a non-success status.
// Body holds the response text when it could be read.
type HTTPError struct {
	Body       string
	StatusCode int
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("prediction service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("prediction service returned status %d: %s", e.StatusCode, e.Body)
}

// DomainError carries the error message reported in a parsed response body.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return "prediction failed: " + e.Message
}
