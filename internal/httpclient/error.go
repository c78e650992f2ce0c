package httpclient

import "fmt"

// HTTPError carries the status code and raw body of a non-2xx response so
// callers can classify upstream failures without re-reading the response.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: status %d: %s", e.StatusCode, string(e.Body))
}

// NewError creates an HTTPError from a response status and body
func NewError(statusCode int, body []byte) error {
	return &HTTPError{
		StatusCode: statusCode,
		Body:       body,
	}
}
