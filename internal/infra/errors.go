package infra

import (
	"fmt"
	"net/http"
)

// NetworkError is a transport-level failure: DNS, refused connection,
// reset, or a context deadline hit while talking to the orders API.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RemoteError is a non-2xx response, or a 2xx response whose body could
// not be decoded.
type RemoteError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: remote returned %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s: remote returned %d %s: %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}
