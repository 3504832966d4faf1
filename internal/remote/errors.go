package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx answer from the remote API. Message carries the
// backend's {"error": "..."} text when it sent one.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the remote API.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == 404
}

// ErrorMessage picks the text to show the user: the backend's own error
// message when there is one, fallback otherwise (transport failures,
// undecodable bodies).
func ErrorMessage(err error, fallback string) string {
	var ae *APIError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return fallback
}

// Status maps a remote failure to the status the console answers with:
// backend 4xx pass through, everything else is a bad gateway.
func Status(err error) int {
	var ae *APIError
	if errors.As(err, &ae) && ae.Status >= 400 && ae.Status < 500 {
		return ae.Status
	}
	return http.StatusBadGateway
}
