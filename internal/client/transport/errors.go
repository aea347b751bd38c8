package transport

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/securedrop/internal/common"
)

// StatusError carries the HTTP status and server-reported message of a
// failed request. It unwraps to one of the common sentinel errors, so
// callers classify with errors.Is and only reach for the details when
// rendering a message.
type StatusError struct {
	Code    int
	Message string
	kind    error
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%v (HTTP %d): %s", e.kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%v (HTTP %d)", e.kind, e.Code)
}

func (e *StatusError) Unwrap() error { return e.kind }

// classifyStatus maps an HTTP status code to the client error taxonomy.
// Connection-level failures (no response at all) are classified separately
// in do(), so every status passed here came from a real server response.
func classifyStatus(code int) error {
	switch {
	case code == http.StatusNotFound:
		return common.ErrNotFound
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return common.ErrUnauthorized
	case code >= 500:
		return common.ErrServerFault
	default:
		// 400 and any other unexpected 4xx: the request itself was bad.
		return common.ErrInvalidInput
	}
}

func newStatusError(code int, message string) *StatusError {
	return &StatusError{Code: code, Message: message, kind: classifyStatus(code)}
}
