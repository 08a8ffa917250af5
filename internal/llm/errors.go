package llm

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is returned when the analysis request carries no prompt.
var ErrInvalidRequest = errors.New("missing prompt in the request body")

// UpstreamError reports a failure from the completion or context service.
// The status code is mirrored to the caller. Details never contain the
// upstream credential.
type UpstreamError struct {
	StatusCode int
	Details    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error (status %d): %s", e.StatusCode, e.Details)
}
