// Package upstream defines the error taxonomy shared by the third-party
// extraction API clients.
package upstream

import (
	"encoding/json"
	"fmt"
)

// HTTPError is a non-2xx response from a third-party service. Body holds the
// parsed upstream body when it was valid JSON; handlers forward it verbatim
// with the upstream status code. When Body is empty, Message is used instead.
type HTTPError struct {
	StatusCode int
	Body       json.RawMessage
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream: status %d", e.StatusCode)
}

// LogicalError is a 2xx response whose own status flag was falsy. Message is
// the upstream's message when it sent one.
type LogicalError struct {
	Message string
}

func (e *LogicalError) Error() string {
	return "upstream: " + e.Message
}

// IncompleteError is a logically successful response missing a field the
// normalizer requires. No partial results are synthesized from these.
type IncompleteError struct {
	Field string
}

func (e *IncompleteError) Error() string {
	return "upstream: response missing " + e.Field
}
