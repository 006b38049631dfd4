package settleapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Sentinel errors for the response classes the caller branches on.
// Anything else surfaces as *APIError (server-rejected request) or a
// wrapped transport error.
var (
	// ErrUnauthorized means the session token was missing or rejected.
	// The client has already invoked the unauthorized hook by the time
	// this is returned.
	ErrUnauthorized = errors.New("settleapi: unauthorized")
	// ErrForbidden means the resource exists but belongs to someone else.
	ErrForbidden = errors.New("settleapi: forbidden")
	// ErrNotFound means the resource does not exist.
	ErrNotFound = errors.New("settleapi: not found")
)

// APIError is a structured rejection from the backend, typically a
// validation failure. Detail carries the server-provided message
// verbatim so callers can surface it unchanged.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("settleapi: status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("settleapi: status %d", e.Status)
}

// Detail returns the server-provided message from err if one exists.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// classifyStatus maps an error response to the client error taxonomy.
// 401 never reaches here; do() intercepts it to run the unauthorized
// hook.
func classifyStatus(status int, body []byte) error {
	switch status {
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return &APIError{Status: status, Detail: parseDetail(body)}
	}
}

// parseDetail extracts a human-readable message from a DRF-style error
// body: either {"detail": "..."} or a field-to-messages map such as
// {"name": ["This field is required."]}.
func parseDetail(body []byte) string {
	var withDetail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &withDetail); err == nil && withDetail.Detail != "" {
		return withDetail.Detail
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || len(fields) == 0 {
		return ""
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var parts []string
	for _, name := range names {
		var msgs []string
		if err := json.Unmarshal(fields[name], &msgs); err != nil || len(msgs) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(msgs, " ")))
	}
	return strings.Join(parts, "; ")
}
