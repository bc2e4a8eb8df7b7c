package apierror

import (
	"encoding/json"
	"net/http"
)

// errorBodyKeys is the ordered list of fields inspected for a human-readable
// message in backend error bodies. The order is significant: it encodes the
// inconsistencies of the real backend, first match wins.
var errorBodyKeys = []string{"error", "message", "details", "msg"}

// MessageFromBody extracts a human-readable error message from a backend
// error response body. It degrades gracefully: a bare JSON string is used
// verbatim, unknown object shapes fall back to the HTTP status text, and
// malformed bodies never cause a failure of their own.
func MessageFromBody(body []byte, status int) string {
	fallback := http.StatusText(status)
	if fallback == "" {
		fallback = "Request failed"
	}

	if len(body) == 0 {
		return fallback
	}

	var shape map[string]json.RawMessage
	if err := json.Unmarshal(body, &shape); err == nil {
		for _, key := range errorBodyKeys {
			raw, ok := shape[key]
			if !ok {
				continue
			}
			var msg string
			if err := json.Unmarshal(raw, &msg); err == nil && msg != "" {
				return msg
			}
		}

		return fallback
	}

	var plain string
	if err := json.Unmarshal(body, &plain); err == nil && plain != "" {
		return plain
	}

	return fallback
}
