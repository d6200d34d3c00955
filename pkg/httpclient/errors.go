package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxErrorBody = 4 << 10

// StatusError describes a non-2xx upstream response. The body has already
// been drained and closed by the time a caller sees it.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Message)
}

// NotFound reports whether the upstream answered 404.
func (e *StatusError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// errorBody matches the common {"error": "..."} and {"message": "..."}
// shapes as well as {"error": {"message": "..."}}.
type errorBody struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and turns it
// into a *StatusError. Structured JSON messages are extracted; anything else
// is kept as trimmed text. The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response) *StatusError {
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &StatusError{StatusCode: resp.StatusCode, Message: "failed to read body"}
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: messageFromBody(bodyBytes)}
}

func messageFromBody(body []byte) string {
	var parsed errorBody
	if json.Unmarshal(body, &parsed) == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if len(parsed.Error) > 0 {
			var s string
			if json.Unmarshal(parsed.Error, &s) == nil {
				return s
			}
			var nested struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(parsed.Error, &nested) == nil && nested.Message != "" {
				return nested.Message
			}
		}
	}
	return strings.TrimSpace(string(body))
}
