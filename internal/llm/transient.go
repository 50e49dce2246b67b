package llm

import (
	"errors"
	"net"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// IsTransient reports whether a completion failure is worth one more
// attempt: transport errors, rate limiting, and server-side errors.
// Client-side API errors (bad key, bad request) are permanent.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// The Anthropic and Ollama clients report upstream failures as
	// formatted errors; match the status and the usual transport causes.
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset") ||
		strings.Contains(s, "api error (429") ||
		strings.Contains(s, "api error (5")
}
