package ai

import (
	"fmt"
	"net/http"
)

// ValidationError signals missing or empty required input. Surfaced
// immediately, never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConfigurationError signals that no text generation backend has credentials.
// Fatal for the request, mapped to 401.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return e.Reason
}

// ProviderError wraps a failed call to a generation backend. StatusCode is the
// provider's HTTP status when known, otherwise 0.
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s provider error (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s provider error: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// RateLimited reports whether the provider rejected the call with a 429.
// Callers may apply their own backoff; this layer never retries.
func (e *ProviderError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// ParseError signals that no structured JSON could be recovered from the
// provider's raw output. For the primary generation path this is user-facing;
// refinement services fall back instead of surfacing it.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	preview := e.Raw
	if len(preview) > 120 {
		preview = preview[:120] + "..."
	}
	return fmt.Sprintf("failed to parse AI response: %q", preview)
}
