package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"social-post-studio/internal/ai"
	"social-post-studio/internal/store"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	ErrorCode string      `json:"error_code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}

// RespondWithError sends a standardized error response
func RespondWithError(c *gin.Context, statusCode int, errorCode, message string, details interface{}) {
	c.JSON(statusCode, ErrorResponse{
		ErrorCode: errorCode,
		Message:   message,
		Details:   details,
	})
}

// RespondWithBadRequest sends a 400 Bad Request error
func RespondWithBadRequest(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, "bad_request", message, details)
}

// RespondWithNotFound sends a 404 Not Found error
func RespondWithNotFound(c *gin.Context, message string) {
	RespondWithError(c, http.StatusNotFound, "not_found", message, nil)
}

// RespondWithInternalError sends a 500 Internal Server Error
func RespondWithInternalError(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusInternalServerError, "internal_error", message, details)
}

// RespondWithPipelineError maps the pipeline's typed errors onto HTTP
// responses: validation 400, missing provider config 401, rate-limited
// provider 429, other provider failures use the upstream status when known,
// parse failures 502, missing posts 404, everything else 500.
func RespondWithPipelineError(c *gin.Context, err error) {
	var validationErr *ai.ValidationError
	if errors.As(err, &validationErr) {
		RespondWithError(c, http.StatusBadRequest, "invalid_input", validationErr.Error(), nil)
		return
	}

	var configErr *ai.ConfigurationError
	if errors.As(err, &configErr) {
		RespondWithError(c, http.StatusUnauthorized, "provider_not_configured", configErr.Error(), nil)
		return
	}

	var providerErr *ai.ProviderError
	if errors.As(err, &providerErr) {
		if providerErr.RateLimited() {
			RespondWithError(c, http.StatusTooManyRequests, "provider_rate_limited",
				"The generation provider is rate limiting requests. Try again shortly.",
				gin.H{"provider": providerErr.Provider})
			return
		}
		status := http.StatusInternalServerError
		if providerErr.StatusCode >= 400 && providerErr.StatusCode < 600 {
			status = providerErr.StatusCode
		}
		RespondWithError(c, status, "provider_error",
			"The generation provider failed.",
			gin.H{"provider": providerErr.Provider})
		return
	}

	var parseErr *ai.ParseError
	if errors.As(err, &parseErr) {
		RespondWithError(c, http.StatusBadGateway, "ai_parse_error",
			"Failed to parse the AI response. Try again.", nil)
		return
	}

	if errors.Is(err, store.ErrNotFound) {
		RespondWithNotFound(c, "Post not found")
		return
	}

	RespondWithInternalError(c, "Unexpected error", gin.H{"error": err.Error()})
}
