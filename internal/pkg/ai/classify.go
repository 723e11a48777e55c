package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"

	apperrors "github.com/clizin/clizin/internal/pkg/errors"
)

var authMarkers = []string{
	"api key",
	"api_key",
	"apikey",
	"unauthorized",
	"unauthenticated",
	"permission denied",
	"permission_denied",
	"invalid authentication",
}

var rateLimitMarkers = []string{
	"rate limit",
	"quota",
	"resource_exhausted",
	"too many requests",
}

// classifyError maps a provider failure onto the error taxonomy. It never retries.
func classifyError(provider string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.Canceled):
		return apperrors.NewInterruptedError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError(err)
	}

	switch status := httpStatus(err); status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.NewAuthenticationError(provider, err)
	case http.StatusTooManyRequests:
		return apperrors.NewRateLimitError(provider, err)
	}

	switch msg := strings.ToLower(err.Error()); {
	case containsAny(msg, authMarkers):
		return apperrors.NewAuthenticationError(provider, err)
	case containsAny(msg, rateLimitMarkers):
		return apperrors.NewRateLimitError(provider, err)
	case strings.Contains(msg, "deadline exceeded") || strings.Contains(msg, "timeout"):
		return apperrors.NewTimeoutError(err)
	}

	return apperrors.Wrap(err, apperrors.ErrProviderCall, fmt.Sprintf("%s request failed", provider))
}

// httpStatus extracts an HTTP status code from the SDK error types, or 0.
func httpStatus(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code
	}
	return 0
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
