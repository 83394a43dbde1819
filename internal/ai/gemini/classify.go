package gemini

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/spigell/resume-ai/internal/ai"
)

// Classify maps any failure into the user-facing taxonomy. Already classified
// errors pass through unchanged. Nothing here retries.
func Classify(err error) *ai.Error {
	if err == nil {
		return nil
	}

	if classified, ok := ai.AsError(err); ok {
		return classified
	}

	if errors.Is(err, ai.ErrMissingCredential) {
		return ai.NewError(ai.KindAuthFailure, err)
	}

	if code, message, ok := apiError(err); ok {
		switch {
		case code == http.StatusUnauthorized || code == http.StatusForbidden:
			return ai.NewError(ai.KindAuthFailure, err)
		case code == http.StatusBadRequest && isInvalidKey(message):
			return ai.NewError(ai.KindAuthFailure, err)
		case code == http.StatusTooManyRequests:
			return ai.NewError(ai.KindRateLimited, err)
		case code >= http.StatusInternalServerError:
			return ai.NewError(ai.KindUpstreamUnavailable, err)
		}
		return ai.NewError(ai.KindUnknown, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ai.NewError(ai.KindNetworkFailure, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ai.NewError(ai.KindNetworkFailure, err)
	}

	return ai.NewError(ai.KindUnknown, err)
}

func apiError(err error) (int, string, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.Message, true
	}

	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, apiErrPtr.Message, true
	}

	return 0, "", false
}

func isInvalidKey(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "api key") || strings.Contains(lower, "api_key")
}
