package provider

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrStillThrottled is returned once the retry budget for a rate-limited request is spent
	ErrStillThrottled = errors.New("upstream still throttled after retries")
	// ErrUnknownProvider is returned when the configured provider identifier is not registered
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrNotConfigured is returned when no API token is configured
	ErrNotConfigured = errors.New("provider token not configured")
)

// Error codes used in ProviderError.Code
const (
	CodeAuthFailed     = "AUTH_FAILED"
	CodeQuotaExceeded  = "QUOTA_EXCEEDED"
	CodeRateLimited    = "RATE_LIMITED"
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeUnknown        = "UNKNOWN"
)

// IsFatal reports whether err must stop a lookup instead of degrading to an empty result
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrStillThrottled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// ThrottledError wraps ErrStillThrottled with the provider and URL that exhausted its retries
func ThrottledError(providerName, url string, attempts int) error {
	return fmt.Errorf("%s: %s after %d attempts: %w", providerName, url, attempts, ErrStillThrottled)
}
