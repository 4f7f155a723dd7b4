package domain

import (
	"errors"
	"fmt"
)

// Client-visible request errors. The messages are the exact strings the
// HTTP layer returns in the error body.
var (
	// ErrBadKey is returned when the dealer key header is wrong or absent.
	ErrBadKey = errors.New("Bad key")

	// ErrMissingName is returned when the stock name is missing or not a string.
	ErrMissingName = errors.New("Missing stock name")

	// ErrBadAction is returned for any verb outside get/buy/sell.
	ErrBadAction = errors.New("Bad action")

	// ErrMissingReportFields is returned when a report lacks either required identity.
	ErrMissingReportFields = errors.New("Missing clientName or reportedPlayerName")

	// ErrWebhookNotConfigured is returned when no report webhook URL is set.
	ErrWebhookNotConfigured = errors.New("webhook not configured")
)

// WebhookError carries the upstream status of a failed webhook delivery.
type WebhookError struct {
	Status int
}

func (e *WebhookError) Error() string {
	return fmt.Sprintf("webhook returned status %d", e.Status)
}

// IsClientError reports whether an error maps to a 4xx response.
func IsClientError(err error) bool {
	return errors.Is(err, ErrBadAction) ||
		errors.Is(err, ErrMissingName) ||
		errors.Is(err, ErrMissingReportFields)
}
