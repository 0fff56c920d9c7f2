package domain

import "errors"

var (
	ErrInvalidNotificationType = errors.New("invalid notification type")
	ErrInvalidEvent            = errors.New("invalid notification event")
	ErrNotFound                = errors.New("notification not found")
	ErrStoreUnavailable        = errors.New("notification store unavailable")

	// ErrClaimConflict means another writer owns the aggregation window.
	// It is resolved inside the aggregator and never returned to callers.
	ErrClaimConflict = errors.New("aggregation already claimed")

	// ErrNotificationClosed is returned when a merge targets a notification
	// that was already read.
	ErrNotificationClosed = errors.New("notification closed for aggregation")

	ErrTableNotFound = errors.New("table not found")
)
