package event

import "errors"

var (
	ErrMissingTimestamp = errors.New("missing timestamp")

	ErrMissingEmail = errors.New("missing email")

	ErrMissingReason = errors.New("missing reason")

	ErrMissingSessionID = errors.New("missing session id")

	ErrNegativeDuration = errors.New("negative duration")

	ErrInvalidComplaintID = errors.New("complaint id must start with 6 or 7 and be 6-12 digits")
)
