package simulation

import (
	"errors"
)

var (
	// ErrCapacityExceeded is returned by Start when the registry is
	// already running the configured maximum of concurrent campaigns.
	// The rejection is synchronous; the caller may resubmit later.
	ErrCapacityExceeded = errors.New("maximum number of concurrent campaigns reached")

	// ErrUnknownCampaign is returned when an id does not resolve to a
	// registered campaign.
	ErrUnknownCampaign = errors.New("campaign not found")
)
