package domain

import (
	"errors"
	"fmt"
)

var (
	ErrCountryNotFound = errors.New("country not found")
	ErrStatusNotFound  = errors.New("status not found")
	ErrSummaryNotFound = errors.New("summary image not found")
)

// UpstreamError marks a failed call to one of the external data providers.
// Source names the provider so the API layer can tell the caller which one
// was down. StatusCode is 0 on transport errors and timeouts.
type UpstreamError struct {
	Source     string
	StatusCode int
	Reason     string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream %s returned status %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("upstream %s unavailable: %s", e.Source, e.Reason)
}
