package pantry

import (
	"math"
	"time"
)

// ExpiryStatus classifies how close an item is to its expiry date.
type ExpiryStatus string

const (
	ExpiryFresh    ExpiryStatus = "fresh"
	ExpiryWarning  ExpiryStatus = "warning"
	ExpiryCritical ExpiryStatus = "critical"
)

const (
	criticalWithinDays = 3
	warningWithinDays  = 7
)

// DaysUntilExpiry returns whole days from now until the expiry date, rounded
// up. Expired items yield zero or a negative count.
func (i InventoryItem) DaysUntilExpiry(now time.Time) (int, error) {
	expiry, err := time.Parse(DateLayout, i.ExpiryDate)
	if err != nil {
		return 0, ErrInvalidExpiry
	}
	hours := expiry.Sub(now).Hours()
	return int(math.Ceil(hours / 24)), nil
}

// ExpiryStatus returns critical within 3 days, warning within 7, else fresh.
// Unparseable dates are reported as critical so they get looked at.
func (i InventoryItem) ExpiryStatus(now time.Time) ExpiryStatus {
	days, err := i.DaysUntilExpiry(now)
	if err != nil {
		return ExpiryCritical
	}
	switch {
	case days <= criticalWithinDays:
		return ExpiryCritical
	case days <= warningWithinDays:
		return ExpiryWarning
	default:
		return ExpiryFresh
	}
}
