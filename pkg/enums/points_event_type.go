package enums

import "fmt"

// PointsEventType classifies an entry in the loyalty points ledger.
type PointsEventType string

const (
	PointsEventRedeem     PointsEventType = "redeem"
	PointsEventEarn       PointsEventType = "earn"
	PointsEventAdjustment PointsEventType = "adjustment"
)

var validPointsEventTypes = []PointsEventType{
	PointsEventRedeem,
	PointsEventEarn,
	PointsEventAdjustment,
}

// IsValid reports whether the value matches a known points event type.
func (t PointsEventType) IsValid() bool {
	for _, candidate := range validPointsEventTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParsePointsEventType converts raw input into PointsEventType.
func ParsePointsEventType(value string) (PointsEventType, error) {
	for _, candidate := range validPointsEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid points event type %q", value)
}
