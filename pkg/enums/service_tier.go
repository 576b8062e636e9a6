package enums

import "fmt"

// ServiceTier is the crew configuration for a delivery.
type ServiceTier string

const (
	ServiceTierSingleWorker ServiceTier = "single-worker"
	ServiceTierTwoWorker    ServiceTier = "two-worker"
)

var validServiceTiers = []ServiceTier{
	ServiceTierSingleWorker,
	ServiceTierTwoWorker,
}

// String implements fmt.Stringer.
func (s ServiceTier) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ServiceTier.
func (s ServiceTier) IsValid() bool {
	for _, candidate := range validServiceTiers {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseServiceTier converts raw input into a ServiceTier.
func ParseServiceTier(value string) (ServiceTier, error) {
	for _, candidate := range validServiceTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid service tier %q", value)
}
