package enums

import "fmt"

// ItemSize is the size bracket used by the rate table.
type ItemSize string

const (
	ItemSizeSmall  ItemSize = "small"
	ItemSizeMedium ItemSize = "medium"
	ItemSizeLarge  ItemSize = "large"
	ItemSizeXLarge ItemSize = "x-large"
)

var validItemSizes = []ItemSize{
	ItemSizeSmall,
	ItemSizeMedium,
	ItemSizeLarge,
	ItemSizeXLarge,
}

// String implements fmt.Stringer.
func (s ItemSize) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ItemSize.
func (s ItemSize) IsValid() bool {
	for _, candidate := range validItemSizes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseItemSize converts raw input into an ItemSize.
func ParseItemSize(value string) (ItemSize, error) {
	for _, candidate := range validItemSizes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item size %q", value)
}
