package enums

import "fmt"

// ItemType tags a line of cargo on a delivery quote.
type ItemType string

const (
	ItemTypeChair          ItemType = "chair"
	ItemTypeBed            ItemType = "bed"
	ItemTypeBox            ItemType = "box"
	ItemTypeFridge         ItemType = "fridge"
	ItemTypeWashingMachine ItemType = "washingMachine"
	ItemTypeTV             ItemType = "tv"
	ItemTypeFan            ItemType = "fan"
	ItemTypeSofa           ItemType = "sofa"
	ItemTypeCustom         ItemType = "custom"
)

var validItemTypes = []ItemType{
	ItemTypeChair,
	ItemTypeBed,
	ItemTypeBox,
	ItemTypeFridge,
	ItemTypeWashingMachine,
	ItemTypeTV,
	ItemTypeFan,
	ItemTypeSofa,
	ItemTypeCustom,
}

// String implements fmt.Stringer.
func (i ItemType) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemType.
func (i ItemType) IsValid() bool {
	for _, candidate := range validItemTypes {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseItemType converts raw input into an ItemType.
func ParseItemType(value string) (ItemType, error) {
	for _, candidate := range validItemTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item type %q", value)
}
