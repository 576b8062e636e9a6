package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/speedyvan/speedyvan-backend/pkg/enums"
)

// RateTable maps (item type, size) to the unit price in GBP. The table is a
// versioned data asset: changing a rate is a data change, not a logic change.
type RateTable struct {
	version string
	rates   map[enums.ItemType]map[enums.ItemSize]decimal.Decimal
}

// NewRateTable builds a table from explicit rates. Callers own the data; the
// engine never reads rates from ambient state.
func NewRateTable(version string, rates map[enums.ItemType]map[enums.ItemSize]decimal.Decimal) RateTable {
	copied := make(map[enums.ItemType]map[enums.ItemSize]decimal.Decimal, len(rates))
	for itemType, row := range rates {
		rowCopy := make(map[enums.ItemSize]decimal.Decimal, len(row))
		for size, rate := range row {
			rowCopy[size] = rate
		}
		copied[itemType] = rowCopy
	}
	return RateTable{version: version, rates: copied}
}

// Version identifies the rate card revision baked into the table.
func (t RateTable) Version() string {
	return t.version
}

// UnitRate resolves the unit price for an item line. Custom items, and item
// types absent from the table, fall back to the custom row; a size missing
// from the resolved row prices at zero so the lookup stays total.
func (t RateTable) UnitRate(itemType enums.ItemType, size enums.ItemSize, isCustom bool) decimal.Decimal {
	row, ok := t.rates[itemType]
	if isCustom || !ok {
		row, ok = t.rates[enums.ItemTypeCustom]
		if !ok {
			return decimal.Zero
		}
	}
	rate, ok := row[size]
	if !ok {
		return decimal.Zero
	}
	return rate
}

func gbp(units int64) decimal.Decimal {
	return decimal.NewFromInt(units)
}

// DefaultRateTable returns the current production rate card.
func DefaultRateTable() RateTable {
	return NewRateTable("2026-01", map[enums.ItemType]map[enums.ItemSize]decimal.Decimal{
		enums.ItemTypeChair: {
			enums.ItemSizeSmall:  gbp(5),
			enums.ItemSizeMedium: gbp(10),
			enums.ItemSizeLarge:  gbp(15),
			enums.ItemSizeXLarge: gbp(20),
		},
		enums.ItemTypeBed: {
			enums.ItemSizeSmall:  gbp(20),
			enums.ItemSizeMedium: gbp(30),
			enums.ItemSizeLarge:  gbp(40),
			enums.ItemSizeXLarge: gbp(50),
		},
		enums.ItemTypeBox: {
			enums.ItemSizeSmall:  gbp(5),
			enums.ItemSizeMedium: gbp(10),
			enums.ItemSizeLarge:  gbp(15),
			enums.ItemSizeXLarge: gbp(20),
		},
		enums.ItemTypeFridge: {
			enums.ItemSizeSmall:  gbp(30),
			enums.ItemSizeMedium: gbp(40),
			enums.ItemSizeLarge:  gbp(50),
			enums.ItemSizeXLarge: gbp(60),
		},
		enums.ItemTypeWashingMachine: {
			enums.ItemSizeSmall:  gbp(25),
			enums.ItemSizeMedium: gbp(35),
			enums.ItemSizeLarge:  gbp(45),
			enums.ItemSizeXLarge: gbp(55),
		},
		enums.ItemTypeTV: {
			enums.ItemSizeSmall:  gbp(15),
			enums.ItemSizeMedium: gbp(25),
			enums.ItemSizeLarge:  gbp(35),
			enums.ItemSizeXLarge: gbp(45),
		},
		enums.ItemTypeFan: {
			enums.ItemSizeSmall:  gbp(5),
			enums.ItemSizeMedium: gbp(10),
			enums.ItemSizeLarge:  gbp(15),
			enums.ItemSizeXLarge: gbp(20),
		},
		enums.ItemTypeSofa: {
			enums.ItemSizeSmall:  gbp(30),
			enums.ItemSizeMedium: gbp(45),
			enums.ItemSizeLarge:  gbp(60),
			enums.ItemSizeXLarge: gbp(75),
		},
		enums.ItemTypeCustom: {
			enums.ItemSizeSmall:  gbp(10),
			enums.ItemSizeMedium: gbp(15),
			enums.ItemSizeLarge:  gbp(20),
			enums.ItemSizeXLarge: gbp(25),
		},
	})
}
