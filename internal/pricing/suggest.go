package pricing

import "github.com/speedyvan/speedyvan-backend/pkg/enums"

// SuggestServiceTier recommends a crew size for the given items: two workers
// once the total quantity passes the threshold or any single item is large
// or larger. Advisory only; it never overrides an explicit caller choice.
func SuggestServiceTier(items []ItemSelection, qtyThreshold int) enums.ServiceTier {
	totalQty := 0
	for _, item := range items {
		if item.Quantity > 0 {
			totalQty += item.Quantity
		}
		if item.Size == enums.ItemSizeLarge || item.Size == enums.ItemSizeXLarge {
			return enums.ServiceTierTwoWorker
		}
	}
	if totalQty > qtyThreshold {
		return enums.ServiceTierTwoWorker
	}
	return enums.ServiceTierSingleWorker
}

// SuggestServiceTier applies the engine's configured quantity threshold.
func (e *Engine) SuggestServiceTier(items []ItemSelection) enums.ServiceTier {
	return SuggestServiceTier(items, e.params.TierQtyThreshold)
}
