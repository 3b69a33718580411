package catalogue

import (
	"strings"

	"barter_market/internal/domain/entity"
)

// Normalize раскладывает снапшот в плоские записи для upsert. Порядок
// предметов и предложений сохраняется. Null-поля получают нулевые значения,
// предложения без торговца отбрасываются.
func Normalize(snapshot entity.ItemSnapshot) []entity.Item {
	items := make([]entity.Item, 0, len(snapshot.Items))

	for _, raw := range snapshot.Items {
		items = append(items, entity.Item{
			ID:             raw.ID,
			Name:           deref(raw.Name),
			ShortName:      deref(raw.ShortName),
			NormalizedName: deref(raw.NormalizedName),
			BuyFor:         normalizeOffers(raw.ID, entity.PriceSideBuy, raw.BuyFor),
			SellFor:        normalizeOffers(raw.ID, entity.PriceSideSell, raw.SellFor),
		})
	}

	return items
}

func normalizeOffers(itemID string, side entity.PriceSide, offers []entity.CatalogueOffer) []entity.ItemPrice {
	result := make([]entity.ItemPrice, 0, len(offers))

	for _, o := range offers {
		vendor, ok := normalizeVendor(o.Vendor)
		if !ok {
			continue
		}

		result = append(result, entity.ItemPrice{
			ItemID:         itemID,
			Side:           side,
			Vendor:         vendor,
			Price:          deref(o.Price),
			Currency:       deref(o.Currency),
			PriceRUB:       deref(o.PriceRUB),
			CurrencyItemID: o.CurrencyItemID,
		})
	}

	return result
}

func normalizeVendor(v *entity.CatalogueVendor) (entity.Vendor, bool) {
	if v == nil {
		return entity.Vendor{}, false
	}

	name := strings.TrimSpace(deref(v.Name))
	if name == "" {
		return entity.Vendor{}, false
	}

	normalized := deref(v.NormalizedName)
	if normalized == "" {
		normalized = entity.NormalizeName(name)
	}

	return entity.Vendor{
		Name:           name,
		NormalizedName: normalized,
	}, true
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
