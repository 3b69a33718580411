package tarkovdev

import (
	"strings"

	"barter_market/internal/domain/entity"
)

type graphQLRequest struct {
	Query string `json:"query"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// graphQLResponse: Data указатель, чтобы отличать отсутствующий data от
// пустого.
type graphQLResponse[T any] struct {
	Data   *T             `json:"data"`
	Errors []graphQLError `json:"errors"`
}

func (r graphQLResponse[T]) errorMessages() string {
	messages := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		messages = append(messages, e.Message)
	}
	return strings.Join(messages, "; ")
}

type itemsData struct {
	Items *[]itemDTO `json:"items"`
}

type bartersData struct {
	Barters *[]barterDTO `json:"barters"`
}

type itemDTO struct {
	ID             string     `json:"id"`
	Name           *string    `json:"name"`
	ShortName      *string    `json:"shortName"`
	NormalizedName *string    `json:"normalizedName"`
	BuyFor         []offerDTO `json:"buyFor"`
	SellFor        []offerDTO `json:"sellFor"`
}

type offerDTO struct {
	Price        *int64     `json:"price"`
	Currency     *string    `json:"currency"`
	PriceRUB     *int64     `json:"priceRUB"`
	CurrencyItem *refDTO    `json:"currencyItem"`
	Vendor       *vendorDTO `json:"vendor"`
}

type refDTO struct {
	ID string `json:"id"`
}

type vendorDTO struct {
	Name           *string `json:"name"`
	NormalizedName *string `json:"normalizedName"`
}

type barterDTO struct {
	ID            string          `json:"id"`
	Level         *int            `json:"level"`
	Trader        *traderDTO      `json:"trader"`
	RequiredItems []barterItemDTO `json:"requiredItems"`
	RewardItems   []barterItemDTO `json:"rewardItems"`
}

type traderDTO struct {
	Name *string `json:"name"`
}

type barterItemDTO struct {
	Item  *itemDTO `json:"item"`
	Count *float64 `json:"count"`
}

func (d itemDTO) toCatalogue() entity.CatalogueItem {
	return entity.CatalogueItem{
		ID:             d.ID,
		Name:           d.Name,
		ShortName:      d.ShortName,
		NormalizedName: d.NormalizedName,
		BuyFor:         toCatalogueOffers(d.BuyFor),
		SellFor:        toCatalogueOffers(d.SellFor),
	}
}

func toCatalogueOffers(offers []offerDTO) []entity.CatalogueOffer {
	if offers == nil {
		return nil
	}

	result := make([]entity.CatalogueOffer, 0, len(offers))
	for _, o := range offers {
		offer := entity.CatalogueOffer{
			Price:    o.Price,
			Currency: o.Currency,
			PriceRUB: o.PriceRUB,
		}
		if o.CurrencyItem != nil {
			id := o.CurrencyItem.ID
			offer.CurrencyItemID = &id
		}
		if o.Vendor != nil {
			offer.Vendor = &entity.CatalogueVendor{
				Name:           o.Vendor.Name,
				NormalizedName: o.Vendor.NormalizedName,
			}
		}
		result = append(result, offer)
	}

	return result
}

// toDomain заполняет null нулевыми значениями: бартеры идут сразу в калькулятор.
func (d barterDTO) toDomain() entity.Barter {
	b := entity.Barter{
		ID:            d.ID,
		RequiredItems: toBarterItems(d.RequiredItems),
		RewardItems:   toBarterItems(d.RewardItems),
	}
	b.Level = deref(d.Level)
	if d.Trader != nil {
		b.Trader = deref(d.Trader.Name)
	}
	return b
}

func toBarterItems(items []barterItemDTO) []entity.BarterItem {
	result := make([]entity.BarterItem, 0, len(items))

	for _, bi := range items {
		var item entity.Item
		if bi.Item != nil {
			item = bi.Item.toBarterItem()
		}

		result = append(result, entity.BarterItem{Item: item, Count: deref(bi.Count)})
	}

	return result
}

// toBarterItem не отбрасывает предложения без торговца: калькулятор берёт
// первое предложение в порядке апстрима.
func (d itemDTO) toBarterItem() entity.Item {
	return entity.Item{
		ID:             d.ID,
		Name:           deref(d.Name),
		ShortName:      deref(d.ShortName),
		NormalizedName: deref(d.NormalizedName),
		BuyFor:         toBarterOffers(d.ID, entity.PriceSideBuy, d.BuyFor),
		SellFor:        toBarterOffers(d.ID, entity.PriceSideSell, d.SellFor),
	}
}

func toBarterOffers(itemID string, side entity.PriceSide, offers []offerDTO) []entity.ItemPrice {
	result := make([]entity.ItemPrice, 0, len(offers))

	for _, o := range offers {
		price := entity.ItemPrice{
			ItemID:   itemID,
			Side:     side,
			Price:    deref(o.Price),
			Currency: deref(o.Currency),
			PriceRUB: deref(o.PriceRUB),
		}
		if o.CurrencyItem != nil {
			id := o.CurrencyItem.ID
			price.CurrencyItemID = &id
		}
		if o.Vendor != nil {
			price.Vendor = entity.Vendor{
				Name:           deref(o.Vendor.Name),
				NormalizedName: deref(o.Vendor.NormalizedName),
			}
			if price.Vendor.NormalizedName == "" {
				price.Vendor.NormalizedName = entity.NormalizeName(price.Vendor.Name)
			}
		}
		result = append(result, price)
	}

	return result
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
