package entity

import "time"

// ItemSnapshot — сырой ответ каталога. Поля, которые апстрим может отдать
// как null, хранятся указателями: значения по умолчанию подставляет нормализатор.
type ItemSnapshot struct {
	Items     []CatalogueItem
	FetchedAt time.Time
}

type CatalogueItem struct {
	ID             string
	Name           *string
	ShortName      *string
	NormalizedName *string
	BuyFor         []CatalogueOffer
	SellFor        []CatalogueOffer
}

type CatalogueOffer struct {
	Price          *int64
	Currency       *string
	PriceRUB       *int64
	Vendor         *CatalogueVendor
	CurrencyItemID *string
}

type CatalogueVendor struct {
	Name           *string
	NormalizedName *string
}
