// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

import "time"

// Offer Предложение торговца
type Offer struct {
	Vendor               string  `json:"vendor"`
	VendorNormalizedName string  `json:"vendorNormalizedName"`
	Price                int64   `json:"price"`
	Currency             string  `json:"currency"`
	PriceRUB             int64   `json:"priceRUB"`
	CurrencyItemID       *string `json:"currencyItemId,omitempty"`
}

// Item Предмет каталога
type Item struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	ShortName      string     `json:"shortName"`
	NormalizedName string     `json:"normalizedName"`
	BuyFor         []Offer    `json:"buyFor"`
	SellFor        []Offer    `json:"sellFor"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

type BarterItem struct {
	Item  Item    `json:"item"`
	Count float64 `json:"count"`
}

// Barter Рецепт обмена у торговца
type Barter struct {
	ID            string       `json:"id"`
	Trader        string       `json:"trader"`
	Level         int          `json:"level"`
	RequiredItems []BarterItem `json:"requiredItems"`
	RewardItems   []BarterItem `json:"rewardItems"`
}

// ProfitLine Позиция расчёта. Суммы в рублях, строкой без потери точности
type ProfitLine struct {
	ItemID   string  `json:"itemId"`
	ItemName string  `json:"itemName"`
	Count    float64 `json:"count"`
	Price    string  `json:"price"`
	Vendor   string  `json:"vendor"`
}

// ProfitItem Выгодный бартер
type ProfitItem struct {
	BarterID  string       `json:"barterId"`
	Trader    string       `json:"trader"`
	Level     int          `json:"level"`
	BuyItems  []ProfitLine `json:"buyItems"`
	SellItem  *ProfitLine  `json:"sellItem"`
	BuyPrice  string       `json:"buyPrice"`
	SellPrice string       `json:"sellPrice"`
	Profit    string       `json:"profit"`
}

// SyncRequest Запрос ручной синхронизации
type SyncRequest struct {
	// Reason Причина запуска, попадает в лог
	Reason string `json:"reason" validate:"max=256"`
}

// SyncResponse Результат запроса ручной синхронизации
type SyncResponse struct {
	Accepted bool `json:"accepted"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`

	// SupportID Идентификатор для поддержки (trace id)
	SupportID string `json:"supportId"`
}

// ErrorCode Код ошибки
type ErrorCode string
