package entity

type Barter struct {
	ID            string       `json:"id"`
	Trader        string       `json:"trader"`
	Level         int          `json:"level"`
	RequiredItems []BarterItem `json:"required_items"`
	RewardItems   []BarterItem `json:"reward_items"`
}

// BarterItem: позиция рецепта. Count у апстрима дробный.
type BarterItem struct {
	Item  Item    `json:"item"`
	Count float64 `json:"count"`
}
