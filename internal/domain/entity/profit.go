package entity

import "github.com/shopspring/decimal"

// ProfitItem — выгодный бартер с посчитанными суммами в рублях.
type ProfitItem struct {
	BarterID  string
	Trader    string
	Level     int
	BuyItems  []ProfitLine
	SellItem  *ProfitLine
	BuyPrice  decimal.Decimal
	SellPrice decimal.Decimal
	Profit    decimal.Decimal
}

type ProfitLine struct {
	Item   Item
	Count  float64
	Price  decimal.Decimal
	Vendor string
}
