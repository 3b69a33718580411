package server

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"barter_market/internal/domain/entity"
	"barter_market/pkg/rest"
)

const moneyPlaces = 2

func newRESTItem(item entity.Item) rest.Item {
	resp := rest.Item{
		ID:             item.ID,
		Name:           item.Name,
		ShortName:      item.ShortName,
		NormalizedName: item.NormalizedName,
		BuyFor:         newRESTOffers(item.BuyFor),
		SellFor:        newRESTOffers(item.SellFor),
	}

	if !item.UpdatedAt.IsZero() {
		updatedAt := item.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}

func newRESTOffers(prices []entity.ItemPrice) []rest.Offer {
	return lo.Map(prices, func(p entity.ItemPrice, _ int) rest.Offer {
		return rest.Offer{
			Vendor:               p.Vendor.Name,
			VendorNormalizedName: p.Vendor.NormalizedName,
			Price:                p.Price,
			Currency:             p.Currency,
			PriceRUB:             p.PriceRUB,
			CurrencyItemID:       p.CurrencyItemID,
		}
	})
}

func newRESTBarter(b entity.Barter) rest.Barter {
	return rest.Barter{
		ID:            b.ID,
		Trader:        b.Trader,
		Level:         b.Level,
		RequiredItems: newRESTBarterItems(b.RequiredItems),
		RewardItems:   newRESTBarterItems(b.RewardItems),
	}
}

func newRESTBarterItems(items []entity.BarterItem) []rest.BarterItem {
	return lo.Map(items, func(bi entity.BarterItem, _ int) rest.BarterItem {
		return rest.BarterItem{
			Item:  newRESTItem(bi.Item),
			Count: bi.Count,
		}
	})
}

func newRESTProfitItem(item entity.ProfitItem) rest.ProfitItem {
	resp := rest.ProfitItem{
		BarterID:  item.BarterID,
		Trader:    item.Trader,
		Level:     item.Level,
		BuyItems:  lo.Map(item.BuyItems, func(line entity.ProfitLine, _ int) rest.ProfitLine {
			return newRESTProfitLine(line)
		}),
		BuyPrice:  money(item.BuyPrice),
		SellPrice: money(item.SellPrice),
		Profit:    money(item.Profit),
	}

	if item.SellItem != nil {
		line := newRESTProfitLine(*item.SellItem)
		resp.SellItem = &line
	}

	return resp
}

func newRESTProfitLine(line entity.ProfitLine) rest.ProfitLine {
	return rest.ProfitLine{
		ItemID:   line.Item.ID,
		ItemName: line.Item.Name,
		Count:    line.Count,
		Price:    money(line.Price),
		Vendor:   line.Vendor,
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(moneyPlaces)
}
