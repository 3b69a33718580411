package profit

import (
	"strings"

	"github.com/shopspring/decimal"

	"barter_market/internal/domain/entity"
)

// DefaultExcludedVendor — барахолка, которую не считаем торговым партнёром
// при выборе продавца.
const DefaultExcludedVendor = "Flea Market"

type Calculator struct {
	excludedVendor  string
	requireComplete bool
}

func NewCalculator() *Calculator {
	return &Calculator{
		excludedVendor: DefaultExcludedVendor,
	}
}

func (c *Calculator) WithExcludedVendor(name string) *Calculator {
	c.excludedVendor = name
	return c
}

// WithRequireCompletePrices включает строгий режим: бартер, у которого хотя бы
// одна требуемая позиция без цены, отбрасывается целиком.
func (c *Calculator) WithRequireCompletePrices(require bool) *Calculator {
	c.requireComplete = require
	return c
}

// Compute возвращает бартеры с положительной прибылью в исходном порядке.
func (c *Calculator) Compute(barters []entity.Barter) []entity.ProfitItem {
	result := make([]entity.ProfitItem, 0, len(barters))

	for _, b := range barters {
		item, ok := c.evaluate(b)
		if !ok {
			continue
		}
		result = append(result, item)
	}

	return result
}

func (c *Calculator) evaluate(b entity.Barter) (entity.ProfitItem, bool) {
	buyLines, complete := c.buyLines(b.RequiredItems)
	if len(buyLines) == 0 {
		return entity.ProfitItem{}, false
	}
	if c.requireComplete && !complete {
		return entity.ProfitItem{}, false
	}

	buyPrice := decimal.Zero
	for _, line := range buyLines {
		buyPrice = buyPrice.Add(line.Price)
	}

	sellLine := c.sellLine(b.RewardItems)

	sellPrice := decimal.Zero
	if sellLine != nil {
		sellPrice = sellLine.Price
	}

	profit := sellPrice.Sub(buyPrice)
	if !profit.IsPositive() {
		return entity.ProfitItem{}, false
	}

	return entity.ProfitItem{
		BarterID:  b.ID,
		Trader:    b.Trader,
		Level:     b.Level,
		BuyItems:  buyLines,
		SellItem:  sellLine,
		BuyPrice:  buyPrice,
		SellPrice: sellPrice,
		Profit:    profit,
	}, true
}

// buyLines берёт первое предложение покупки каждой позиции. Позиции без
// предложения или с нулевой ценой выпадают из списка; complete=false, если
// выпала хотя бы одна.
func (c *Calculator) buyLines(required []entity.BarterItem) ([]entity.ProfitLine, bool) {
	lines := make([]entity.ProfitLine, 0, len(required))
	complete := true

	for _, req := range required {
		offer, ok := req.Item.FirstBuyOffer()
		if !ok || offer.PriceRUB == 0 {
			complete = false
			continue
		}

		lines = append(lines, entity.ProfitLine{
			Item:   req.Item,
			Count:  req.Count,
			Price:  lineTotal(offer.PriceRUB, req.Count),
			Vendor: offer.Vendor.Name,
		})
	}

	return lines, complete
}

// sellLine учитывает только первую награду: рецепты с несколькими наградами
// не моделируются.
func (c *Calculator) sellLine(rewards []entity.BarterItem) *entity.ProfitLine {
	if len(rewards) == 0 {
		return nil
	}

	reward := rewards[0]
	line := &entity.ProfitLine{
		Item:  reward.Item,
		Count: reward.Count,
		Price: decimal.Zero,
	}

	best, ok := c.bestSellOffer(reward.Item.SellFor)
	if !ok {
		return line
	}

	line.Price = lineTotal(best.PriceRUB, reward.Count)
	line.Vendor = best.Vendor.Name

	return line
}

// bestSellOffer ищет максимум по PriceRUB среди торговцев, кроме исключённого.
// При равенстве побеждает первое встреченное предложение.
func (c *Calculator) bestSellOffer(offers []entity.ItemPrice) (entity.ItemPrice, bool) {
	var (
		best  entity.ItemPrice
		found bool
	)

	for _, offer := range offers {
		if c.isExcluded(offer.Vendor) {
			continue
		}
		if !found || offer.PriceRUB > best.PriceRUB {
			best = offer
			found = true
		}
	}

	return best, found
}

func (c *Calculator) isExcluded(v entity.Vendor) bool {
	if c.excludedVendor == "" {
		return false
	}
	return strings.EqualFold(v.Name, c.excludedVendor) ||
		strings.EqualFold(v.NormalizedName, entity.NormalizeName(c.excludedVendor))
}

func lineTotal(priceRUB int64, count float64) decimal.Decimal {
	return decimal.NewFromInt(priceRUB).Mul(decimal.NewFromFloat(count))
}
