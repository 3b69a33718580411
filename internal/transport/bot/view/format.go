package view

import (
	"fmt"
	"html"
	"strings"
	"time"

	"barter_market/internal/domain/entity"
)

// Page возвращает границы страницы page (с единицы) и число страниц.
// Номер страницы зажимается в допустимый диапазон.
func Page(total, page, size int) (start, end, current, pages int) {
	if size <= 0 {
		size = 1
	}

	pages = (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}

	current = min(max(page, 1), pages)
	start = min((current-1)*size, total)
	end = min(start+size, total)

	return start, end, current, pages
}

func Status(report entity.SyncReport, err error, finishedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("📊 <b>Последняя синхронизация</b>\n\n")
	fmt.Fprintf(&sb, "🆔 <code>%s</code>\n", html.EscapeString(report.RunID))
	fmt.Fprintf(&sb, "🕒 %s\n", finishedAt.Format(time.DateTime))

	if err != nil {
		fmt.Fprintf(&sb, "⚠️ <b>Ошибка:</b> %s\n", html.EscapeString(err.Error()))
	}

	fmt.Fprintf(&sb, "📦 Предметов: %d (новых %d, обновлено %d)\n", report.Items, report.Created, report.Updated)
	fmt.Fprintf(&sb, "💱 Предложений: %d, новых торговцев: %d\n", report.Offers, report.VendorsCreated)
	fmt.Fprintf(&sb, "⏱ %s, батчей: %d", report.Duration.Round(time.Millisecond), report.Batches)

	return sb.String()
}

func ProfitPage(items []entity.ProfitItem, offset, page, pages, total int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "🔥 <b>Выгодные бартеры</b>: %d (стр. %d/%d)\n", total, page, pages)

	for i, item := range items {
		reward := "?"
		if item.SellItem != nil {
			reward = item.SellItem.Item.Name
		}

		fmt.Fprintf(&sb, "\n%d. <b>%s</b> (%s LL%d)\n   💰 %s ₽ = %s − %s\n",
			offset+i+1,
			html.EscapeString(reward),
			html.EscapeString(item.Trader),
			item.Level,
			item.Profit.StringFixed(0),
			item.SellPrice.StringFixed(0),
			item.BuyPrice.StringFixed(0),
		)

		for _, line := range item.BuyItems {
			fmt.Fprintf(&sb, "   • %s × %g (%s)\n",
				html.EscapeString(line.Item.Name), line.Count, html.EscapeString(line.Vendor))
		}
	}

	return sb.String()
}

func Item(item entity.Item) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "📦 <b>%s</b> <code>%s</code>\n", html.EscapeString(item.Name), html.EscapeString(item.ID))

	writeOffers(&sb, "🛒 Купить", item.BuyFor)
	writeOffers(&sb, "💵 Продать", item.SellFor)

	return sb.String()
}

func writeOffers(sb *strings.Builder, title string, offers []entity.ItemPrice) {
	fmt.Fprintf(sb, "\n%s:\n", title)

	if len(offers) == 0 {
		sb.WriteString("   нет предложений\n")
		return
	}

	for _, offer := range offers {
		fmt.Fprintf(sb, "   • %s: %d ₽", html.EscapeString(offer.Vendor.Name), offer.PriceRUB)
		if offer.Currency != "" && offer.Currency != "RUB" {
			fmt.Fprintf(sb, " (%d %s)", offer.Price, html.EscapeString(offer.Currency))
		}
		sb.WriteString("\n")
	}
}
