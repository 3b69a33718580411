package notifier

import (
	"context"
	"fmt"
	"html"
	"slices"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"barter_market/internal/domain/entity"
	"barter_market/pkg/logx"
)

const DefaultDigestSize = 5

type messageSender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

type ProfitSource interface {
	Profit(ctx context.Context) ([]entity.ProfitItem, error)
}

// TelegramBot шлёт в чат сводку выгодных бартеров после каждого прогона
// синхронизации.
type TelegramBot struct {
	sender     messageSender
	chatID     int64
	profit     ProfitSource
	digestSize int
}

func NewTelegramBot(token string, chatID int64, profit ProfitSource) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return newTelegramBot(bot, chatID, profit), nil
}

func newTelegramBot(sender messageSender, chatID int64, profit ProfitSource) *TelegramBot {
	return &TelegramBot{
		sender:     sender,
		chatID:     chatID,
		profit:     profit,
		digestSize: DefaultDigestSize,
	}
}

func (b *TelegramBot) WithDigestSize(size int) *TelegramBot {
	if size > 0 {
		b.digestSize = size
	}
	return b
}

// AfterSync подходит как хук планировщика. Ошибки отправки только логируются.
func (b *TelegramBot) AfterSync(ctx context.Context, report entity.SyncReport, syncErr error) {
	if syncErr != nil {
		text := fmt.Sprintf("⚠️ <b>Sync failed</b>\n\nRun: <code>%s</code>\n%s",
			html.EscapeString(report.RunID), html.EscapeString(syncErr.Error()))
		if err := b.send(ctx, text); err != nil {
			logger(ctx).Error("failed to send sync alert", logx.Error(err))
		}
		return
	}

	items, err := b.profit.Profit(ctx)
	if err != nil {
		logger(ctx).Error("failed to compute profit digest", logx.Error(err))
		return
	}

	if err := b.send(ctx, formatDigest(report, items, b.digestSize)); err != nil {
		logger(ctx).Error("failed to send profit digest", logx.Error(err))
	}
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	_, err := b.sender.SendMessage(ctx, tu.Message(tu.ID(b.chatID), text))
	return err
}

func (b *TelegramBot) send(ctx context.Context, text string) error {
	msg := tu.Message(
		tu.ID(b.chatID),
		text,
	).WithParseMode(telego.ModeHTML)

	if _, err := b.sender.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// formatDigest — топ бартеров по прибыли, при равенстве в исходном порядке.
func formatDigest(report entity.SyncReport, items []entity.ProfitItem, limit int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "✅ <b>Catalogue synced</b>: %d items, %d offers in %s\n\n",
		report.Items, report.Offers, report.Duration.Round(time.Millisecond))

	if len(items) == 0 {
		sb.WriteString("No profitable barters right now.")
		return sb.String()
	}

	top := slices.Clone(items)
	slices.SortStableFunc(top, func(a, b entity.ProfitItem) int {
		return b.Profit.Cmp(a.Profit)
	})
	if len(top) > limit {
		top = top[:limit]
	}

	fmt.Fprintf(&sb, "🔥 <b>Top %d of %d profitable barters</b>\n", len(top), len(items))

	for i, item := range top {
		reward := "?"
		if item.SellItem != nil {
			reward = item.SellItem.Item.Name
		}

		fmt.Fprintf(&sb, "\n%d. <b>%s</b> (%s LL%d)\n   💰 %s ₽ = %s − %s\n",
			i+1,
			html.EscapeString(reward),
			html.EscapeString(item.Trader),
			item.Level,
			item.Profit.StringFixed(0),
			item.SellPrice.StringFixed(0),
			item.BuyPrice.StringFixed(0),
		)
	}

	return sb.String()
}
