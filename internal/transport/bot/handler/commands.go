package handler

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"barter_market/internal/domain"
	"barter_market/internal/domain/entity"
	"barter_market/internal/transport/bot/view"
	"barter_market/pkg/contextx"
	"barter_market/pkg/errcodes"
	"barter_market/pkg/logx"
)

const profitPagePrefix = "profit_page"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage)
}

func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, h.statusText())
}

func (h *Handler) OnSync(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, h.syncText(ctx))
}

func (h *Handler) OnProfit(ctx *th.Context, msg telego.Message) error {
	text, keyboard := h.profitPage(ctx, 1)

	params := tu.Message(tu.ID(msg.Chat.ID), text).WithParseMode(telego.ModeHTML)
	if keyboard != nil {
		params = params.WithReplyMarkup(keyboard)
	}

	_, err := ctx.Bot().SendMessage(ctx, params)
	return err
}

func (h *Handler) OnItem(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, h.itemText(ctx, strings.Fields(msg.Text)))
}

func (h *Handler) statusText() string {
	run, ok := h.LastRun()
	if !ok {
		return view.StatusNoRuns
	}
	return view.Status(run.Report, run.Err, run.FinishedAt)
}

func (h *Handler) syncText(ctx context.Context) string {
	if h.trigger.TriggerNow(ctx) {
		logger(ctx).Info("sync requested from bot")
		return view.SyncStarted
	}
	return view.SyncAlreadyRunning
}

func (h *Handler) itemText(ctx context.Context, args []string) string {
	if len(args) < 2 {
		return view.ItemMissingID
	}

	id := args[1]
	if !entity.ValidItemID(id) {
		return view.ItemInvalidID
	}

	item, err := h.items.GetByID(ctx, id)
	if err != nil {
		if domain.HasCode(err, errcodes.ItemNotFound) {
			return view.ItemNotFound
		}
		logger(ctx).Error("items.GetByID", logx.Error(err))
		return view.InternalError
	}

	return view.Item(*item)
}

// profitPage пересчитывает прибыль на каждый запрос; клавиатура nil, когда
// страница одна.
func (h *Handler) profitPage(ctx context.Context, page int) (string, *telego.InlineKeyboardMarkup) {
	items, err := h.profit.Profit(ctx)
	if err != nil {
		logger(ctx).Error("profit.Profit", logx.Error(err))
		return view.ProfitFailed, nil
	}

	if len(items) == 0 {
		return view.ProfitEmpty, nil
	}

	sorted := sortByProfit(items)
	start, end, current, pages := view.Page(len(sorted), page, h.pageSize)

	text := view.ProfitPage(sorted[start:end], start, current, pages, len(sorted))
	if pages == 1 {
		return text, nil
	}

	return text, paginationKeyboard(current, pages)
}

// sortByProfit сортирует по убыванию прибыли, сохраняя порядок при равенстве.
func sortByProfit(items []entity.ProfitItem) []entity.ProfitItem {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b entity.ProfitItem) int {
		return b.Profit.Cmp(a.Profit)
	})
	return sorted
}

func paginationKeyboard(page, pages int) *telego.InlineKeyboardMarkup {
	var buttons []telego.InlineKeyboardButton

	if page > 1 {
		buttons = append(buttons, tu.InlineKeyboardButton("⬅️").
			WithCallbackData(fmt.Sprintf("%s:%d", profitPagePrefix, page-1)))
	}

	buttons = append(buttons, tu.InlineKeyboardButton(fmt.Sprintf("%d / %d", page, pages)).
		WithCallbackData("noop"))

	if page < pages {
		buttons = append(buttons, tu.InlineKeyboardButton("➡️").
			WithCallbackData(fmt.Sprintf("%s:%d", profitPagePrefix, page+1)))
	}

	return tu.InlineKeyboard(tu.InlineKeyboardRow(buttons...))
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, tu.Message(tu.ID(chatID), text).WithParseMode(telego.ModeHTML))
	return err
}
