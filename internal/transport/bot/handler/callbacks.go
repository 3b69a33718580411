package handler

import (
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"barter_market/pkg/logx"
)

func (h *Handler) OnProfitCallback(ctx *th.Context, query telego.CallbackQuery) error {
	// часики на кнопке убираем в любом случае
	defer func() {
		if err := ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID)); err != nil {
			logger(ctx).Warn("AnswerCallbackQuery", logx.Error(err))
		}
	}()

	if query.Message == nil {
		return nil
	}

	text, keyboard := h.profitPage(ctx, parsePage(query.Data))

	_, err := ctx.Bot().EditMessageText(ctx, &telego.EditMessageTextParams{
		ChatID:      tu.ID(query.Message.GetChat().ID),
		MessageID:   query.Message.GetMessageID(),
		Text:        text,
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		// Telegram отвечает ошибкой, если текст не изменился
		logger(ctx).Debug("EditMessageText", logx.Error(err))
	}

	return nil
}

func parsePage(data string) int {
	var page int
	if _, err := fmt.Sscanf(data, profitPagePrefix+":%d", &page); err != nil || page < 1 {
		return 1
	}
	return page
}
