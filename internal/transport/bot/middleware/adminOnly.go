package middleware

import (
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
)

// AdminOnly пропускает дальше только апдейты из чата администратора.
func AdminOnly(chatID int64) th.Handler {
	return func(ctx *th.Context, update telego.Update) error {
		var from int64

		switch {
		case update.Message != nil:
			from = update.Message.Chat.ID
		case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
			from = update.CallbackQuery.Message.GetChat().ID
		default:
			return nil
		}

		if from != chatID {
			return nil
		}

		return ctx.Next(update)
	}
}
