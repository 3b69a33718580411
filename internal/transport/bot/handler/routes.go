package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"barter_market/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminID int64) {
	admin := bh.Group(th.AnyMessage())
	admin.Use(middleware.AdminOnly(adminID))

	admin.HandleMessage(h.OnStart, th.CommandEqual("start"))
	admin.HandleMessage(h.OnStatus, th.CommandEqual("status"))
	admin.HandleMessage(h.OnSync, th.CommandEqual("sync"))
	admin.HandleMessage(h.OnProfit, th.CommandEqual("profit"))
	admin.HandleMessage(h.OnItem, th.CommandEqual("item"))

	callbacks := bh.Group(th.AnyCallbackQuery())
	callbacks.Use(middleware.AdminOnly(adminID))

	callbacks.HandleCallbackQuery(h.OnProfitCallback, th.CallbackDataPrefix(profitPagePrefix))
}
