package handler

import (
	"context"

	"github.com/liuran001/LinkCleanBot/bot/telegram"
	"github.com/mymmrac/telego"
)

// Router decides which handler owns an update and delegates to it.
type Router struct {
	Scan      MessageHandler
	Clean     MessageHandler
	Help      MessageHandler
	About     MessageHandler
	Whitelist *Whitelist
	BotName   string
	AutoScan  bool
}

// Commands lists the bot commands for setMyCommands.
func (r *Router) Commands() []telego.BotCommand {
	return []telego.BotCommand{
		{Command: "clean", Description: "Clean the links of the replied message"},
		{Command: "help", Description: "How to use this bot"},
		{Command: "about", Description: "Build information"},
	}
}

// Route returns the handler for update, or nil when the update is ignored.
func (r *Router) Route(update *telego.Update) MessageHandler {
	if update == nil || update.Message == nil {
		return nil
	}
	message := update.Message

	userID := int64(0)
	if message.From != nil {
		userID = message.From.ID
	}
	if !r.Whitelist.IsAllowed(message.Chat.ID, userID) {
		return nil
	}

	if isCommandMessage(message) {
		switch commandName(message.Text, r.BotName) {
		case "clean":
			return r.Clean
		case "start", "help":
			return r.Help
		case "about":
			return r.About
		default:
			return nil
		}
	}

	if !r.AutoScan || messageText(message) == "" {
		return nil
	}
	return r.Scan
}

// Dispatch routes update and runs the selected handler.
func (r *Router) Dispatch(ctx context.Context, s telegram.Sender, update *telego.Update) {
	handler := r.Route(update)
	if handler == nil {
		return
	}
	handler.Handle(ctx, s, update)
}
