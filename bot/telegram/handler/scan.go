package handler

import (
	"context"

	botpkg "github.com/liuran001/LinkCleanBot/bot"
	"github.com/liuran001/LinkCleanBot/bot/telegram"
	"github.com/mymmrac/telego"
)

// ScanHandler replies to ordinary messages that contain tracked links.
type ScanHandler struct {
	Cleaner     botpkg.LinkCleaner
	RateLimiter *telegram.RateLimiter
	Logger      botpkg.Logger
}

func (h *ScanHandler) Handle(ctx context.Context, s telegram.Sender, update *telego.Update) {
	if update == nil || update.Message == nil || h.Cleaner == nil {
		return
	}
	message := update.Message
	if isBotAuthor(message) || isCommandMessage(message) {
		return
	}

	links := h.Cleaner.Process(messageText(message))
	if len(links) == 0 {
		return
	}

	for _, params := range buildLinksMessages(message.Chat.ID, scanReplyHeader, links) {
		params.ReplyParameters = &telego.ReplyParameters{MessageID: message.MessageID, AllowSendingWithoutReply: true}
		params.DisableNotification = true
		if _, err := send(ctx, h.RateLimiter, s, params); err != nil {
			if h.Logger != nil {
				h.Logger.Error("failed to send cleaned links", "chat_id", message.Chat.ID, "message_id", message.MessageID, "error", err)
			}
			return
		}
	}
	if h.Logger != nil {
		h.Logger.Debug("cleaned links sent", "chat_id", message.Chat.ID, "count", len(links))
	}
}
