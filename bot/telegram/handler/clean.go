package handler

import (
	"context"
	"strings"

	botpkg "github.com/liuran001/LinkCleanBot/bot"
	"github.com/liuran001/LinkCleanBot/bot/telegram"
	"github.com/mymmrac/telego"
)

// CleanHandler handles the /clean command. The answer is shown only to the
// user who asked: in place in a private chat, by private message otherwise.
type CleanHandler struct {
	Cleaner     Analyzer
	RateLimiter *telegram.RateLimiter
	Logger      botpkg.Logger
}

func (h *CleanHandler) Handle(ctx context.Context, s telegram.Sender, update *telego.Update) {
	if update == nil || update.Message == nil || h.Cleaner == nil {
		return
	}
	message := update.Message

	target := commandArguments(message.Text)
	if message.ReplyToMessage != nil {
		target = messageText(message.ReplyToMessage)
	}
	if strings.TrimSpace(target) == "" {
		h.reply(ctx, s, message, cleanUsage)
		return
	}

	result := h.Cleaner.Analyze(target)
	switch {
	case result.Found == 0:
		h.answer(ctx, s, message, []*telego.SendMessageParams{{Text: noURLsFound}})
	case len(result.Cleaned) == 0:
		h.answer(ctx, s, message, []*telego.SendMessageParams{{Text: nothingToClean}})
	default:
		h.answer(ctx, s, message, buildLinksMessages(0, cleanedLinksTitle, result.Cleaned))
	}
}

// answer delivers messages to the invoking user only.
func (h *CleanHandler) answer(ctx context.Context, s telegram.Sender, message *telego.Message, messages []*telego.SendMessageParams) {
	private := message.Chat.Type == "private"
	if !private && message.From == nil {
		return
	}

	for i, params := range messages {
		if private {
			params.ChatID = telego.ChatID{ID: message.Chat.ID}
			params.ReplyParameters = &telego.ReplyParameters{MessageID: message.MessageID, AllowSendingWithoutReply: true}
		} else {
			params.ChatID = telego.ChatID{ID: message.From.ID}
		}
		if _, err := send(ctx, h.RateLimiter, s, params); err != nil {
			if h.Logger != nil {
				h.Logger.Warn("failed to answer /clean", "chat_id", params.ChatID.ID, "error", err)
			}
			if !private && i == 0 {
				h.reply(ctx, s, message, openPrivateChat)
			}
			return
		}
	}
}

// reply answers in the chat the command came from, without the cleaned links.
func (h *CleanHandler) reply(ctx context.Context, s telegram.Sender, message *telego.Message, text string) {
	params := &telego.SendMessageParams{
		ChatID:              telego.ChatID{ID: message.Chat.ID},
		Text:                text,
		ReplyParameters:     &telego.ReplyParameters{MessageID: message.MessageID, AllowSendingWithoutReply: true},
		DisableNotification: true,
	}
	if _, err := send(ctx, h.RateLimiter, s, params); err != nil && h.Logger != nil {
		h.Logger.Error("failed to reply to /clean", "chat_id", message.Chat.ID, "error", err)
	}
}
