package handler

import (
	"context"
	"fmt"

	botpkg "github.com/liuran001/LinkCleanBot/bot"
	"github.com/liuran001/LinkCleanBot/bot/telegram"
	"github.com/mymmrac/telego"
)

// AboutHandler handles /about command.
type AboutHandler struct {
	RuntimeVer  string
	BinVersion  string
	CommitSHA   string
	BuildTime   string
	BuildArch   string
	ParamCount  int
	RateLimiter *telegram.RateLimiter
	Logger      botpkg.Logger
}

func (h *AboutHandler) Handle(ctx context.Context, s telegram.Sender, update *telego.Update) {
	if update == nil || update.Message == nil {
		return
	}
	message := update.Message
	msg := fmt.Sprintf(aboutText,
		escapeOr(h.BinVersion, "dev"),
		escapeOr(h.CommitSHA, "unknown"),
		escapeOr(h.BuildTime, "unknown"),
		escapeOr(h.RuntimeVer, "unknown"),
		escapeOr(h.BuildArch, "unknown"),
		h.ParamCount,
	)
	params := &telego.SendMessageParams{
		ChatID:          telego.ChatID{ID: message.Chat.ID},
		Text:            msg,
		ParseMode:       telego.ModeMarkdownV2,
		ReplyParameters: &telego.ReplyParameters{MessageID: message.MessageID, AllowSendingWithoutReply: true},
	}
	if _, err := send(ctx, h.RateLimiter, s, params); err != nil && h.Logger != nil {
		h.Logger.Error("failed to send about", "chat_id", message.Chat.ID, "error", err)
	}
}

// HelpHandler handles /start and /help.
type HelpHandler struct {
	RateLimiter *telegram.RateLimiter
	Logger      botpkg.Logger
}

func (h *HelpHandler) Handle(ctx context.Context, s telegram.Sender, update *telego.Update) {
	if update == nil || update.Message == nil {
		return
	}
	message := update.Message
	params := &telego.SendMessageParams{
		ChatID:             telego.ChatID{ID: message.Chat.ID},
		Text:               helpText,
		ParseMode:          telego.ModeMarkdownV2,
		LinkPreviewOptions: &telego.LinkPreviewOptions{IsDisabled: true},
	}
	if _, err := send(ctx, h.RateLimiter, s, params); err != nil && h.Logger != nil {
		h.Logger.Error("failed to send help", "chat_id", message.Chat.ID, "error", err)
	}
}

func escapeOr(value, fallback string) string {
	if value == "" {
		value = fallback
	}
	return mdV2Replacer.Replace(value)
}
