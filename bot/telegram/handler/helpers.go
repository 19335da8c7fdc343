package handler

import (
	"context"
	"strings"

	"github.com/liuran001/LinkCleanBot/bot/telegram"
	"github.com/mymmrac/telego"
)

// maxLinksPerMessage keeps replies well under Telegram's text and keyboard limits.
const maxLinksPerMessage = 10

// messageText returns the text a user wrote: the message body, or the caption of media.
func messageText(message *telego.Message) string {
	if message == nil {
		return ""
	}
	if message.Text != "" {
		return message.Text
	}
	return message.Caption
}

func commandArguments(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	parts := strings.SplitN(text, " ", 2)
	if len(parts) < 2 {
		parts = strings.SplitN(text, "\n", 2)
	}
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// commandName returns the command of text without the slash, or "" when text is
// not a command or is addressed to a different bot.
func commandName(text, botName string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	command := strings.TrimPrefix(strings.Fields(text)[0], "/")
	if command == "" {
		return ""
	}
	if strings.Contains(command, "@") {
		seg := strings.SplitN(command, "@", 2)
		command = seg[0]
		if botName != "" && seg[1] != "" && !strings.EqualFold(seg[1], botName) {
			return ""
		}
	}
	return strings.ToLower(command)
}

func isCommandMessage(message *telego.Message) bool {
	if message == nil || message.Text == "" {
		return false
	}
	if !strings.HasPrefix(message.Text, "/") {
		return false
	}
	for _, entity := range message.Entities {
		if entity.Type == "bot_command" && entity.Offset == 0 {
			return true
		}
	}
	return false
}

func isBotAuthor(message *telego.Message) bool {
	return message != nil && message.From != nil && message.From.IsBot
}

// linkBatches splits links into groups of at most size entries.
func linkBatches(links []string, size int) [][]string {
	if size <= 0 {
		size = maxLinksPerMessage
	}
	var batches [][]string
	for len(links) > size {
		batches = append(batches, links[:size])
		links = links[size:]
	}
	if len(links) > 0 {
		batches = append(batches, links)
	}
	return batches
}

func buildLinksText(header string, links []string) string {
	return header + "\n" + strings.Join(links, "\n")
}

// buildLinksKeyboard gives every link its own URL button, one per row.
func buildLinksKeyboard(links []string) *telego.InlineKeyboardMarkup {
	rows := make([][]telego.InlineKeyboardButton, 0, len(links))
	for _, link := range links {
		rows = append(rows, []telego.InlineKeyboardButton{{Text: openCleanedLink, URL: link}})
	}
	return &telego.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func buildLinksMessages(chatID int64, header string, links []string) []*telego.SendMessageParams {
	batches := linkBatches(links, maxLinksPerMessage)
	out := make([]*telego.SendMessageParams, 0, len(batches))
	for _, batch := range batches {
		out = append(out, &telego.SendMessageParams{
			ChatID:             telego.ChatID{ID: chatID},
			Text:               buildLinksText(header, batch),
			ReplyMarkup:        buildLinksKeyboard(batch),
			LinkPreviewOptions: &telego.LinkPreviewOptions{IsDisabled: true},
		})
	}
	return out
}

func send(ctx context.Context, rl *telegram.RateLimiter, s telegram.Sender, params *telego.SendMessageParams) (*telego.Message, error) {
	if rl != nil {
		return telegram.SendMessageWithRetry(ctx, rl, s, params)
	}
	return s.SendMessage(ctx, params)
}
