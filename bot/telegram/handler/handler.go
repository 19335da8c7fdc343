package handler

import (
	"context"

	"github.com/liuran001/LinkCleanBot/bot/cleaner"
	"github.com/liuran001/LinkCleanBot/bot/telegram"
	"github.com/mymmrac/telego"
)

// MessageHandler handles message updates.
type MessageHandler interface {
	Handle(ctx context.Context, s telegram.Sender, update *telego.Update)
}

// Analyzer runs the link cleaning pipeline over message text.
type Analyzer interface {
	Analyze(text string) cleaner.Result
}
