package handler

import (
	"context"
	"errors"
	"sync"

	"github.com/liuran001/LinkCleanBot/bot/cleaner"
	"github.com/liuran001/LinkCleanBot/bot/tracking"
	"github.com/mymmrac/telego"
)

// recordingSender implements telegram.Sender and keeps every request.
type recordingSender struct {
	mu      sync.Mutex
	sent    []*telego.SendMessageParams
	failFor map[int64]error // by chat ID
}

func newRecordingSender() *recordingSender {
	return &recordingSender{failFor: make(map[int64]error)}
}

func (s *recordingSender) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failFor[params.ChatID.ID]; ok {
		return nil, err
	}
	s.sent = append(s.sent, params)
	return &telego.Message{MessageID: len(s.sent), Text: params.Text}, nil
}

func (s *recordingSender) messages() []*telego.SendMessageParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*telego.SendMessageParams, len(s.sent))
	copy(out, s.sent)
	return out
}

var errForbidden = errors.New("Forbidden: bot can't initiate conversation with a user")

func newTestCleaner() *cleaner.Cleaner {
	return cleaner.New(tracking.Default(), nil)
}

func privateChat(id int64) telego.Chat {
	return telego.Chat{ID: id, Type: "private"}
}

func groupChat(id int64) telego.Chat {
	return telego.Chat{ID: id, Type: "supergroup"}
}

func textUpdate(chat telego.Chat, fromID int64, text string) *telego.Update {
	return &telego.Update{
		UpdateID: 1,
		Message: &telego.Message{
			MessageID: 100,
			Chat:      chat,
			From:      &telego.User{ID: fromID, FirstName: "tester"},
			Text:      text,
		},
	}
}

func commandUpdate(chat telego.Chat, fromID int64, text string) *telego.Update {
	update := textUpdate(chat, fromID, text)
	command := text
	for i, r := range text {
		if r == ' ' || r == '\n' {
			command = text[:i]
			break
		}
	}
	update.Message.Entities = []telego.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command)}}
	return update
}
