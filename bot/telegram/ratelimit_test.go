package telegram

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mymmrac/telego"
	"github.com/mymmrac/telego/telegoapi"
)

func floodError(seconds int) error {
	return fmt.Errorf("telego: sendMessage: %w", &telegoapi.Error{
		ErrorCode:   429,
		Description: "Too Many Requests: retry after " + fmt.Sprint(seconds),
		Parameters:  &telegoapi.ResponseParameters{RetryAfter: seconds},
	})
}

func TestRetryAfter(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want time.Duration
		ok   bool
	}{
		{name: "nil", err: nil, want: 0, ok: false},
		{name: "api parameters", err: floodError(9), want: 9 * time.Second, ok: true},
		{name: "api error without parameters", err: &telegoapi.Error{ErrorCode: 403, Description: "Forbidden: retry after 5"}, want: 0, ok: false},
		{name: "text pattern", err: errors.New("Too Many Requests: retry after 4"), want: 4 * time.Second, ok: true},
		{name: "wrapped text", err: fmt.Errorf("send: %w", errors.New("retry after 2")), want: 2 * time.Second, ok: true},
		{name: "zero", err: errors.New("retry after 0"), want: 0, ok: false},
		{name: "other", err: errors.New("other error"), want: 0, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := retryAfter(tt.err)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("retryAfter() = (%v,%v), want (%v,%v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestWithRetryNilRateLimiter(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), nil, 0, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("WithRetry returned err: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestWithRetryContextCancelOnRetry(t *testing.T) {
	rl := NewRateLimiter(1000, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := WithRetry(ctx, rl, 1, func() error {
		return floodError(10)
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestWithRetryStopsOnPermanentError(t *testing.T) {
	rl := NewRateLimiter(1000, 5)
	calls := 0
	want := &telegoapi.Error{ErrorCode: 403, Description: "Forbidden: bot was blocked by the user"}
	err := WithRetry(context.Background(), rl, 7, func() error {
		calls++
		return want
	})
	if !errors.Is(err, want) || calls != 1 {
		t.Fatalf("expected one call returning permanent error, got %d calls, err %v", calls, err)
	}
}

type stubSender struct {
	mu    sync.Mutex
	errs  []error
	calls int
}

func (s *stubSender) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &telego.Message{MessageID: s.calls, Text: params.Text}, nil
}

func TestSendMessageWithRetryZeroDelayIsPermanent(t *testing.T) {
	rl := NewRateLimiter(1000, 5)
	sender := &stubSender{errs: []error{errors.New("retry after 0")}}

	_, err := SendMessageWithRetry(context.Background(), rl, sender, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: 10},
		Text:   "hello",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if sender.calls != 1 {
		t.Fatalf("expected 1 call, got %d", sender.calls)
	}
}

func TestSendMessageWithRetryAfterHint(t *testing.T) {
	rl := NewRateLimiter(1000, 5)
	sender := &stubSender{errs: []error{floodError(1)}}

	start := time.Now()
	msg, err := SendMessageWithRetry(context.Background(), rl, sender, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: 10},
		Text:   "hello",
	})
	if err != nil {
		t.Fatalf("SendMessageWithRetry: %v", err)
	}
	if msg == nil || msg.Text != "hello" || sender.calls != 2 {
		t.Fatalf("unexpected result msg=%+v calls=%d", msg, sender.calls)
	}
	if time.Since(start) < time.Second {
		t.Fatalf("expected to wait for retry-after")
	}
}

func TestRateLimiterForgetsIdleChats(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1000, 1)
	rl.now = func() time.Time { return now }
	rl.lastSweep = now

	rl.getLimiter(1)
	rl.getLimiter(2)
	if got := rl.tracked(); got != 2 {
		t.Fatalf("expected 2 chats, got %d", got)
	}

	now = now.Add(defaultIdleTTL / 2)
	rl.getLimiter(2)

	now = now.Add(defaultIdleTTL / 2)
	rl.getLimiter(3)
	if got := rl.tracked(); got != 2 {
		t.Fatalf("expected idle chat 1 to be dropped, got %d chats", got)
	}
	if _, ok := rl.limiters[1]; ok {
		t.Fatal("chat 1 should have been swept")
	}
	if _, ok := rl.limiters[2]; !ok {
		t.Fatal("chat 2 was active and should be kept")
	}
}

func TestExtractChatID(t *testing.T) {
	if got := extractChatID(telego.ChatID{ID: -100}); got != -100 {
		t.Fatalf("expected -100, got %d", got)
	}
	if got := extractChatID(telego.ChatID{Username: "@channel"}); got != 0 {
		t.Fatalf("expected 0 for username, got %d", got)
	}
}
