package telegram

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"sync"
	"time"

	botpkg "github.com/liuran001/LinkCleanBot/bot"
	"github.com/mymmrac/telego"
	"github.com/mymmrac/telego/telegoapi"
	"golang.org/x/time/rate"
)

// ErrRetriesExhausted is returned when flood control persists past every retry.
var ErrRetriesExhausted = errors.New("telegram: retries exhausted")

const (
	defaultMaxRetries = 3
	defaultIdleTTL    = 10 * time.Minute
)

type chatLimiter struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// RateLimiter paces outbound messages per chat. Chats idle for longer than the
// idle TTL are forgotten.
type RateLimiter struct {
	mu        sync.Mutex
	limiters  map[int64]*chatLimiter
	rate      rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
	logger    botpkg.Logger
}

func NewRateLimiter(msgPerSec float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiters:  make(map[int64]*chatLimiter),
		rate:      rate.Limit(msgPerSec),
		burst:     burst,
		idleTTL:   defaultIdleTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (rl *RateLimiter) SetLogger(logger botpkg.Logger) {
	rl.logger = logger
}

func (rl *RateLimiter) getLimiter(chatID int64) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.idleTTL {
		rl.sweep(now)
	}

	entry, ok := rl.limiters[chatID]
	if !ok {
		entry = &chatLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[chatID] = entry
	}
	entry.lastUsed = now
	return entry.limiter
}

// sweep drops limiters idle for at least idleTTL. Caller holds mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for id, entry := range rl.limiters {
		if now.Sub(entry.lastUsed) >= rl.idleTTL {
			delete(rl.limiters, id)
		}
	}
	rl.lastSweep = now
}

// tracked reports how many chats currently hold a limiter.
func (rl *RateLimiter) tracked() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *RateLimiter) Wait(ctx context.Context, chatID int64) error {
	return rl.getLimiter(chatID).Wait(ctx)
}

var retryAfterPattern = regexp.MustCompile(`(?i)retry\s+after[:\s]+(\d+)`)

// retryAfter extracts Telegram's flood-control delay from err. The structured
// response parameters win; the text match covers errors that lost their type.
func retryAfter(err error) (time.Duration, bool) {
	if err == nil {
		return 0, false
	}

	var apiErr *telegoapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Parameters != nil && apiErr.Parameters.RetryAfter > 0 {
			return time.Duration(apiErr.Parameters.RetryAfter) * time.Second, true
		}
		return 0, false
	}

	if matches := retryAfterPattern.FindStringSubmatch(err.Error()); len(matches) == 2 {
		if parsed, parseErr := strconv.Atoi(matches[1]); parseErr == nil && parsed > 0 {
			return time.Duration(parsed) * time.Second, true
		}
	}
	return 0, false
}

// WithRetry runs fn under the chat's rate limit, retrying when Telegram
// answers with a retry-after hint.
func WithRetry(ctx context.Context, rl *RateLimiter, chatID int64, fn func() error) error {
	if fn == nil {
		return nil
	}
	if rl == nil {
		return fn()
	}
	for attempt := 0; attempt < defaultMaxRetries; attempt++ {
		if err := rl.Wait(ctx, chatID); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}

		delay, ok := retryAfter(err)
		if !ok {
			return err
		}
		if rl.logger != nil {
			rl.logger.Warn("flood control, retrying", "chat_id", chatID, "retry_after", delay, "attempt", attempt+1)
		}

		if attempt < defaultMaxRetries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return ErrRetriesExhausted
}

func extractChatID(chatID telego.ChatID) int64 {
	if chatID.ID != 0 {
		return chatID.ID
	}
	id, _ := strconv.ParseInt(chatID.Username, 10, 64)
	return id
}

// SendMessageWithRetry sends params through s with per-chat pacing and retry.
func SendMessageWithRetry(ctx context.Context, rl *RateLimiter, s Sender, params *telego.SendMessageParams) (*telego.Message, error) {
	var result *telego.Message

	chatID := extractChatID(params.ChatID)
	err := WithRetry(ctx, rl, chatID, func() error {
		msg, err := s.SendMessage(ctx, params)
		if err != nil {
			return err
		}
		result = msg
		return nil
	})
	if err != nil {
		if rl != nil && rl.logger != nil {
			rl.logger.Error("sendMessage failed", "chat_id", chatID, "error", err)
		}
		return nil, err
	}
	return result, nil
}
