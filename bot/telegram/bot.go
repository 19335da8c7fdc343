package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	botpkg "github.com/liuran001/LinkCleanBot/bot"
	"github.com/liuran001/LinkCleanBot/bot/config"
	"github.com/mymmrac/telego"
	"github.com/mymmrac/telego/telegoapi"
	"github.com/sony/gobreaker"
)

// Sender is the part of the Bot API the handlers talk to.
type Sender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// Bot wraps telego with application configuration.
type Bot struct {
	client      *telego.Bot
	poll        *telego.Bot
	breaker     *gobreaker.CircuitBreaker
	config      *config.Config
	logger      botpkg.Logger
	pollTimeout int
}

// New creates a new Telegram bot client.
func New(cfg *config.Config, logger botpkg.Logger) (*Bot, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger required")
	}

	pollTimeout := cfg.GetInt("PollTimeoutSec")
	if pollTimeout <= 0 {
		pollTimeout = 30
	}

	sendClient := &http.Client{
		Timeout:   30 * time.Second,
		Transport: newTransport(),
	}

	// getUpdates is idempotent until the offset moves, so transport errors are retried.
	retry := retryablehttp.NewClient()
	retry.RetryMax = 3
	retry.RetryWaitMin = 500 * time.Millisecond
	retry.RetryWaitMax = 5 * time.Second
	retry.Logger = nil
	retry.HTTPClient = &http.Client{
		Timeout:   time.Duration(pollTimeout)*time.Second + 30*time.Second,
		Transport: newTransport(),
	}

	client, err := telego.NewBot(cfg.GetString("BOT_TOKEN"), botOptions(cfg, logger, sendClient)...)
	if err != nil {
		return nil, err
	}
	poll, err := telego.NewBot(cfg.GetString("BOT_TOKEN"), botOptions(cfg, logger, retry.StandardClient())...)
	if err != nil {
		return nil, err
	}

	breaker := newBreaker(logger)

	return &Bot{
		client:      client,
		poll:        poll,
		breaker:     breaker,
		config:      cfg,
		logger:      logger,
		pollTimeout: pollTimeout,
	}, nil
}

func newBreaker(logger botpkg.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "telegram-send",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     20 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			}
		},
	})
}

func newTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		MaxConnsPerHost:       50,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

func botOptions(cfg *config.Config, logger botpkg.Logger, httpClient *http.Client) []telego.BotOption {
	options := []telego.BotOption{
		telego.WithHTTPClient(httpClient),
		telego.WithLogger(telegoLogger{logger: logger}),
	}
	if cfg.GetString("BotAPI") != "" {
		options = append(options, telego.WithAPIServer(cfg.GetString("BotAPI")))
	}
	if cfg.GetBool("BotDebug") {
		options = append(options, telego.WithDebugMode())
	}
	return options
}

// isBreakerSuccess keeps per-chat rejections (blocked bot, missing chat) from
// tripping the breaker; only rate limits, server errors and transport errors count.
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	var apiErr *telegoapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode >= 400 && apiErr.ErrorCode < 500 && apiErr.ErrorCode != http.StatusTooManyRequests
	}
	return errors.Is(err, context.Canceled)
}

// Start long-polls updates and hands each one to dispatch until ctx is canceled.
func (b *Bot) Start(ctx context.Context, dispatch func(ctx context.Context, update telego.Update)) error {
	if dispatch == nil {
		return fmt.Errorf("dispatch required")
	}
	updates, err := b.poll.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout:        b.pollTimeout,
		AllowedUpdates: []string{"message"},
	})
	if err != nil {
		return fmt.Errorf("start long polling: %w", err)
	}
	b.logger.Info("long polling started", "timeout_sec", b.pollTimeout)

	for update := range updates {
		dispatch(ctx, update)
	}
	b.logger.Info("long polling stopped")
	return nil
}

// Client exposes the underlying bot client.
func (b *Bot) Client() *telego.Bot {
	return b.client
}

// Sender returns a Sender whose calls pass through the circuit breaker.
func (b *Bot) Sender() Sender {
	return breakerSender{next: b.client, breaker: b.breaker}
}

// GetMe retrieves bot info.
func (b *Bot) GetMe(ctx context.Context) (*telego.User, error) {
	return b.poll.GetMe(ctx)
}

// SetCommands publishes the command list shown in Telegram clients.
func (b *Bot) SetCommands(ctx context.Context, commands []telego.BotCommand) error {
	return b.poll.SetMyCommands(ctx, &telego.SetMyCommandsParams{Commands: commands})
}

type breakerSender struct {
	next    Sender
	breaker *gobreaker.CircuitBreaker
}

func (s breakerSender) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	res, err := s.breaker.Execute(func() (interface{}, error) {
		return s.next.SendMessage(ctx, params)
	})
	if err != nil {
		return nil, err
	}
	msg, _ := res.(*telego.Message)
	return msg, nil
}

type telegoLogger struct {
	logger botpkg.Logger
}

func (l telegoLogger) Debugf(format string, args ...any) {
	if l.logger == nil {
		return
	}
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l telegoLogger) Errorf(format string, args ...any) {
	if l.logger == nil {
		return
	}
	l.logger.Error(fmt.Sprintf(format, args...))
}
