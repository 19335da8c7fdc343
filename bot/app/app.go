package app

import (
	"context"
	"fmt"
	"time"

	"github.com/liuran001/LinkCleanBot/bot/cleaner"
	"github.com/liuran001/LinkCleanBot/bot/config"
	logpkg "github.com/liuran001/LinkCleanBot/bot/logger"
	"github.com/liuran001/LinkCleanBot/bot/telegram"
	"github.com/liuran001/LinkCleanBot/bot/telegram/handler"
	"github.com/liuran001/LinkCleanBot/bot/tracking"
	"github.com/liuran001/LinkCleanBot/bot/worker"
	"github.com/mymmrac/telego"
	"golang.org/x/sync/errgroup"
)

// App wires all application dependencies.
type App struct {
	Config   *config.Config
	Logger   *logpkg.Logger
	Cleaner  *cleaner.Cleaner
	Pool     *worker.Pool
	Telegram *telegram.Bot
	Build    BuildInfo

	group *errgroup.Group
}

// BuildInfo provides build-time metadata.
type BuildInfo struct {
	RuntimeVer string
	BinVersion string
	CommitSHA  string
	BuildTime  string
	BuildArch  string
}

// New builds the application container.
func New(ctx context.Context, configPath string, build BuildInfo) (*App, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	log, err := logpkg.New(logpkg.Options{
		Level:     conf.GetString("LogLevel"),
		Format:    conf.GetString("LogFormat"),
		Dir:       conf.GetString("LogDir"),
		AddSource: conf.GetBool("LogSource"),
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	params, err := tracking.Build(conf, log)
	if err != nil {
		return nil, fmt.Errorf("build tracking set: %w", err)
	}
	log.Info("tracking parameters loaded", "count", params.Len())

	pool := worker.New(conf.GetInt("WorkerPoolSize"), log)

	tele, err := telegram.New(conf, log)
	if err != nil {
		return nil, fmt.Errorf("init telegram: %w", err)
	}

	return &App{
		Config:   conf,
		Logger:   log,
		Cleaner:  cleaner.New(params, log.With("component", "cleaner")),
		Pool:     pool,
		Telegram: tele,
		Build:    build,
	}, nil
}

// Start registers commands and begins long polling in the background.
func (a *App) Start(ctx context.Context) error {
	meCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	me, err := a.Telegram.GetMe(meCtx)
	if err != nil {
		return fmt.Errorf("getMe: %w", err)
	}
	botName := me.Username
	a.Logger.Info("authorized", "bot", botName, "id", me.ID)

	rateLimitPerSecond := a.Config.GetFloat64("RateLimitPerSecond")
	if rateLimitPerSecond <= 0 {
		rateLimitPerSecond = 1.0
	}
	rateLimitBurst := a.Config.GetInt("RateLimitBurst")
	if rateLimitBurst <= 0 {
		rateLimitBurst = 3
	}
	rateLimiter := telegram.NewRateLimiter(rateLimitPerSecond, rateLimitBurst)
	rateLimiter.SetLogger(a.Logger)

	whitelistChats, err := a.Config.GetInt64List("WhitelistChatIDs")
	if err != nil {
		return fmt.Errorf("parse WhitelistChatIDs: %w", err)
	}
	admins, err := a.Config.GetInt64List("BotAdmin")
	if err != nil {
		return fmt.Errorf("parse BotAdmin: %w", err)
	}

	whitelist := handler.NewWhitelist(a.Config.GetBool("EnableWhitelist"), whitelistChats, admins)
	if whitelist.Enabled() {
		a.Logger.Info("chat whitelist enabled", "chats", whitelist.List(), "admins", len(admins))
	}

	handlerLog := a.Logger.With("component", "handler")
	router := &handler.Router{
		Scan:  &handler.ScanHandler{Cleaner: a.Cleaner, RateLimiter: rateLimiter, Logger: handlerLog},
		Clean: &handler.CleanHandler{Cleaner: a.Cleaner, RateLimiter: rateLimiter, Logger: handlerLog},
		Help:  &handler.HelpHandler{RateLimiter: rateLimiter, Logger: handlerLog},
		About: &handler.AboutHandler{
			RuntimeVer:  a.Build.RuntimeVer,
			BinVersion:  a.Build.BinVersion,
			CommitSHA:   a.Build.CommitSHA,
			BuildTime:   a.Build.BuildTime,
			BuildArch:   a.Build.BuildArch,
			ParamCount:  a.Cleaner.Params().Len(),
			RateLimiter: rateLimiter,
			Logger:      handlerLog,
		},
		Whitelist: whitelist,
		BotName:   botName,
		AutoScan:  a.Config.GetBool("EnableAutoScan"),
	}

	if err := a.Telegram.SetCommands(ctx, router.Commands()); err != nil {
		a.Logger.Warn("setMyCommands failed", "error", err)
	}

	sender := a.Telegram.Sender()
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return a.Telegram.Start(groupCtx, func(ctx context.Context, update telego.Update) {
			if err := a.Pool.Submit(func() {
				router.Dispatch(ctx, sender, &update)
			}); err != nil {
				a.Logger.Warn("dropping update", "update_id", update.UpdateID, "error", err)
			}
		})
	})
	a.group = group
	a.Logger.Info("bot started", "workers", a.Pool.Size(), "auto_scan", router.AutoScan)
	return nil
}

// Shutdown waits for polling to stop and releases resources.
func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error

	if a.group != nil {
		if err := a.group.Wait(); err != nil {
			if a.Logger != nil {
				a.Logger.Error("long polling failed", "error", err)
			}
			firstErr = fmt.Errorf("long polling: %w", err)
		}
	}

	if a.Pool != nil {
		if err := a.Pool.Shutdown(ctx); err != nil {
			a.Pool.StopNow()
			if firstErr == nil {
				firstErr = fmt.Errorf("shutdown worker pool: %w", err)
			}
		}
	}

	if a.Logger != nil {
		if err := a.Logger.Close(); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("close logger: %w", err)
			}
		}
	}

	return firstErr
}
