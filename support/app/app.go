// Package app wires configuration, the state store, the Telegram bot, and
// the conversation engine into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/supportbot/core/buildinfo"
	coreconfig "github.com/m3rciful/supportbot/core/config"
	"github.com/m3rciful/supportbot/core/logger"
	"github.com/m3rciful/supportbot/core/store"
	coretelegram "github.com/m3rciful/supportbot/core/telegram"
	"github.com/m3rciful/supportbot/core/telegram/middleware"
	"github.com/m3rciful/supportbot/support/engine"
	"github.com/m3rciful/supportbot/support/event"
	"github.com/m3rciful/supportbot/support/gateway"
)

// App holds the assembled service.
type App struct {
	cfg    *coreconfig.Config
	bot    *tele.Bot
	store  store.Store
	engine *engine.Engine

	closeStore func() error
}

// New builds the store backend, the bot, and the engine, and registers all
// routes and middlewares.
func New(ctx context.Context, cfg *coreconfig.Config) (*App, error) {
	st, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	settings := tele.Settings{
		Token: cfg.Telegram.Token,
		OnError: func(err error, c tele.Context) {
			attrs := []slog.Attr{slog.String("err", err.Error())}
			if c != nil {
				attrs = append(attrs, slog.Int("update_id", c.Update().ID))
			}
			logger.Error(logger.Background(), "tg", "handler.failed", attrs...)
		},
	}
	if cfg.Telegram.RunMode == coreconfig.RunModeLongpoll {
		timeout := cfg.Telegram.LongPollTimeoutSeconds
		if timeout <= 0 {
			timeout = 10
		}
		settings.Poller = &tele.LongPoller{Timeout: time.Duration(timeout) * time.Second}
	}

	bot, err := tele.NewBot(settings)
	if err != nil {
		if closeStore != nil {
			_ = closeStore()
		}
		return nil, fmt.Errorf("telegram: bot initialization failed: %w", err)
	}

	keys := store.NewKeys(cfg.Support.ChatID)
	gw := gateway.NewTelebot(bot, cfg.Support.ChatID)
	eng := engine.New(st, keys, gw, cfg.Support)

	a := &App{
		cfg:        cfg,
		bot:        bot,
		store:      st,
		engine:     eng,
		closeStore: closeStore,
	}
	a.routes(store.NewDedup(st, keys))
	return a, nil
}

func buildStore(ctx context.Context, cfg *coreconfig.Config) (store.Store, func() error, error) {
	switch cfg.Store.Backend {
	case coreconfig.StoreRedis:
		st, err := store.ConnectRedis(ctx, cfg.Store.Redis)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	case coreconfig.StorePostgres:
		st, err := store.ConnectPostgres(cfg.Store.Postgres)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	case coreconfig.StoreMemory:
		logger.App.Warn("memory store selected; state is lost on restart",
			slog.String("event", "store.memory"),
		)
		return store.NewMemory(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func (a *App) routes(gate *store.Dedup) {
	a.bot.Use(middleware.Recover, middleware.Logging, middleware.Dedup(gate))

	a.bot.Handle("/start", a.onStart)
	a.bot.Handle(tele.OnText, a.onMessage)
	a.bot.Handle(tele.OnMedia, a.onMessage)
	a.bot.Handle(tele.OnCallback, a.onCallback)
}

// Run serves updates until ctx is done. Webhook mode runs the custom HTTP
// adapter; longpoll mode drives telebot's poller.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	logger.App.Info("support bot starting",
		slog.String("event", "start"),
		slog.String("mode", a.cfg.Telegram.RunMode),
		slog.String("build", buildinfo.Short()),
		slog.Int64("support_chat_id", a.cfg.Support.ChatID),
	)

	if a.cfg.Telegram.RunMode == coreconfig.RunModeWebhook {
		return a.runWebhook(ctx)
	}
	return a.runLongpoll(ctx)
}

func (a *App) runWebhook(ctx context.Context) error {
	server := &http.Server{
		Addr: fmt.Sprintf("%s:%d", a.cfg.Webhook.Listen, a.cfg.Webhook.Port),
		Handler: &coretelegram.WebhookHandler{
			Sink:   a.bot,
			Secret: a.cfg.Webhook.Secret,
		},
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	logger.App.Info("webhook listening",
		slog.String("event", "webhook.listen"),
		slog.String("addr", server.Addr),
	)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) runLongpoll(ctx context.Context) error {
	// A stale webhook registration blocks long polling.
	if err := a.bot.RemoveWebhook(); err != nil {
		logger.App.Warn("failed to remove webhook",
			slog.String("event", "webhook.remove"),
			slog.String("err", err.Error()),
		)
	}

	done := make(chan struct{})
	go func() {
		a.bot.Start()
		close(done)
	}()

	select {
	case <-ctx.Done():
		a.bot.Stop()
		<-done
		return nil
	case <-done:
		return nil
	}
}

func (a *App) close() {
	if a.closeStore != nil {
		if err := a.closeStore(); err != nil {
			logger.App.Warn("store close failed",
				slog.String("event", "store.close"),
				slog.String("err", err.Error()),
			)
		}
	}
}

func (a *App) onStart(c tele.Context) error {
	ctx := contextOf(c)
	return a.engine.HandleStart(ctx, event.MessageFrom(c), teleReplier{c})
}

func (a *App) onMessage(c tele.Context) error {
	ctx := contextOf(c)
	ev := event.MessageFrom(c)

	if ev.ChatID == a.cfg.Support.ChatID {
		return a.engine.HandleStaffMessage(ctx, ev)
	}
	if !ev.Private {
		return nil
	}
	return a.engine.HandleUserMessage(ctx, ev, teleReplier{c})
}

func (a *App) onCallback(c tele.Context) error {
	ctx := contextOf(c)
	// Ack the button press first so the client stops spinning; failures here
	// are irrelevant to the flow.
	_ = c.Respond()
	return a.engine.HandleCallback(ctx, event.CallbackFrom(c), teleReplier{c})
}
