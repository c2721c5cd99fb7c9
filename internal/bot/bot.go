// Package bot wires the conversation engine to the Telegram transport.
package bot

import (
	"context"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/talarad/goldrad-bot/internal/bot/keyboard"
	"github.com/talarad/goldrad-bot/internal/dialog"
	apperrors "github.com/talarad/goldrad-bot/internal/errors"
	"github.com/talarad/goldrad-bot/internal/i18n"
	"github.com/talarad/goldrad-bot/internal/middleware"
	"github.com/talarad/goldrad-bot/internal/state"
	"github.com/talarad/goldrad-bot/pkg/config"
	"github.com/talarad/goldrad-bot/pkg/logger"
)

// CommandStart begins or restarts a conversation.
const CommandStart = "/start"

// Bot wraps telebot.Bot with the application dependencies required for handling updates.
type Bot struct {
	telebot    *telebot.Bot
	controller *dialog.Controller
	t          i18n.Translator
	log        *slog.Logger
	errHandler *apperrors.Handler
}

// New builds a telegram bot instance configured according to the application settings.
func New(
	cfg config.Config,
	log *slog.Logger,
	controller *dialog.Controller,
	store state.Store,
	t i18n.Translator,
	rateLimitMw *middleware.RateLimitMiddleware,
) (*Bot, error) {
	settings := telebot.Settings{
		Token: cfg.Bot.Token,
	}

	if cfg.Bot.Mode == "webhook" {
		listen := cfg.Bot.WebhookListen
		if listen == "" {
			listen = ":8443"
		}
		settings.Poller = &telebot.Webhook{
			Listen: listen,
		}
	} else {
		settings.Poller = &telebot.LongPoller{
			Timeout: cfg.Bot.Timeout,
		}
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	b := &Bot{
		telebot:    tb,
		controller: controller,
		t:          t,
		log:        log,
		errHandler: apperrors.NewHandler(log, cfg.Sentry.Enabled),
	}

	tb.Use(RecoveryMiddleware(log, b.errHandler))
	tb.Use(ErrorHandlingMiddleware(b.errHandler))
	tb.Use(LoggingMiddleware(log))
	if rateLimitMw != nil {
		tb.Use(rateLimitMw.Handle)
	}
	tb.Use(middleware.Metrics(store))

	tb.Handle(CommandStart, b.handleStart)
	tb.Handle(telebot.OnText, b.handleText)

	return b, nil
}

// Start runs the telegram bot event loop.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.telebot.Start()
	}
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	if b.log != nil {
		b.log.Info("stopping telegram bot...")
	}

	b.telebot.Stop()
}

// Telebot exposes the underlying telebot.Bot instance for integrations such as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

func (b *Bot) handleStart(c telebot.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}

	firstName := ""
	if c.Sender() != nil {
		firstName = c.Sender().FirstName
	}

	ctx := logger.WithCorrelationID(context.Background(), "")
	reply := b.controller.Start(ctx, chat.ID, firstName)

	return b.send(c, reply)
}

func (b *Bot) handleText(c telebot.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}

	ctx := logger.WithCorrelationID(context.Background(), "")
	replies := b.controller.HandleMessage(ctx, chat.ID, c.Text())

	for _, reply := range replies {
		if err := b.send(c, reply); err != nil {
			return err
		}
	}

	return nil
}

func (b *Bot) send(c telebot.Context, reply dialog.Reply) error {
	return c.Send(reply.Text, keyboard.ForMenu(reply.Menu, b.t))
}
