package telegram

import (
	"context"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/recallbot/internal/config"
	"github.com/sandevgo/recallbot/internal/service/agent"
	"github.com/sandevgo/recallbot/pkg/log"
)

const baseContextKey = "base_context"

type Bot struct {
	bot     *tele.Bot
	cfg     *config.TelegramConfig
	agent   *agent.Agent
	send    *sender
	ownerID int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	agent *agent.Agent,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		cfg:     cfg,
		agent:   agent,
		send:    newSender(b),
		ownerID: cfg.OwnerID,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: Only allow the owner
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender().ID != bot.ownerID {
				return nil // Ignore unauthorized users
			}
			return next(c)
		}
	})

	b.Handle("/reset", bot.handleReset)
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)

	userID := fmt.Sprintf("telegram-%d", c.Sender().ID)
	sessionID := fmt.Sprintf("telegram-chat-%d", c.Chat().ID)

	// Notify user we are working
	_ = c.Notify(tele.Typing)

	reply, err := b.agent.Run(ctx, userID, sessionID, c.Text())
	if err != nil {
		logger.Error().Err(err).Msg("agent run failed")
		return c.Send(fmt.Sprintf("error: %v", err))
	}

	return b.send.sendMarkdown(ctx, c.Chat(), reply)
}

func (b *Bot) handleReset(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	userID := fmt.Sprintf("telegram-%d", c.Sender().ID)

	if err := b.agent.Reset(ctx, userID); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("memory reset failed")
		return c.Send("reset failed")
	}
	return c.Send("memory wiped")
}
