package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/lingbot/internal/core"
	"github.com/sandevgo/lingbot/internal/service/chat"
	"github.com/sandevgo/lingbot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

type Bot struct {
	bot  *tele.Bot
	chat *chat.Service
}

func NewBot(ctx context.Context, cfg core.TelegramConfig, chatSvc *chat.Service) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.GetTelegramToken(),
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:  b,
		chat: chatSvc,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

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

	// One session per chat, so context and history follow the conversation.
	sessionID := fmt.Sprintf("telegram-%d", c.Chat().ID)

	_ = c.Notify(tele.Typing)

	reply, err := b.chat.Chat(ctx, sessionID, c.Text())
	if err != nil {
		logger.Error().Err(err).Str("session", sessionID).Msg("chat turn failed")
		return c.Send("處理請求時發生錯誤")
	}

	logger.Debug().
		Str("session", sessionID).
		Str("intent", reply.Intent).
		Float64("score", reply.Score).
		Msg("telegram turn")

	return c.Send(reply.Answer)
}
