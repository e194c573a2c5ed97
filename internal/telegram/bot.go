// Package telegram runs quizzes as a long-polling Telegram bot. Each chat
// gets one engine; the question message is edited in place as the user
// taps inline buttons.
package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/abhisek/protoquiz/internal/bank"
	"github.com/abhisek/protoquiz/internal/quiz"
	"github.com/abhisek/protoquiz/internal/sessions"
	"github.com/abhisek/protoquiz/internal/store"
)

// API is the subset of *tgbotapi.BotAPI the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot is the Telegram host.
type Bot struct {
	api      API
	banks    *bank.Registry
	sessions *sessions.Manager
	repo     store.EventRepo
	log      zerolog.Logger
	now      func() time.Time
}

// Connect authenticates token against the Bot API.
func Connect(token string, debug bool) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	api.Debug = debug
	return api, nil
}

// New creates a Bot. repo may be nil.
func New(api API, banks *bank.Registry, sess *sessions.Manager, repo store.EventRepo, log zerolog.Logger) *Bot {
	return &Bot{
		api:      api,
		banks:    banks,
		sessions: sess,
		repo:     repo,
		log:      log.With().Str("component", "telegram").Logger(),
		now:      time.Now,
	}
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	go b.sessions.Run(ctx, 5*time.Minute, nil)

	b.log.Info().Msg("bot polling for updates")
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case upd, ok := <-updates:
			if !ok {
				return errors.New("update channel closed")
			}
			b.Handle(ctx, upd)
		}
	}
}

// Handle processes one update.
func (b *Bot) Handle(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.CallbackQuery != nil:
		b.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil && upd.Message.IsCommand():
		b.handleCommand(upd.Message)
	}
}

func chatKey(chatID int64) string { return "tg:" + strconv.FormatInt(chatID, 10) }

func (b *Bot) handleCommand(m *tgbotapi.Message) {
	chatID := m.Chat.ID
	switch m.Command() {
	case "start", "quizzes":
		b.send(chatID, bankMenu(b.banks.All()))
	case "quit":
		b.sessions.Delete(chatKey(chatID))
		b.send(chatID, Rendered{Text: "Quiz closed. Send /start to pick another."})
	case "help":
		b.send(chatID, Rendered{Text: helpText})
	default:
		b.send(chatID, Rendered{Text: "Unknown command. " + helpText})
	}
}

const helpText = "/start lists the quizzes, /quit abandons the current one."

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil || cq.Message.Chat == nil {
		b.ack(cq.ID, "")
		return
	}
	chatID, msgID := cq.Message.Chat.ID, cq.Message.MessageID
	log := b.log.With().Int64("chat", chatID).Str("data", cq.Data).Logger()

	cb, err := ParseCallback(cq.Data)
	if err != nil {
		log.Warn().Err(err).Msg("bad callback")
		b.ack(cq.ID, "Unknown button.")
		return
	}

	switch {
	case cb.Menu:
		b.ack(cq.ID, "")
		b.edit(chatID, msgID, bankMenu(b.banks.All()))
		return
	case cb.BankID != "":
		b.startQuiz(cq, cb.BankID)
		return
	}

	var view quiz.View
	err = b.sessions.Peek(chatKey(chatID), func(s *sessions.Session) error {
		defer func() { view = s.Engine.View() }()
		return b.apply(ctx, s, cb.Action)
	})
	switch {
	case errors.Is(err, sessions.ErrNotFound):
		b.ack(cq.ID, "This quiz has expired.")
		b.edit(chatID, msgID, bankMenu(b.banks.All()))
		return
	case err != nil:
		log.Debug().Err(err).Msg("action rejected")
		b.ack(cq.ID, rejection(err))
		return
	}
	b.ack(cq.ID, "")
	b.edit(chatID, msgID, renderView(view))
}

func (b *Bot) startQuiz(cq *tgbotapi.CallbackQuery, bankID string) {
	chatID := cq.Message.Chat.ID
	bk, err := b.banks.Get(bankID)
	if err != nil {
		b.ack(cq.ID, "That quiz is no longer available.")
		return
	}

	var view quiz.View
	err = b.sessions.With(chatKey(chatID), bk, func(s *sessions.Session) error {
		s.Restart(b.now())
		view = s.Engine.View()
		return nil
	})
	if err != nil {
		b.log.Error().Err(err).Str("bank", bankID).Msg("start quiz")
		b.ack(cq.ID, rejection(err))
		return
	}
	b.ack(cq.ID, "")
	b.edit(chatID, cq.Message.MessageID, renderView(view))
}

func (b *Bot) apply(ctx context.Context, s *sessions.Session, a quiz.Action) error {
	switch a.Kind {
	case quiz.ActionRetake:
		s.Restart(b.now())
		return nil
	case quiz.ActionSubmit:
		res, err := s.Engine.Submit()
		if err != nil {
			return err
		}
		b.record(ctx, res, s.Started)
		return nil
	default:
		return s.Engine.Apply(a)
	}
}

func (b *Bot) record(ctx context.Context, res quiz.Result, started time.Time) {
	if b.repo == nil {
		return
	}
	if _, err := b.repo.AppendAttempt(ctx, store.AttemptFromResult(res, store.HostTelegram, started, b.now())); err != nil {
		b.log.Error().Err(err).Str("bank", res.BankID).Msg("record attempt")
	}
}

func (b *Bot) ack(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		b.log.Warn().Err(err).Msg("answer callback")
	}
}

func (b *Bot) send(chatID int64, r Rendered) {
	msg := tgbotapi.NewMessage(chatID, r.Text)
	msg.ParseMode = tgbotapi.ModeHTML
	if len(r.Keyboard.InlineKeyboard) > 0 {
		msg.ReplyMarkup = r.Keyboard
	}
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error().Err(err).Int64("chat", chatID).Msg("send message")
	}
}

func (b *Bot) edit(chatID int64, msgID int, r Rendered) {
	msg := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, r.Text, r.Keyboard)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		// Re-selecting a locked answer re-renders identical content.
		if strings.Contains(err.Error(), "message is not modified") {
			return
		}
		b.log.Error().Err(err).Int64("chat", chatID).Msg("edit message")
	}
}
