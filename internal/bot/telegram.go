package bot

import (
	"context"
	"fmt"
	"time"

	"btc-signal-bot/internal/report"

	"github.com/charmbracelet/log"
	tele "gopkg.in/telebot.v3"
)

var newBot = tele.NewBot

// NewTelegramBot creates a long-polling bot. An empty token returns nil so
// callers can run without Telegram.
func NewTelegramBot(token string) (*tele.Bot, error) {
	if token == "" {
		log.Warn("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil, nil
	}
	b, err := newBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.Error("telegram handler failed", "err", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return b, nil
}

// Poller is the part of *tele.Bot that runs the update loop.
type Poller interface {
	Start()
	Stop()
}

// StartTelegramBot announces the bot to the authorized user and polls for
// updates until ctx is done.
func StartTelegramBot(ctx context.Context, b Poller, notifier *Notifier, chatID int64, startup string) {
	if err := notifier.Notify(ctx, chatID, startup); err != nil {
		log.Error("Failed to send startup message", "err", err)
	}

	go func() {
		<-ctx.Done()
		b.Stop()
	}()

	log.Info("Telegram bot started")
	b.Start()
}

// MessageSender is satisfied by *tele.Bot.
type MessageSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Notifier pushes messages to a chat outside of an update handler.
type Notifier struct {
	sender MessageSender
}

func NewNotifier(sender MessageSender) *Notifier {
	return &Notifier{sender: sender}
}

// Notify sends text as Markdown, retrying as plain text when Telegram
// rejects the markup. Long texts are split into several messages.
func (n *Notifier) Notify(ctx context.Context, chatID int64, text string) error {
	to := tele.ChatID(chatID)
	for _, chunk := range report.Split(text, report.MaxMessageLength) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := n.sender.Send(to, chunk, tele.ModeMarkdown); err != nil {
			log.Warn("markdown send failed, retrying as plain text", "err", err)
			if _, err := n.sender.Send(to, chunk); err != nil {
				return fmt.Errorf("send message: %w", err)
			}
		}
	}
	return nil
}
