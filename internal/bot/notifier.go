// Package bot delivers alert and digest messages to a Telegram chat.
package bot

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"

	"github.com/yordihernandez1/trading-alert2/internal/domain"
)

type messageSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Notifier sends messages to the single configured chat. Delivery failures
// are reported, never retried; the next scheduled run is the retry.
type Notifier struct {
	sender messageSender
	chatID int64
	log    zerolog.Logger
}

func New(token string, chatID int64, log zerolog.Logger) (*Notifier, error) {
	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return NewWithSender(b, chatID, log), nil
}

// NewWithSender wires an arbitrary sender, for tests.
func NewWithSender(sender messageSender, chatID int64, log zerolog.Logger) *Notifier {
	return &Notifier{
		sender: sender,
		chatID: chatID,
		log:    log.With().Str("component", "bot").Logger(),
	}
}

// SendAlert delivers the opportunity message, as a photo with caption when a
// chart is attached. A failed photo send degrades to plain text once.
func (n *Notifier) SendAlert(ctx context.Context, cand domain.Candidate, sentiment domain.SentimentReport, chart *domain.ChartImage) error {
	_ = ctx
	msg := FormatAlert(cand, sentiment)
	chat := &tele.Chat{ID: n.chatID}

	if chart != nil {
		photo := &tele.Photo{
			File:    tele.FromReader(bytes.NewReader(chart.Bytes)),
			Caption: truncate(msg, photoCaptionLimit),
		}
		_, err := n.sender.Send(chat, photo)
		if err == nil {
			return nil
		}
		n.log.Warn().Err(err).Str("symbol", cand.Symbol).Msg("photo alert failed, falling back to text")
	}

	if _, err := n.sender.Send(chat, truncate(msg, textMessageLimit)); err != nil {
		return fmt.Errorf("send alert for %s: %w", cand.Symbol, err)
	}
	return nil
}

// SendDigest delivers the no-opportunity summary.
func (n *Notifier) SendDigest(ctx context.Context, text string) error {
	_ = ctx
	if _, err := n.sender.Send(&tele.Chat{ID: n.chatID}, truncate(text, textMessageLimit)); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}
