// Package notify reports failed aggregation jobs to telegram.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/umputun/pulsefeed/pkg/domain"
)

// max telegram message length in characters
const maxMessageLen = 4096

// Params of telegram notifier
type Params struct {
	Token    string
	ChatID   int64
	Endpoint string        // bot api endpoint format, tgbotapi.APIEndpoint if empty
	Timeout  time.Duration // http timeout, 10s if empty
}

// Telegram sends job failures to a chat
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram makes notifier and checks the token with getMe
func NewTelegram(p Params) (*Telegram, error) {
	if p.Endpoint == "" {
		p.Endpoint = tgbotapi.APIEndpoint
	}
	if p.Timeout == 0 {
		p.Timeout = 10 * time.Second
	}
	bot, err := tgbotapi.NewBotAPIWithClient(p.Token, p.Endpoint, &http.Client{Timeout: p.Timeout})
	if err != nil {
		return nil, fmt.Errorf("make telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: p.ChatID}, nil
}

// JobFailed sends a message about failed job
func (t *Telegram) JobFailed(_ context.Context, job domain.Job) error {
	msg := tgbotapi.NewMessage(t.chatID, jobMessage(job))
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

func jobMessage(job domain.Job) string {
	text := fmt.Sprintf("pulsefeed job #%d %s in %s\nfeeds: %d, articles: %d\n\n%s",
		job.ID, strings.ToLower(string(job.Status)), domain.FormatElapsed(job.Elapsed()),
		job.FeedsCount, job.ItemsCount, job.Reason)
	text = strings.TrimSpace(text)
	if runes := []rune(text); len(runes) > maxMessageLen {
		text = string(runes[:maxMessageLen-1]) + "…"
	}
	return text
}
