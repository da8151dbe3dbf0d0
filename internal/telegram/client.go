// Package telegram provides a client for sending run summaries via Telegram Bot API.
// It formats exposure and reachability reports into human-readable messages and
// handles delivery with retry logic for reliability.
//
// Messages use MarkdownV2, so every piece of dynamic text is escaped before
// it is placed in the template.
package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rewired-gh/skyhook-sim/internal/models"
)

// sender is the subset of the bot API the client needs
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client handles Telegram notifications
type Client struct {
	bot            sender
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	return newClient(bot, chatID, maxRetries, retryDelayBase)
}

func newClient(bot sender, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// Send sends a notification describing one run
func (c *Client) Send(summary *models.RunSummary) error {
	if err := summary.Validate(); err != nil {
		return fmt.Errorf("invalid run summary: %w", err)
	}

	msg := tgbotapi.NewMessage(c.chatID, formatMessage(summary))
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	// Send with retry
	var lastErr error

	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		if i < c.maxRetries-1 {
			time.Sleep(c.retryDelayBase * time.Duration(i+1))
		}
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

// formatMessage formats a run summary into a Telegram message
func formatMessage(summary *models.RunSummary) string {
	var b strings.Builder
	b.WriteString("🛰 *Skyhook Exposure Run*\n\n")

	if e := summary.Exposure; e != nil {
		peakLabel := ""
		if e.PeakHour >= 0 && e.PeakHour < len(e.Series) {
			peakLabel = e.Series[e.PeakHour].Label
		}
		horizon := time.Duration(len(e.Series)) * time.Hour

		fmt.Fprintf(&b, "📅 Generated: %s\n", escapeMarkdownV2(e.GeneratedAt.Format("2006-01-02 15:04:05")))
		fmt.Fprintf(&b, "🏗 Entities: %d over %s\n", e.Params.Entities, escapeMarkdownV2(formatDuration(horizon)))
		fmt.Fprintf(&b, "📈 Peak: *%d* vulnerable at hour %d \\(%s\\)\n",
			e.PeakCount, e.PeakHour, escapeMarkdownV2(peakLabel))
		fmt.Fprintf(&b, "🧮 Total window\\-hours: %d\n\n", e.Total)
	}

	if r := summary.Reach; r != nil {
		fmt.Fprintf(&b, "🎯 Targets: %d of %d requested\n", r.Targets, r.Count)
		if r.Defined {
			fmt.Fprintf(&b, "🚀 Mean hops: *%s*\n", escapeMarkdownV2(fmt.Sprintf("%.2f", r.MeanHops)))
		} else {
			b.WriteString("🚀 Mean hops: undefined\n")
		}
		fmt.Fprintf(&b, "⏱ Within %d jumps: *%s* \\(%d/%d trials\\)\n",
			r.MaxJumps, escapeMarkdownV2(formatPercent(r.ProbabilityWithin)), r.Successful, r.Trials)
	}

	return b.String()
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	// Characters that need escaping in MarkdownV2:
	// _ * [ ] ( ) ~ ` > # + - = | { } . !
	var b strings.Builder
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	if hours >= 48 && hours%24 == 0 {
		return fmt.Sprintf("%dd", hours/24)
	}
	if hours >= 1 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}

// formatPercent formats a probability as a percentage with one decimal
func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}
