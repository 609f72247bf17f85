// Package telegram sends alert notifications via the Telegram Bot API.
package telegram

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/models"
)

// Client handles Telegram notifications for one bot/chat pair.
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client.
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

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

// sendHTML sends an HTML message with linear-backoff retry.
func (c *Client) sendHTML(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		if _, err := c.bot.Send(msg); err == nil {
			return nil
		} else {
			lastErr = err
		}
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}
	return fmt.Errorf("failed after %d retries: %w", c.maxRetries, lastErr)
}

// SendIPOAlert sends a formatted IPO status alert.
func (c *Client) SendIPOAlert(info models.IPOInfo) error {
	return c.sendHTML(formatIPOAlert(info))
}

func formatIPOAlert(info models.IPOInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>IPO Alert: %s</b>\n\n", statusEmoji(info.Status), html.EscapeString(info.Symbol))
	fmt.Fprintf(&b, "<b>Status:</b> %s\n", info.Status.Label())

	if info.CompanyName != "" {
		fmt.Fprintf(&b, "<b>Company:</b> %s\n", html.EscapeString(info.CompanyName))
	}
	if info.Exchange != "" {
		fmt.Fprintf(&b, "<b>Exchange:</b> %s\n", html.EscapeString(info.Exchange))
	}
	if info.ListingDate != "" {
		fmt.Fprintf(&b, "<b>Listing Date:</b> %s\n", html.EscapeString(info.ListingDate))
	}
	if info.Price != "" {
		fmt.Fprintf(&b, "<b>Price:</b> $%s\n", html.EscapeString(info.Price))
	}
	if info.Details != "" {
		fmt.Fprintf(&b, "\n<i>%s</i>\n", html.EscapeString(info.Details))
	}
	if info.IsTradeable() {
		b.WriteString("\n<b>Shares are now available for trading!</b>")
	}

	return strings.TrimSpace(b.String())
}

// SendVolatilityAlert sends a formatted price movement alert.
func (c *Client) SendVolatilityAlert(info models.VolatilityInfo) error {
	return c.sendHTML(formatVolatilityAlert(info))
}

func formatVolatilityAlert(info models.VolatilityInfo) string {
	emoji, label := "🚀", "RALLY"
	if info.Movement == models.MovementDrop {
		emoji, label = "📉", "DROP"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>Volatility Alert: %s</b>\n\n", emoji, html.EscapeString(info.Symbol))
	if info.ChangePercent != nil {
		fmt.Fprintf(&b, "<b>Movement:</b> %s (%+.2f%%)\n", label, *info.ChangePercent)
	} else {
		fmt.Fprintf(&b, "<b>Movement:</b> %s\n", label)
	}
	if info.CompanyName != "" {
		fmt.Fprintf(&b, "<b>Company:</b> %s\n", html.EscapeString(info.CompanyName))
	}
	if info.CurrentPrice != nil {
		fmt.Fprintf(&b, "<b>Current Price:</b> %s %.2f\n", info.Currency, *info.CurrentPrice)
	}
	if info.PreviousPrice != nil {
		fmt.Fprintf(&b, "<b>Previous Price:</b> %s %.2f\n", info.Currency, *info.PreviousPrice)
	}

	return strings.TrimSpace(b.String())
}

// SendUpcomingAlert sends a reminder that an IPO is expected within the
// alert window.
func (c *Client) SendUpcomingAlert(ipo models.UpcomingIPO) error {
	return c.sendHTML(formatUpcomingAlert(ipo))
}

func formatUpcomingAlert(ipo models.UpcomingIPO) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 <b>Upcoming IPO: %s</b>\n\n", html.EscapeString(ipo.Symbol))

	if ipo.DaysUntil != nil {
		switch *ipo.DaysUntil {
		case 0:
			b.WriteString("<b>Expected:</b> today\n")
		case 1:
			b.WriteString("<b>Expected:</b> tomorrow\n")
		default:
			fmt.Fprintf(&b, "<b>Expected:</b> in %d days\n", *ipo.DaysUntil)
		}
	}
	fmt.Fprintf(&b, "<b>Date:</b> %s\n", ipo.FormatDate())
	if ipo.CompanyName != "" {
		fmt.Fprintf(&b, "<b>Company:</b> %s\n", html.EscapeString(ipo.CompanyName))
	}
	if ipo.Exchange != "" {
		fmt.Fprintf(&b, "<b>Exchange:</b> %s\n", html.EscapeString(ipo.Exchange))
	}
	if ipo.PriceRange != "" {
		fmt.Fprintf(&b, "<b>Price Range:</b> %s\n", html.EscapeString(ipo.PriceRange))
	}
	if ipo.Shares != "" {
		fmt.Fprintf(&b, "<b>Shares:</b> %s\n", html.EscapeString(ipo.Shares))
	}

	return strings.TrimSpace(b.String())
}

// SendStatusUpdate sends a plain informational message, used for the
// cold-start "monitoring started" notice.
func (c *Client) SendStatusUpdate(text string) error {
	return c.sendHTML(html.EscapeString(text))
}

func statusEmoji(status models.IPOStatus) string {
	switch status {
	case models.StatusNotFound:
		return "🔍"
	case models.StatusUpcoming:
		return "📅"
	case models.StatusSubscriptionOpen:
		return "📝"
	case models.StatusSubscriptionClosed:
		return "🔒"
	case models.StatusAllotmentPending:
		return "⏳"
	case models.StatusAllotmentDone:
		return "✅"
	case models.StatusListed:
		return "🎉"
	case models.StatusTrading:
		return "📈"
	}
	return "ℹ️"
}
