// internal/infra/telegram/gateway.go
package telegram

import (
	"context"
	"fmt"

	"evaluation_reminder_service/internal/domain/notify"

	"gopkg.in/telebot.v3"
)

// TelebotGateway implements the notification gateway using the
// gopkg.in/telebot.v3 library. Employers link a Telegram chat in the
// case-management application; that chat id is the recipient here.
type TelebotGateway struct {
	bot *telebot.Bot
}

func NewTelebotGateway(b *telebot.Bot) *TelebotGateway {
	return &TelebotGateway{bot: b}
}

// Notify renders the severity as a message prefix, appends the link if
// given, and sends the result to the recipient's chat.
func (g *TelebotGateway) Notify(_ context.Context, recipientID int64, message, link string, severity notify.Severity) error {
	text := severityPrefix(severity) + message
	if link != "" {
		text = fmt.Sprintf("%s\n\n%s", text, link)
	}

	recipient := &telebot.User{ID: recipientID} // Employers are direct user chats
	_, err := g.bot.Send(recipient, text, &telebot.SendOptions{DisableWebPagePreview: true})
	return err
}

func severityPrefix(severity notify.Severity) string {
	switch severity {
	case notify.SeverityWarning:
		return "⚠️ "
	case notify.SeveritySuccess:
		return "✅ "
	default:
		return ""
	}
}
