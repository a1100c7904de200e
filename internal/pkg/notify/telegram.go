package notify

import (
	"context"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ougirez/canlotto/internal/pkg/logger"
)

// Telegram messages are capped by the Bot API.
const telegramMaxText = 4096

type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

func NewTelegramWithBot(bot *tgbotapi.BotAPI, chatID int64) *Telegram {
	return &Telegram{bot: bot, chatID: chatID}
}

func (t *Telegram) Notify(ctx context.Context, subject, body string) {
	msg := tgbotapi.NewMessage(t.chatID, "<b>"+escape(subject)+"</b>\n"+body)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	// a cut HTML body would be rejected, so oversized messages go out as plain text
	if utf8.RuneCountInString(msg.Text) > telegramMaxText {
		msg.Text = truncate(subject+"\n"+body, telegramMaxText)
		msg.ParseMode = ""
	}

	if _, err := t.bot.Send(msg); err != nil {
		logger.Error(ctx, "telegram notification failed", "subject", subject, "error", err.Error())
	}
}

// truncate keeps the first n characters of s.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
