package bot

import (
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"

	"rsvpd/lib/logger"
	"rsvpd/lib/sl"
)

// plainResponse retries without markdown when Telegram rejects the formatting.
func (t *TgBot) plainResponse(chatId int64, text string) {
	if text == "" {
		t.log.With("id", chatId).Debug("empty message")
		return
	}

	_, err := t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{
		ParseMode: "MarkdownV2",
	})
	if err != nil {
		t.log.With(slog.Int64("id", chatId)).Warn("sending message", sl.Err(err))
		_, err = t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{})
		if err != nil {
			t.log.With(slog.Int64("id", chatId)).Error("sending safe message", sl.Err(err))
		}
	}
}

func Sanitize(input string) string {
	return logger.Escape(input)
}

func splitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}
	var parts []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			parts = append(parts, text)
			break
		}
		cutAt := maxLen
		nlIdx := strings.LastIndex(text[:maxLen], "\n")
		if nlIdx > 0 {
			cutAt = nlIdx + 1
		}
		parts = append(parts, text[:cutAt])
		text = text[cutAt:]
	}
	return parts
}

// reportError logs at warn and gives the chat a neutral reply.
func (t *TgBot) reportError(chatId int64, command string, err error) {
	t.log.Warn("bot command failed",
		slog.String("command", command),
		slog.Int64("chat_id", chatId),
		sl.Err(err),
	)
	t.send(chatId, fmt.Sprintf("Command `%s` failed\\. Please try again later\\.", Sanitize(command)))
}
