package bot

import (
	"context"
	"fmt"
	"log/slog"

	"rsvpd/entity"
)

func (t *TgBot) SendMessage(msg string) {
	t.SendMessageWithLevel(msg, t.minLogLevel)
}

// SendMessageWithLevel broadcasts msg to every configured chat.
func (t *TgBot) SendMessageWithLevel(msg string, level slog.Level) {
	if level < t.minLogLevel {
		return
	}
	for _, chatId := range t.chatIds {
		for _, part := range splitMessage(msg, maxTelegramMessageLen) {
			t.send(chatId, part)
		}
	}
}

// Record receives activity from the journal. Submissions are sent at once,
// rejected codes and failed logins go through the digest when one runs.
func (t *TgBot) Record(_ context.Context, a *entity.Activity) error {
	switch a.Type {
	case entity.ActivityRsvpSubmitted:
		t.SendMessageWithLevel(formatSubmission(a), slog.LevelInfo)
	case entity.ActivityCodeRejected, entity.ActivityLoginFailure:
		if t.digest == nil {
			t.SendMessageWithLevel(formatActivityLine(a), slog.LevelWarn)
			return nil
		}
		t.digest.Add(a)
	}
	return nil
}

func formatSubmission(a *entity.Activity) string {
	name := a.Details["guest_name"]
	if name == "" {
		name = a.GuestID
	}
	return fmt.Sprintf("*RSVP* from %s\nattending: %s, not attending: %s",
		Sanitize(name),
		Sanitize(orZero(a.Details["attending"])),
		Sanitize(orZero(a.Details["not_attending"])),
	)
}

func formatActivityLine(a *entity.Activity) string {
	line := string(a.Type)
	if a.Remote != "" {
		line += " from " + a.Remote
	}
	if username := a.Details["username"]; username != "" {
		line += " user " + username
	}
	return line
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
