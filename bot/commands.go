package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"

	"rsvpd/entity"
)

const recentLimit = 10

func (t *TgBot) statsCmd(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveChat.Id
	if !t.allowed(chatId) {
		return nil
	}
	if t.stats == nil {
		t.send(chatId, "Statistics are not available\\.")
		return nil
	}

	c, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	stats, err := t.stats.DashboardStats(c)
	if err != nil {
		t.reportError(chatId, "/stats", err)
		return nil
	}
	t.send(chatId, formatStats(stats))
	return nil
}

func (t *TgBot) recentCmd(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveChat.Id
	if !t.allowed(chatId) {
		return nil
	}
	if t.activity == nil {
		t.send(chatId, "Activity journal is disabled\\.")
		return nil
	}

	c, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	list, err := t.activity.RecentActivity(c, recentLimit)
	if err != nil {
		t.reportError(chatId, "/recent", err)
		return nil
	}
	if len(list) == 0 {
		t.send(chatId, "No activity yet\\.")
		return nil
	}
	for _, part := range splitMessage(formatActivityList(list), maxTelegramMessageLen) {
		t.send(chatId, part)
	}
	return nil
}

func (t *TgBot) help(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveChat.Id
	if !t.allowed(chatId) {
		return nil
	}
	var sb strings.Builder
	sb.WriteString("*Commands*\n")
	for _, c := range commands {
		sb.WriteString(fmt.Sprintf("/%s \\- %s\n", c.Command, Sanitize(c.Description)))
	}
	t.send(chatId, sb.String())
	return nil
}

func formatStats(stats *entity.DashboardStats) string {
	var sb strings.Builder
	sb.WriteString("*RSVP totals*\n")
	sb.WriteString(fmt.Sprintf("Guests: %d\n", stats.TotalGuests))
	sb.WriteString(fmt.Sprintf("Expected attendees: %d\n", stats.TotalExpectedAttendees))
	sb.WriteString(fmt.Sprintf("Responded: %d\n", stats.RsvpCount))
	sb.WriteString(fmt.Sprintf("Pending: %d\n", stats.PendingRsvps))
	sb.WriteString(fmt.Sprintf("Attending: %d\n", stats.AttendingCount))
	sb.WriteString(fmt.Sprintf("Not attending: %d", stats.NotAttendingCount))
	if len(stats.RecentRsvps) > 0 {
		sb.WriteString("\n\n*Latest*\n")
		for _, r := range stats.RecentRsvps {
			sb.WriteString(fmt.Sprintf("`%s` %s \\+%d/\\-%d\n",
				r.RespondedAt.UTC().Format("01-02 15:04"),
				Sanitize(r.GuestName),
				r.AttendingCount,
				r.NotAttendingCount,
			))
		}
	}
	return sb.String()
}

func formatActivityList(list []*entity.Activity) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*Recent activity* \\(%d\\)\n", len(list)))
	for _, a := range list {
		sb.WriteString(fmt.Sprintf("`%s` %s", a.OccurredAt.UTC().Format("01-02 15:04"), Sanitize(string(a.Type))))
		if name := a.Details["guest_name"]; name != "" {
			sb.WriteString(" " + Sanitize(name))
		}
		if a.Remote != "" {
			sb.WriteString(" " + Sanitize(a.Remote))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
