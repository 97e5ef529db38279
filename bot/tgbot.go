// Package bot sends admin alerts to Telegram and answers a few read-only
// commands in the configured chats.
//
// RSVP submissions go out immediately. Rejected codes and failed logins are
// batched into a periodic digest. Log records arrive through the slog
// handler in lib/logger.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"

	"rsvpd/entity"
	"rsvpd/lib/sl"
)

const requestTimeout = 10 * time.Second

// StatsSource backs /stats.
type StatsSource interface {
	DashboardStats(ctx context.Context) (*entity.DashboardStats, error)
}

// ActivitySource backs /recent; it is optional.
type ActivitySource interface {
	RecentActivity(ctx context.Context, limit int64) ([]*entity.Activity, error)
}

type Config struct {
	ChatIds        []int64
	DigestInterval time.Duration
}

type TgBot struct {
	log         *slog.Logger
	api         *tgbotapi.Bot
	chatIds     []int64
	minLogLevel slog.Level
	updater     *ext.Updater
	digest      *DigestBuffer
	stats       StatsSource
	activity    ActivitySource
	send        func(chatId int64, text string)
}

func NewTgBot(apiKey string, conf Config, stats StatsSource, activity ActivitySource, log *slog.Logger) (*TgBot, error) {
	tgBot := &TgBot{
		log:         log.With(sl.Module("tgbot")),
		chatIds:     conf.ChatIds,
		minLogLevel: slog.LevelDebug,
		stats:       stats,
		activity:    activity,
	}

	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	tgBot.api = api
	tgBot.send = tgBot.plainResponse

	if conf.DigestInterval > 0 {
		tgBot.digest = NewDigestBuffer(tgBot.chatIds, tgBot.send, conf.DigestInterval)
		tgBot.digest.StartTicker()
	}

	return tgBot, nil
}

// Start polls for updates and blocks until Stop.
func (t *TgBot) Start() error {
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(b *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			t.log.Error("handling update", sl.Err(err))
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	t.updater = ext.NewUpdater(dispatcher, nil)

	dispatcher.AddHandler(handlers.NewCommand("stats", t.statsCmd))
	dispatcher.AddHandler(handlers.NewCommand("recent", t.recentCmd))
	dispatcher.AddHandler(handlers.NewCommand("help", t.help))

	t.setCommands()

	err := t.updater.StartPolling(t.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}

	t.updater.Idle()
	return nil
}

func (t *TgBot) Stop() {
	if t.digest != nil {
		t.digest.Stop()
	}
	if t.updater != nil {
		t.log.Info("stopping telegram bot")
		t.updater.Stop()
	}
}

func (t *TgBot) allowed(chatId int64) bool {
	for _, id := range t.chatIds {
		if id == chatId {
			return true
		}
	}
	return false
}
