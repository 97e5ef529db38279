package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rsvpd/bot"
	"rsvpd/impl/admin"
	"rsvpd/impl/auth"
	"rsvpd/impl/core"
	"rsvpd/impl/invite"
	"rsvpd/impl/journal"
	"rsvpd/impl/rsvp"
	"rsvpd/internal/config"
	"rsvpd/internal/database"
	"rsvpd/internal/http-server/api"
	"rsvpd/lib/clock"
	"rsvpd/lib/logger"
	"rsvpd/lib/password"
	"rsvpd/lib/sl"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	log := logger.SetupLogger(conf.Env, *logPath)
	log.Info("starting rsvpd", slog.String("config", *configPath), slog.String("env", conf.Env))

	store, err := database.New(conf)
	if err != nil {
		log.Error("database", sl.Err(err))
		os.Exit(1)
	}
	log.With(slog.String("driver", conf.Database.Driver)).Info("database ready")

	var sinks []journal.Sink
	mongo := database.NewMongoClient(conf)
	if mongo != nil {
		sinks = append(sinks, mongo)
		log.Info("activity journal enabled")
	}

	var tgBot *bot.TgBot
	if conf.Telegram.Enabled {
		botConf := bot.Config{ChatIds: conf.Telegram.ChatIds, DigestInterval: conf.Telegram.DigestInterval}
		var activity bot.ActivitySource
		if mongo != nil {
			activity = mongo
		}
		tgBot, err = bot.NewTgBot(conf.Telegram.ApiKey, botConf, store, activity, log)
		if err != nil {
			log.Error("telegram bot", sl.Err(err))
		} else {
			go func() {
				if err := tgBot.Start(); err != nil {
					log.Error("telegram bot start", sl.Err(err))
				}
			}()
			log = logger.WithTelegram(log, tgBot, logger.ParseLevel(conf.Telegram.LogLevel))
			sinks = append(sinks, tgBot)
			log.Info("telegram bot started")
		}
	}

	clk := clock.System()
	hasher := password.Default()
	activityJournal := journal.New(clk, log, sinks...)
	codes := invite.New(store, clk, log)

	authService, err := auth.New(store, codes, hasher, activityJournal, clk, conf.Session.Lifetime, log)
	if err != nil {
		log.Error("auth service", sl.Err(err))
		os.Exit(1)
	}
	rsvpService := rsvp.New(store, activityJournal, clk, log)
	adminService := admin.New(store, codes, hasher, activityJournal, clk, log)
	handler := core.New(authService, rsvpService, adminService, store, log)

	server := api.New(conf, log, handler)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.With(slog.String("signal", sig.String())).Info("shutdown requested")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("api server", sl.Err(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("api server shutdown", sl.Err(err))
	}
	activityJournal.Close()
	if tgBot != nil {
		tgBot.Stop()
	}
	if mongo != nil {
		mongo.Close(ctx)
	}
	store.Close()
	log.Info("stopped")
}
