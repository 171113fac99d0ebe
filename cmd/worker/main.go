package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Domenick1991/flymate/config"
	"github.com/Domenick1991/flymate/internal/bootstrap"
	"github.com/Domenick1991/flymate/internal/kafka"
	"github.com/Domenick1991/flymate/internal/logger"
	"github.com/Domenick1991/flymate/internal/notify"
	"github.com/Domenick1991/flymate/internal/scheduler"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.New("error", "text").Error("load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format).With("component", "worker")
	if !cfg.Storage.Shared() {
		log.Error("storage driver is private to one process; the worker cannot see the app's data", "driver", cfg.Storage.Driver)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := bootstrap.NewContainer(ctx, cfg, log)
	if err != nil {
		log.Error("init services", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		scheduler.New(log).Every(ctx, "expire-checkouts", cfg.Worker.SweepInterval(), func(ctx context.Context, now time.Time) error {
			_, err := container.Bookings.ExpireCheckouts(ctx, now)
			return err
		})
	}()

	if cfg.Kafka.Enabled() && cfg.Kafka.NotificationsTopic != "" {
		senders := notify.Fanout{notify.NewEmailSender(log)}
		tg, err := notify.NewTelegramSender(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			log.Warn("telegram notifications disabled", "error", err)
		} else if tg != nil {
			senders = append(senders, tg)
		}

		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, log)
		defer consumer.Close()

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := consumer.ConsumeEvents(ctx, func(ctx context.Context, event kafka.BookingEvent) error {
				if err := senders.Send(ctx, event); err != nil {
					log.Warn("notification failed", "type", event.Type, "error", err)
				}
				return nil
			})
			if err != nil {
				log.Error("consumer stopped", "error", err)
			}
		}()
	} else {
		log.Info("kafka notifications disabled")
	}

	<-ctx.Done()
	log.Info("shutting down")
	wg.Wait()
}
