package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WeDoCheapies/website/internal/cache"
	"github.com/WeDoCheapies/website/internal/config"
	"github.com/WeDoCheapies/website/internal/infra"
	"github.com/WeDoCheapies/website/internal/notify"
	"github.com/WeDoCheapies/website/internal/realtime"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const defaultConnectTimeout = 5 * time.Second

func main() {
	cfg, err := config.Build()
	if err != nil {
		logrus.Fatalf("failed to build config - %v", err)
	}

	if err := configureLogger(cfg.LogCfg); err != nil {
		logrus.Fatal(err)
	}

	if err := start(cfg); err != nil {
		logrus.WithError(err).Fatal("service stopped with error")
	}
	logrus.Info("service stopped")
}

func configureLogger(cfg config.LogCfg) error {
	lvl, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("failed to parse log level - %w", err)
	}
	logrus.SetLevel(lvl)

	if cfg.Format == "text" {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	return nil
}

func start(cfg config.Config) error {
	connectCtx, cancel := context.WithTimeout(context.Background(), defaultConnectTimeout)
	defer cancel()

	pgPool, err := infra.Postgresql(connectCtx, cfg.PostgresCfg)
	if err != nil {
		return err
	}
	defer pgPool.Close()

	redisClient, err := infra.Redis(connectCtx, cfg.RedisCfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	hub := realtime.NewHub(cfg.RealtimeCfg.SubscriberBuffer)
	listener := realtime.NewPgListener(pgPool, hub, realtime.TableCustomers, realtime.TableWashes)
	cacheUpdater := cache.NewCustomerCacheUpdater(hub, cache.NewRedisCustomerCache(redisClient, cfg.RedisCfg.TimeToLive))

	var mailer notify.Notifier = notify.NewLogNotifier()
	if cfg.ResendCfg.Enabled() {
		resendMailer, err := notify.NewResendMailer(nil, cfg.ResendCfg.BaseURL, cfg.ResendCfg.ApiKey, cfg.ResendCfg.From)
		if err != nil {
			return err
		}
		mailer = resendMailer
	} else {
		logrus.Warn("resend api key is not configured, free wash notifications are only logged")
	}
	dispatcher := notify.NewDispatcher(mailer, cfg.NotifyCfg.QueueSize)

	app, err := infra.Router(cfg, pgPool, redisClient, hub, dispatcher)
	if err != nil {
		return fmt.Errorf("failed to build router - %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return listener.Listen(gCtx)
	})

	g.Go(func() error {
		return cacheUpdater.Listen(gCtx)
	})

	g.Go(func() error {
		return dispatcher.Run(gCtx)
	})

	g.Go(func() error {
		logrus.WithField("port", cfg.HttpCfg.Port).Info("starting http server")
		if err := app.Start(fmt.Sprintf(":%d", cfg.HttpCfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed - %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logrus.Info("shutdown signal has been sent, stopping the server...")

		// realtime sessions are hijacked connections, server shutdown doesn't wait for them
		hub.Close()
		cacheUpdater.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HttpCfg.ShutdownTimeout)
		defer cancel()

		if err := app.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop server gracefully - %w", err)
		}
		return nil
	})

	return g.Wait()
}
