package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"market-service/internal/config"
	"market-service/internal/database/firebase"
	"market-service/internal/database/redis"
	"market-service/internal/event"
	"market-service/internal/google"
	"market-service/internal/handlers"
	"market-service/internal/repository"
	"market-service/internal/services"
	"market-service/internal/worker"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/sync/errgroup"
)

type runMode int

const (
	modeServe runMode = iota
	modeConsume
)

const shutdownTimeout = 10 * time.Second

func run(parent context.Context, cfg *config.MarketServiceConfig, mode runMode) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fb, err := firebase.NewClients(ctx, cfg.FirebaseCfg)
	if err != nil {
		return err
	}
	defer fb.Close()

	redisClient, err := redis.NewRedisClient(cfg.RedisCfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	mq, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		return err
	}
	defer mq.Close()
	if err := mq.DeclareNotificationQueues(cfg.NotificationCfg); err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(fb.Firestore)
	cachedUsers := repository.NewCachedUserRepository(userRepo, redisClient, cfg.RedisCfg.UserTTL)
	contractRepo := repository.NewContractRepository(fb.Firestore)
	groupRepo := repository.NewGroupRepository(fb.Firestore)
	notificationRepo := repository.NewNotificationRepository(fb.Firestore)

	publisher := event.NewNotificationPublisher(mq, cfg.NotificationCfg.QueueName)

	notificationService := services.NewNotificationService(cachedUsers, contractRepo, notificationRepo)
	if cfg.NotificationCfg.PushEnabled {
		notificationService.WithPush(google.NewPushService(fb.Messaging, userRepo, cfg.Domain))
	}

	pool := worker.NewWorkingPool("notifications", cfg.NotificationCfg.NumWorkers, cfg.NotificationCfg.PrefetchCount)
	consumer := event.NewNotificationConsumer(mq, cfg.NotificationCfg, cachedUsers, contractRepo, notificationService, pool)

	var poolWg sync.WaitGroup
	poolWg.Add(1)
	go pool.Start(ctx, &poolWg)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ignoreCanceled(consumer.Start(gCtx))
	})

	if mode == modeServe {
		closeNotifier := services.NewCloseNotifier(contractRepo, publisher)
		jobPool := worker.NewWorkingPool("scheduled", 1, 1)
		poolWg.Add(1)
		go jobPool.Start(gCtx, &poolWg)

		scheduler := worker.NewJobScheduler("close-notifier", cfg.NotificationCfg.CloseScanEvery, jobPool)
		scheduler.AddJob(closeNotifier.ScanOnce)
		g.Go(func() error {
			scheduler.Run(gCtx)
			return nil
		})

		renderer := services.NewNotificationRenderer(contractRepo, services.NewLegacyTextResolver(contractRepo), cfg.Domain)
		feedService := services.NewNotificationFeedService(notificationRepo, userRepo, renderer, cfg.NotificationCfg.FeedLimit, cfg.NotificationCfg.GroupWindow)
		contractService := services.NewContractService(userRepo, groupRepo, contractRepo, publisher)

		app := fiber.New()
		// Ops routes go first so the auth middleware below never runs for them.
		handlers.RegisterOpsRoutes(app, mq)
		protected := app.Group("", handlers.FirebaseAuth(fb.Auth))
		handlers.NewContractHandler(contractService).Register(protected)
		handlers.NewNotificationHandler(feedService).Register(protected)

		g.Go(func() error {
			slog.Info("starting HTTP server", "port", cfg.Port)
			return app.Listen(":" + cfg.Port)
		})
		g.Go(func() error {
			<-gCtx.Done()
			return app.ShutdownWithTimeout(shutdownTimeout)
		})
	}

	err = g.Wait()
	stop()
	poolWg.Wait()
	if err != nil {
		return fmt.Errorf("market service stopped: %w", err)
	}
	slog.Info("market service stopped")
	return nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
