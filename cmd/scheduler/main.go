package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"repair_portal_backend/internal/adapters"
	"repair_portal_backend/internal/email"
	"repair_portal_backend/internal/events"
	"repair_portal_backend/internal/notification"
	"repair_portal_backend/internal/repairs/escalation"
	"repair_portal_backend/internal/saleor"
	"repair_portal_backend/internal/scheduler"
	"repair_portal_backend/platform/config"
	"repair_portal_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	if !cfg.IsSchedulerEnabled() {
		panic("REDIS_URL is required for the scheduler")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eventBus := events.NewInMemoryBus(log)

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	notificationModule := notification.New(sender, log)
	notificationModule.RegisterHandlers(eventBus)

	saleorClient := saleor.New(cfg.GetSaleorAPIURL(), cfg.GetSaleorAppToken(), cfg.GetSaleorChannelID(), log)
	orders := adapters.NewSaleorOrders(saleorClient)
	workers := adapters.NewSaleorWorkerPool(saleorClient, cfg.GetWorkerGroupName())

	escalationSvc := escalation.New(orders, orders, workers, eventBus, log)

	worker, err := scheduler.NewWorker(cfg, escalationSvc, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
	eventBus.Wait()
	log.Info("scheduler stopped")
}
