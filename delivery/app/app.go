package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/archive-delivery/delivery/config"
	"github.com/Astemirdum/archive-delivery/delivery/internal/handler"
	"github.com/Astemirdum/archive-delivery/delivery/internal/repository"
	"github.com/Astemirdum/archive-delivery/delivery/internal/scheduler"
	"github.com/Astemirdum/archive-delivery/delivery/internal/server"
	"github.com/Astemirdum/archive-delivery/delivery/internal/service"
	"github.com/Astemirdum/archive-delivery/delivery/migrations"
	"github.com/Astemirdum/archive-delivery/pkg/kafka"
	"github.com/Astemirdum/archive-delivery/pkg/logger"
	"github.com/Astemirdum/archive-delivery/pkg/postgres"
	"github.com/Astemirdum/archive-delivery/pkg/worker"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "delivery")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		log.Fatal("kafka.NewProducer", zap.Error(err))
	}
	enqueuer := handler.NewEnqueuer(producer, log)

	pool := worker.NewPool(cfg.Coordinator.Workers, cfg.Coordinator.QueueSize, log)
	pool.Start(ctx)

	svc := service.NewService(repo, log,
		service.WithNotifier(enqueuer),
		service.WithPrinter(enqueuer),
		service.WithPool(pool),
		service.WithStrictOwnership(cfg.Coordinator.StrictOwnership),
	)

	consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.DeliveryConsumerGroup)
	if err != nil {
		log.Fatal("kafka.NewConsumer", zap.Error(err))
	}
	go func() {
		if err := kafka.Consume(ctx, consumer, handler.NewConsumer(svc.MarkPaid, log), kafka.PaymentTopic); err != nil {
			log.Error("kafka.Consume", zap.Error(err))
		}
	}()

	sched := scheduler.New(svc, scheduler.Config{
		Interval:          cfg.Coordinator.SweepInterval,
		UnpaidCancelAfter: cfg.Coordinator.UnpaidCancelAfter,
	}, log)
	go func() {
		_ = sched.Run(ctx)
	}()

	h := handler.New(svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second*5)
	defer closeCancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	cancel()
	if err = consumer.Close(); err != nil {
		log.Error("consumer.Close", zap.Error(err))
	}
	if err = pool.Stop(closeCtx); err != nil {
		log.Warn("pool.Stop", zap.Error(err))
	}
	if err = producer.Close(); err != nil {
		log.Error("producer.Close", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished",
		zap.Int64("ownership_conflicts", svc.Conflicts()))
}
