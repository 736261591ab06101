package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"marketplace/cmd"
	httpin "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/kafka"
	"marketplace/internal/adapters/out/postgres"
	redisadapter "marketplace/internal/adapters/out/redis"
	"marketplace/internal/jobs"
	"marketplace/internal/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const serviceName = "marketplace-fulfillment"

func main() {
	cfg, err := cmd.LoadConfig(".env")
	if err != nil {
		logger.New(logger.Options{ServiceName: serviceName}).Error(context.Background(), "load config", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.Log.Level),
		Format:      cfg.Log.Format,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "service stopped with error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg cmd.Config, log *logger.Logger) error {
	db, err := openDatabase(cfg.DB)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	defer sqlDB.Close()

	if err := postgres.Migrate(db); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	root, err := cmd.NewCompositionRoot(cfg, db, reg, log)
	if err != nil {
		return err
	}

	manager, cleanup, err := startJobs(ctx, cfg, root, log)
	if err != nil {
		return err
	}
	defer cleanup()

	server := httpin.NewServer(root.HTTPHandlers(), httpin.Options{
		Logger:   log.Component("http"),
		Gatherer: reg,
		Health:   sqlDB.PingContext,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "http server listening on :"+cfg.HTTP.Port)
		if err := server.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTP.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			manager.StopAll()
			return fmt.Errorf("http server: %w", err)
		}
	}

	log.Info(ctx, "shutting down")
	manager.StopAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openDatabase(cfg cmd.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(gormpostgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// startJobs builds the outbox publisher when Kafka is configured. Without
// brokers, events accumulate in the outbox table until a publisher runs.
func startJobs(ctx context.Context, cfg cmd.Config, root *cmd.CompositionRoot, log *logger.Logger) (*jobs.JobManager, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if len(cfg.Kafka.Brokers) == 0 {
		log.Warn(ctx, "kafka brokers not configured, outbox publisher disabled", nil)
		return jobs.NewJobManager(nil), cleanup, nil
	}

	publisher, err := kafka.NewPublisher(kafka.Options{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.Topic,
		WriteTimeout: cfg.Kafka.WriteTimeout,
	})
	if err != nil {
		return nil, cleanup, err
	}
	closers = append(closers, func() {
		if err := publisher.Close(); err != nil {
			log.Warn(ctx, "close kafka publisher", err)
		}
	})

	var lease jobs.Lease
	if cfg.Redis.URL != "" {
		client, err := redisadapter.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, func() { _ = client.Close() })

		redisLease, err := redisadapter.NewLease(client, cfg.Outbox.LeaseKey, cfg.Outbox.LeaseTTL)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		lease = redisLease
	}

	job, err := root.CreateOutboxPublisherJob(publisher, lease)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}

	manager := jobs.NewJobManager(job)
	if err := manager.StartAll(); err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return manager, cleanup, nil
}
