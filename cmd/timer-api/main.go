package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medwatch/worktime-analytics/internal/config"
	"github.com/medwatch/worktime-analytics/internal/event"
	"github.com/medwatch/worktime-analytics/internal/export"
	"github.com/medwatch/worktime-analytics/internal/report"
	"github.com/medwatch/worktime-analytics/internal/subscriber"
	"github.com/medwatch/worktime-analytics/internal/transport/rest"
	"github.com/medwatch/worktime-analytics/pkg/kafka"
	"github.com/medwatch/worktime-analytics/pkg/logger"
	"github.com/medwatch/worktime-analytics/pkg/postgres"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Error loading config: %v", err))
	}

	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		panic(fmt.Sprintf("Error initializing logger: %v", err))
	}
	defer log.Sync()

	log = logger.WithComponent(log, "timer-api")
	log.Info("Starting Timer API",
		zap.String("environment", cfg.Environment),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("timezone", cfg.Timezone),
	)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("Error resolving report timezone", zap.Error(err))
	}

	db, err := postgres.New(postgres.Config{
		DSN:             cfg.Postgres.PostgresDSN(),
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}, log)
	if err != nil {
		log.Fatal("Error initializing postgres client", zap.Error(err))
	}
	defer db.Close()

	if err := db.EnsureSchema(context.Background()); err != nil {
		log.Fatal("Error ensuring schema", zap.Error(err))
	}

	var publisher event.Publisher
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(kafka.ProducerConfig{
			Brokers:         cfg.Kafka.Brokers,
			Topic:           cfg.Kafka.Topic,
			Retries:         cfg.Kafka.ProducerRetries,
			Timeout:         cfg.Kafka.ProducerTimeout,
			RequiredAcks:    cfg.Kafka.RequiredAcks,
			Compression:     cfg.Kafka.CompressionType,
			MaxMessageBytes: cfg.Kafka.MaxMessageBytes,
		}, log)
		if err != nil {
			log.Fatal("Error initializing kafka producer", zap.Error(err))
		}
		defer producer.Close()
		publisher = producer
	} else {
		log.Info("Kafka fan-out disabled, no brokers configured")
	}

	eventRepo := event.NewRepository(db, log)
	ingestService := event.NewService(eventRepo, publisher, log)
	reportService := report.NewService(eventRepo, loc, log)

	subRepo := subscriber.NewRepository(db, log)
	subService := subscriber.NewService(subRepo, cfg.Subscribe.AllowedDomains, log)

	mailer := export.NewSMTPMailer(export.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, log)
	weeklyJob := export.NewJob(eventRepo, subService, mailer, cfg.SMTP.To, loc, log)

	scheduler := cron.New(cron.WithLocation(loc))
	if cfg.Export.Enabled {
		if _, err := scheduler.AddFunc(cfg.Export.Schedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if err := weeklyJob.Run(ctx); err != nil {
				log.Error("weekly export run failed", zap.Error(err))
			}
		}); err != nil {
			log.Fatal("Error scheduling weekly export", zap.Error(err))
		}
		scheduler.Start()
		log.Info("Weekly export scheduled", zap.String("schedule", cfg.Export.Schedule))
	}

	handler := rest.NewHandler(
		ingestService,
		reportService,
		eventRepo,
		subService,
		db,
		cfg.Admin.ClearPassword,
		log,
	)
	router := rest.NewRouter(rest.RouterConfig{
		Handler:         handler,
		AllowedOrigins:  cfg.Ingest.AllowedOrigins,
		RateLimit:       cfg.Ingest.RateLimit,
		RateLimitWindow: cfg.Ingest.RateLimitWindow,
		Logger:          log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Starting HTTP server", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error running HTTP server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")

	cronCtx := scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Warn("HTTP server shutdown timed out", zap.Error(err))
	}

	select {
	case <-cronCtx.Done():
	case <-ctx.Done():
		log.Warn("scheduler shutdown timed out")
	}

	log.Info("Timer API stopped")
}
