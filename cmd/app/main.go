package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"shiptrack/cmd"
	"shiptrack/internal/adapters/out/kafkaqueue"
	"shiptrack/internal/adapters/out/postgres/eventrepo"
	"shiptrack/internal/adapters/out/postgres/notificationrepo"
	"shiptrack/internal/adapters/out/postgres/podrepo"
	"shiptrack/internal/adapters/out/postgres/shipmentrepo"
	"shiptrack/internal/adapters/out/queue"
	"shiptrack/internal/adapters/out/smtp"
	"shiptrack/internal/core/ports"
	"shiptrack/internal/pkg/metrics"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configs := getConfigs()

	db, err := openDatabase(configs)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	metrics.Register(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sender := smtp.NewSender(
		configs.SMTPHost, configs.SMTPPort, configs.SMTPFrom,
		configs.SMTPUser, configs.SMTPPassword,
	)

	notificationQueue, startConsumers, closeQueue, err := buildQueue(configs, logger)
	if err != nil {
		logger.Error("failed to build notification queue", "error", err)
		os.Exit(1)
	}

	root := cmd.NewCompositionRoot(configs, db, notificationQueue, sender, logger)

	dispatcher, err := root.CreateDispatcher()
	if err != nil {
		logger.Error("failed to build dispatcher", "error", err)
		os.Exit(1)
	}
	startConsumers(ctx, dispatcher)
	defer closeQueue()

	staleAfter := durationEnv(configs.SweepStaleAfter, 10*time.Minute)
	maxAttempts := intEnv(configs.SweepMaxAttempts, 5)
	jobManager := root.CreateJobManager(staleAfter, maxAttempts)
	if err = jobManager.StartAll(); err != nil {
		logger.Error("failed to start background jobs", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, root, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	// a missing .env file is fine in containerized deployments
	_ = godotenv.Load(".env")

	return cmd.Config{
		HTTPPort:                envOrDefault("HTTP_PORT", "8080"),
		DBHost:                  envOrDefault("DB_HOST", "localhost"),
		DBPort:                  envOrDefault("DB_PORT", "5432"),
		DBUser:                  envOrDefault("DB_USER", "postgres"),
		DBPassword:              envOrDefault("DB_PASSWORD", "postgres"),
		DBName:                  envOrDefault("DB_NAME", "shiptrack"),
		DBSslMode:               envOrDefault("DB_SSLMODE", "disable"),
		KafkaHost:               os.Getenv("KAFKA_HOST"),
		KafkaConsumerGroup:      envOrDefault("KAFKA_CONSUMER_GROUP", "shiptrack-notifications"),
		KafkaNotificationsTopic: envOrDefault("KAFKA_NOTIFICATIONS_TOPIC", "shipment.notifications"),
		SMTPHost:                envOrDefault("SMTP_HOST", "localhost"),
		SMTPPort:                envOrDefault("SMTP_PORT", "25"),
		SMTPFrom:                envOrDefault("SMTP_FROM", "noreply@shiptrack.local"),
		SMTPUser:                os.Getenv("SMTP_USER"),
		SMTPPassword:            os.Getenv("SMTP_PASSWORD"),
		QueueCapacity:           envOrDefault("QUEUE_CAPACITY", "256"),
		QueueWorkers:            envOrDefault("QUEUE_WORKERS", "4"),
		SweepStaleAfter:         envOrDefault("SWEEP_STALE_AFTER", "10m"),
		SweepMaxAttempts:        envOrDefault("SWEEP_MAX_ATTEMPTS", "5"),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func intEnv(value string, fallback int) int {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}

func durationEnv(value string, fallback time.Duration) time.Duration {
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&shipmentrepo.ShipmentDTO{},
		&eventrepo.EventDTO{},
		&podrepo.PODRecordDTO{},
		&podrepo.PODPhotoDTO{},
		&notificationrepo.NotificationLogDTO{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// buildQueue returns the queue port plus the consumer starter and the
// shutdown hook for the selected transport.
func buildQueue(
	configs cmd.Config, logger *slog.Logger,
) (ports.NotificationQueue, func(context.Context, ports.JobHandler), func(), error) {
	if configs.KafkaHost == "" {
		channelQueue := queue.NewChannelQueue(
			intEnv(configs.QueueCapacity, 256),
			intEnv(configs.QueueWorkers, 4),
			logger,
		)
		start := func(ctx context.Context, handler ports.JobHandler) {
			channelQueue.Start(ctx, handler)
		}
		return channelQueue, start, channelQueue.Close, nil
	}

	brokers := []string{configs.KafkaHost}
	producer, err := kafkaqueue.NewSaramaQueue(brokers, configs.KafkaNotificationsTopic)
	if err != nil {
		return nil, nil, nil, err
	}

	var consumer *kafkaqueue.Consumer
	start := func(ctx context.Context, handler ports.JobHandler) {
		created, consumeErr := kafkaqueue.NewConsumer(
			brokers, configs.KafkaConsumerGroup,
			configs.KafkaNotificationsTopic, handler, logger,
		)
		if consumeErr != nil {
			logger.Error("failed to start kafka consumer", "error", consumeErr)
			return
		}
		consumer = created
		go func() {
			if runErr := consumer.Run(ctx); runErr != nil {
				logger.Error("kafka consumer stopped", "error", runErr)
			}
		}()
	}
	stop := func() {
		if consumer != nil {
			_ = consumer.Close()
		}
		_ = producer.Close()
	}
	return producer, start, stop, nil
}

func startWebServer(ctx context.Context, root cmd.CompositionRoot, port string, logger *slog.Logger) {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	root.CreateHTTPServer().RegisterRoutes(e)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown failed", "error", err)
		}
	}()

	if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && err != http.ErrServerClosed {
		logger.Error("http server stopped", "error", err)
	}
}
