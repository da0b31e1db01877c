package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"booknest/notification-service/internal/app/notification/config"
	"booknest/notification-service/internal/app/notification/entity"
	"booknest/notification-service/internal/app/notification/handler"
	"booknest/notification-service/internal/app/notification/processor"
	"booknest/notification-service/internal/app/notification/repository"
	"booknest/notification-service/internal/app/notification/service"
	"booknest/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init("notification-service", logLevel)

	logstashAddr := os.Getenv("LOGSTASH_ADDR")
	if logstashAddr != "" {
		if err := logger.InitLogstash(logstashAddr, "notification-service", logLevel); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", logstashAddr).Msg("Connected to Logstash")
		}
	}

	ctx := context.Background()

	mongoClient, err := connectMongoDB(cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()
	logger.Info().
		Str("database", cfg.MongoDB.Database).
		Msg("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB.Database)

	reminderRepo := repository.NewReminderRepository(db)
	mailer := service.NewSMTPMailer(cfg.SMTP.Address(), cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)

	notificationSvc := service.NewNotificationService(mailer, cfg.SMTP.AdminEmail)
	reminderSvc := service.NewReminderService(reminderRepo, mailer)

	libraryConsumer := processor.NewKafkaConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.LibraryTopic,
		cfg.Kafka.GroupID,
		cfg.Kafka.MinBytes,
		cfg.Kafka.MaxBytes,
		func(ctx context.Context, message kafka.Message) error {
			var event entity.NotificationEvent
			if err := json.Unmarshal(message.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal library event: %w", err)
			}
			return notificationSvc.HandleLibraryEvent(ctx, &event)
		},
	)

	authConsumer := processor.NewKafkaConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.AuthTopic,
		cfg.Kafka.GroupID,
		cfg.Kafka.MinBytes,
		cfg.Kafka.MaxBytes,
		func(ctx context.Context, message kafka.Message) error {
			var event entity.RegistrationEvent
			if err := json.Unmarshal(message.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal auth event: %w", err)
			}
			return notificationSvc.HandleRegistrationEvent(ctx, &event)
		},
	)

	libraryConsumer.Start(ctx)
	defer libraryConsumer.Stop()
	authConsumer.Start(ctx)
	defer authConsumer.Stop()
	logger.Info().
		Str("library_topic", cfg.Kafka.LibraryTopic).
		Str("auth_topic", cfg.Kafka.AuthTopic).
		Str("group", cfg.Kafka.GroupID).
		Msg("Kafka consumers started")

	cronScheduler := processor.NewCronScheduler(reminderSvc)
	if err := cronScheduler.Start(ctx, cfg.Cron.DueToday, cfg.Cron.PostDue); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start cron scheduler")
	}
	defer cronScheduler.Stop()

	healthHandler := handler.NewHealthCheckHandler(mongoClient)

	mux := http.NewServeMux()
	healthHandler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: mux,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting healthcheck HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP server error")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info().Msg("Notification Service is running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Notification Service...")
}

func connectMongoDB(cfg config.MongoDBConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var client *mongo.Client
	var err error

	for i := 0; i < 10; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err = mongo.Connect(ctx, clientOptions)
		if err == nil {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer pingCancel()

			if err = client.Ping(pingCtx, nil); err == nil {
				return client, nil
			}
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}
