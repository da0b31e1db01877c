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

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"booknest/auth-service/internal/app/auth/config"
	"booknest/auth-service/internal/app/auth/entity"
	"booknest/auth-service/internal/app/auth/handler"
	"booknest/auth-service/internal/app/auth/infrastructure/messaging"
	"booknest/auth-service/internal/app/auth/repository"
	"booknest/auth-service/internal/app/auth/service"
	"booknest/auth-service/internal/app/auth/util"
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
	logger.Init("auth-service", logLevel)

	logstashAddr := os.Getenv("LOGSTASH_ADDR")
	if logstashAddr != "" {
		if err := logger.InitLogstash(logstashAddr, "auth-service", logLevel); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", logstashAddr).Msg("Connected to Logstash")
		}
	}

	db, err := connectPostgres(cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	logger.Info().
		Str("database", cfg.Postgres.Database).
		Msg("Connected to PostgreSQL")

	if err := db.AutoMigrate(&entity.Account{}); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	logger.Info().
		Str("addr", cfg.Redis.Addr).
		Msg("Connected to Redis")

	kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Msg("Initialized Kafka producer")

	accountRepo := repository.NewAccountRepository(db)
	tokenRepo := repository.NewRedisTokenRepository(redisClient)

	jwtManager := util.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessDuration, cfg.JWT.RefreshDuration)

	authService := service.NewAuthService(accountRepo, tokenRepo, jwtManager, kafkaProducer)
	accountService := service.NewAccountService(accountRepo, tokenRepo)

	if err := seedAdmin(context.Background(), accountRepo, cfg.Admin); err != nil {
		logger.Fatal().Err(err).Msg("Failed to seed admin account")
	}

	authMiddleware := handler.NewAuthMiddleware(authService)
	authHandler := handler.NewAuthHandler(authService, accountService)
	adminHandler := handler.NewAdminHandler(accountService)

	router := handler.SetupRoutes(authHandler, adminHandler, authMiddleware)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Auth Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Auth Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Auth Service stopped gracefully")
}

func connectPostgres(cfg config.PostgresConfig) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
			TranslateError: true,
		})
		if err == nil {
			return db, nil
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to PostgreSQL, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}

// seedAdmin создает первого администратора, если в базе нет ни одного.
// Без этого некому одобрять заявки студентов.
func seedAdmin(ctx context.Context, accountRepo repository.AccountRepository, cfg config.AdminConfig) error {
	count, err := accountRepo.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := util.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	admin := &entity.Account{
		ID:           uuid.New(),
		Email:        cfg.Email,
		PasswordHash: hash,
		Name:         cfg.Name,
		Role:         entity.RoleAdmin,
		Approved:     true,
	}

	if err := accountRepo.Create(ctx, admin); err != nil {
		// Параллельный запуск двух инстансов мог создать админа первым
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil
		}
		return err
	}

	logger.Info().Str("email", cfg.Email).Msg("Seeded initial admin account")
	return nil
}
