package config

import (
	"os"
	"strconv"
)

// Config содержит все настройки Notification Service.
// Сервис читает базу Library Service (только чтение) и слушает
// топики событий Library и Auth сервисов.
type Config struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
	Kafka   KafkaConfig
	SMTP    SMTPConfig
	Cron    CronConfig
}

type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт healthcheck сервера (по умолчанию 8083)
}

type MongoDBConfig struct {
	URI      string // URI подключения к MongoDB
	Database string // База Library Service (library_service)
}

type KafkaConfig struct {
	Brokers      []string // Список брокеров Kafka (формат: host:port)
	LibraryTopic string   // Топик событий выдачи/возврата/отзывов
	AuthTopic    string   // Топик событий регистрации
	GroupID      string   // ID группы потребителей
	MinBytes     int      // Минимум байт для fetch запроса
	MaxBytes     int      // Максимум байт для fetch запроса
}

type SMTPConfig struct {
	Host       string // Хост SMTP relay
	Port       string // Порт SMTP relay
	Username   string // Логин (пустой - без аутентификации)
	Password   string // Пароль
	From       string // Адрес отправителя
	AdminEmail string // Куда слать письма о заявках и новых отзывах
}

// CronConfig - расписания напоминаний.
// Письма уходят утром: сначала "книга должна быть возвращена сегодня",
// чуть позже - "книга просрочена на 3 дня".
type CronConfig struct {
	DueToday string // По умолчанию "0 10 * * *"
	PostDue  string // По умолчанию "57 10 * * *"
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8083"),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "library_service"),
		},
		Kafka: KafkaConfig{
			Brokers:      []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			LibraryTopic: getEnv("KAFKA_LIBRARY_TOPIC", "library_events"),
			AuthTopic:    getEnv("KAFKA_AUTH_TOPIC", "auth_events"),
			GroupID:      getEnv("KAFKA_GROUP_ID", "notification-workers"),
			MinBytes:     getEnvInt("KAFKA_MIN_BYTES", 1),
			MaxBytes:     getEnvInt("KAFKA_MAX_BYTES", 10e6),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", "localhost"),
			Port:       getEnv("SMTP_PORT", "587"),
			Username:   getEnv("SMTP_USERNAME", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			From:       getEnv("SMTP_FROM", "BookNest <notifications@booknest.local>"),
			AdminEmail: getEnv("ADMIN_EMAIL", "admin@booknest.local"),
		},
		Cron: CronConfig{
			DueToday: getEnv("CRON_DUE_TODAY", "0 10 * * *"),
			PostDue:  getEnv("CRON_POST_DUE", "57 10 * * *"),
		},
	}, nil
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c *SMTPConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
