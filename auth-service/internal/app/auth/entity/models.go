package entity

import (
	"time"

	"github.com/google/uuid"
)

// Роли аккаунтов
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Account - аккаунт пользователя библиотеки.
// Студенты регистрируются сами и ждут одобрения администратора,
// до одобрения вход запрещен.
type Account struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Name         string    `json:"name" gorm:"not null"`
	Role         string    `json:"role" gorm:"not null;default:student"`
	Approved     bool      `json:"approved" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
}

// RefreshToken - refresh токен, хранится в Redis с TTL
type RefreshToken struct {
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenPair - пара токенов access + refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // Время жизни access токена в секундах
}

// AuthResponse - ответ при успешном входе
type AuthResponse struct {
	User   Account   `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

// Тип события для топика регистраций
const EventStudentRegistered = "STUDENT_REGISTERED"

// RegistrationEvent - событие о новой заявке на регистрацию.
// Notification Service шлет по нему письмо администраторам.
type RegistrationEvent struct {
	EventType string    `json:"event_type"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}
