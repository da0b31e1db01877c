package repository

import (
	"context"
	"errors"
	"time"

	"booknest/auth-service/internal/app/auth/entity"

	"github.com/google/uuid"
)

// Ошибки слоя репозитория
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailTaken      = errors.New("email already taken")
	ErrTokenNotFound   = errors.New("refresh token not found")
)

// AccountRepository определяет операции с аккаунтами в PostgreSQL
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	// List возвращает аккаунты; approved == nil - без фильтра
	List(ctx context.Context, approved *bool) ([]entity.Account, error)
	// Approve помечает аккаунт одобренным
	Approve(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CountAdmins возвращает число аккаунтов с ролью admin
	CountAdmins(ctx context.Context) (int64, error)
}

// TokenRepository определяет операции с refresh токенами и черным списком
type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (*entity.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteUserRefreshTokens(ctx context.Context, userID uuid.UUID) error
	AddToBlacklist(ctx context.Context, token string, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}
