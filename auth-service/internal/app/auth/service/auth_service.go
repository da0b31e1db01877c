package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"booknest/auth-service/internal/app/auth/entity"
	"booknest/auth-service/internal/app/auth/infrastructure"
	"booknest/auth-service/internal/app/auth/repository"
	"booknest/auth-service/internal/app/auth/util"
	"booknest/pkg/logger"
	"booknest/pkg/metrics"

	"github.com/google/uuid"
)

// AuthService отвечает за регистрацию, вход и жизненный цикл токенов
type AuthService struct {
	accountRepo   repository.AccountRepository
	tokenRepo     repository.TokenRepository
	jwtManager    *util.JWTManager
	kafkaProducer infrastructure.MessagePublisher
}

func NewAuthService(
	accountRepo repository.AccountRepository,
	tokenRepo repository.TokenRepository,
	jwtManager *util.JWTManager,
	kafkaProducer infrastructure.MessagePublisher,
) *AuthService {
	return &AuthService{
		accountRepo:   accountRepo,
		tokenRepo:     tokenRepo,
		jwtManager:    jwtManager,
		kafkaProducer: kafkaProducer,
	}
}

// Register создает аккаунт студента в состоянии "ожидает одобрения".
// Токены не выдаются: войти можно только после решения администратора.
func (s *AuthService) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.Account, error) {
	hash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &entity.Account{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         entity.RoleStudent,
		Approved:     false,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	metrics.AuthRegistrations.Inc()
	s.publishRegistrationEvent(ctx, account)

	return account, nil
}

// Login проверяет пароль и статус одобрения, затем выдает пару токенов
func (s *AuthService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error) {
	account, err := s.accountRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			metrics.AuthLogins.WithLabelValues("failed").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !util.CheckPassword(req.Password, account.PasswordHash) {
		metrics.AuthLogins.WithLabelValues("failed").Inc()
		return nil, ErrInvalidCredentials
	}

	if !account.Approved {
		metrics.AuthLogins.WithLabelValues("not_approved").Inc()
		return nil, ErrNotApproved
	}

	tokens, err := s.generateTokenPair(ctx, account)
	if err != nil {
		return nil, err
	}

	metrics.AuthLogins.WithLabelValues("success").Inc()

	return &entity.AuthResponse{User: *account, Tokens: *tokens}, nil
}

// RefreshTokens обменивает refresh токен на новую пару токенов.
// Старый refresh токен при этом отзывается (ротация).
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*entity.TokenPair, error) {
	stored, err := s.tokenRepo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	account, err := s.accountRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if !account.Approved {
		return nil, ErrNotApproved
	}

	if err := s.tokenRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		logger.Warn().Err(err).Msg("failed to revoke rotated refresh token")
	}

	return s.generateTokenPair(ctx, account)
}

// Logout отзывает access токен через черный список и удаляет refresh токен
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	claims, err := s.jwtManager.ValidateToken(accessToken)
	if err == nil {
		if err := s.tokenRepo.AddToBlacklist(ctx, accessToken, claims.ExpiresAt.Time); err != nil {
			return fmt.Errorf("failed to blacklist access token: %w", err)
		}
	}

	if refreshToken != "" {
		if err := s.tokenRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
			return fmt.Errorf("failed to delete refresh token: %w", err)
		}
	}

	return nil
}

// ValidateToken проверяет подпись access токена и его отсутствие в черном списке
func (s *AuthService) ValidateToken(ctx context.Context, accessToken string) (*util.JWTClaims, error) {
	claims, err := s.jwtManager.ValidateToken(accessToken)
	if err != nil {
		return nil, err
	}

	blacklisted, err := s.tokenRepo.IsBlacklisted(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	if blacklisted {
		return nil, util.ErrInvalidToken
	}

	return claims, nil
}

func (s *AuthService) generateTokenPair(ctx context.Context, account *entity.Account) (*entity.TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(account.ID, account.Email, account.Name, account.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresAt := time.Now().Add(s.jwtManager.GetRefreshTokenDuration())
	if err := s.tokenRepo.SaveRefreshToken(ctx, account.ID, refreshToken, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &entity.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetAccessTokenDuration().Seconds()),
	}, nil
}

// publishRegistrationEvent уведомляет Notification Service о новом студенте.
// Ошибка публикации не должна ронять регистрацию, поэтому только логируется.
func (s *AuthService) publishRegistrationEvent(ctx context.Context, account *entity.Account) {
	event := entity.RegistrationEvent{
		EventType: entity.EventStudentRegistered,
		UserID:    account.ID.String(),
		Name:      account.Name,
		Email:     account.Email,
		Timestamp: time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal registration event")
		return
	}

	if err := s.kafkaProducer.PublishMessage(ctx, account.ID.String(), payload); err != nil {
		logger.Warn().Err(err).Str("email", account.Email).Msg("failed to publish registration event")
	}
}
