package service

import (
	"context"
	"testing"
	"time"

	"booknest/auth-service/internal/app/auth/entity"
	"booknest/auth-service/internal/app/auth/repository"
	"booknest/auth-service/internal/app/auth/repository/mocks"
	"booknest/auth-service/internal/app/auth/util"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAuthService(accountRepo *mocks.MockAccountRepository, tokenRepo *mocks.MockTokenRepository, producer *mocks.MockMessagePublisher) *AuthService {
	jwtManager := util.NewJWTManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	return NewAuthService(accountRepo, tokenRepo, jwtManager, producer)
}

func approvedAccount(role string) *entity.Account {
	hash, _ := util.HashPassword("correct-password")
	return &entity.Account{
		ID:           uuid.New(),
		Email:        "student@example.com",
		PasswordHash: hash,
		Name:         "Alice",
		Role:         role,
		Approved:     true,
		CreatedAt:    time.Now(),
	}
}

// ===================== Register Tests =====================

func TestRegister_Success(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepository)
	tokenRepo := new(mocks.MockTokenRepository)
	producer := new(mocks.MockMessagePublisher)
	svc := newAuthService(accountRepo, tokenRepo, producer)

	accountRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *entity.Account) bool {
		return a.Email == "new@example.com" &&
			a.Role == entity.RoleStudent &&
			!a.Approved &&
			a.PasswordHash != "" &&
			a.PasswordHash != "secret-password"
	})).Return(nil)
	producer.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	account, err := svc.Register(context.Background(), &entity.RegisterRequest{
		Email:    "new@example.com",
		Password: "secret-password",
		Name:     "Bob",
	})

	assert.NoError(t, err)
	assert.NotNil(t, account)
	assert.False(t, account.Approved)
	accountRepo.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestRegister_EmailTaken(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepository)
	tokenRepo := new(mocks.MockTokenRepository)
	producer := new(mocks.MockMessagePublisher)
	svc := newAuthService(accountRepo, tokenRepo, producer)

	accountRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrEmailTaken)

	account, err := svc.Register(context.Background(), &entity.RegisterRequest{
		Email:    "taken@example.com",
		Password: "secret-password",
		Name:     "Bob",
	})

	assert.Nil(t, account)
	assert.ErrorIs(t, err, ErrEmailTaken)
	producer.AssertNotCalled(t, "PublishMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_KafkaErrorDoesNotFailRegistration(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepository)
	tokenRepo := new(mocks.MockTokenRepository)
	producer := new(mocks.MockMessagePublisher)
	svc := newAuthService(accountRepo, tokenRepo, producer)

	accountRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	producer.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	account, err := svc.Register(context.Background(), &entity.RegisterRequest{
		Email:    "new@example.com",
		Password: "secret-password",
		Name:     "Bob",
	})

	assert.NoError(t, err)
	assert.NotNil(t, account)
}

// ===================== Login Tests =====================

func TestLogin_Success(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepository)
	tokenRepo := new(mocks.MockTokenRepository)
	producer := new(mocks.MockMessagePublisher)
	svc := newAuthService(accountRepo, tokenRepo, producer)

	account := approvedAccount(entity.RoleStudent)
	accountRepo.On("GetByEmail", mock.Anything, account.Email).Return(account, nil)
	tokenRepo.On("SaveRefreshToken", mock.Anything, account.ID, mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Login(context.Background(), &entity.LoginRequest{
		Email:    account.Email,
		Password: "correct-password",
	})

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), resp.Tokens.ExpiresIn)
	assert.Equal(t, account.Email, resp.User.Email)
	tokenRepo.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepository)
	tokenRepo := new(mocks.MockTokenRepository)
	producer := new(mocks.MockMessagePublisher)
	svc := newAuthService(accountRepo, tokenRepo, producer)

	account := approvedAccount(entity.RoleStudent)
	accountRepo.On("GetByEmail", mock.Anything, account.Email).Return(account, nil)

	resp, err := svc.Login(context.Background(), &entity.LoginRequest{
		Email:    account.Email,
		Password: "wrong-password",
	})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	tokenRepo.AssertNotCalled(t, "SaveRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_UnknownEmail(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepository)
	tokenRepo := new(mocks.MockTokenRepository)
	producer := new(mocks.MockMessagePublisher)
	svc := newAuthService(accountRepo, tokenRepo, producer)

	accountRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrAccountNotFound)

	resp, err := svc.Login(context.Background(), &entity.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever-password",
	})

	assert.Nil(t, resp)
	// Не раскрываем, существует ли email
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_NotApproved(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepository)
	tokenRepo := new(mocks.MockTokenRepository)
	producer := new(mocks.MockMessagePublisher)
	svc := newAuthService(accountRepo, tokenRepo, producer)

	account := approvedAccount(entity.RoleStudent)
	account.Approved = false
	accountRepo.On("GetByEmail", mock.Anything, account.Email).Return(account, nil)

	resp, err := svc.Login(context.Background(), &entity.LoginRequest{
		Email:    account.Email,
		Password: "correct-password",
	})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrNotApproved)
}

// ===================== RefreshTokens Tests =====================

func TestRefreshTokens_Success(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepository)
	tokenRepo := new(mocks.MockTokenRepository)
	producer := new(mocks.MockMessagePublisher)
	svc := newAuthService(accountRepo, tokenRepo, producer)

	account := approvedAccount(entity.RoleStudent)
	stored := &entity.RefreshToken{
		UserID:    account.ID,
		Token:     "old-refresh-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	tokenRepo.On("GetRefreshToken", mock.Anything, "old-refresh-token").Return(stored, nil)
	accountRepo.On("GetByID", mock.Anything, account.ID).Return(account, nil)
	tokenRepo.On("DeleteRefreshToken", mock.Anything, "old-refresh-token").Return(nil)
	tokenRepo.On("SaveRefreshToken", mock.Anything, account.ID, mock.Anything, mock.Anything).Return(nil)

	pair, err := svc.RefreshTokens(context.Background(), "old-refresh-token")

	assert.NoError(t, err)
	assert.NotNil(t, pair)
	assert.NotEqual(t, "old-refresh-token", pair.RefreshToken)
	tokenRepo.AssertExpectations(t)
}

func TestRefreshTokens_UnknownToken(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepository)
	tokenRepo := new(mocks.MockTokenRepository)
	producer := new(mocks.MockMessagePublisher)
	svc := newAuthService(accountRepo, tokenRepo, producer)

	tokenRepo.On("GetRefreshToken", mock.Anything, "forged-token").Return(nil, repository.ErrTokenNotFound)

	pair, err := svc.RefreshTokens(context.Background(), "forged-token")

	assert.Nil(t, pair)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshTokens_AccountDeleted(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepository)
	tokenRepo := new(mocks.MockTokenRepository)
	producer := new(mocks.MockMessagePublisher)
	svc := newAuthService(accountRepo, tokenRepo, producer)

	userID := uuid.New()
	stored := &entity.RefreshToken{UserID: userID, Token: "orphaned-token"}

	tokenRepo.On("GetRefreshToken", mock.Anything, "orphaned-token").Return(stored, nil)
	accountRepo.On("GetByID", mock.Anything, userID).Return(nil, repository.ErrAccountNotFound)

	pair, err := svc.RefreshTokens(context.Background(), "orphaned-token")

	assert.Nil(t, pair)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

// ===================== Logout / ValidateToken Tests =====================

func TestLogout_BlacklistsAccessAndDeletesRefresh(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepository)
	tokenRepo := new(mocks.MockTokenRepository)
	producer := new(mocks.MockMessagePublisher)
	svc := newAuthService(accountRepo, tokenRepo, producer)

	jwtManager := util.NewJWTManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	accessToken, err := jwtManager.GenerateAccessToken(uuid.New(), "a@b.c", "Alice", entity.RoleStudent)
	assert.NoError(t, err)

	tokenRepo.On("AddToBlacklist", mock.Anything, accessToken, mock.Anything).Return(nil)
	tokenRepo.On("DeleteRefreshToken", mock.Anything, "refresh-token").Return(nil)

	err = svc.Logout(context.Background(), accessToken, "refresh-token")

	assert.NoError(t, err)
	tokenRepo.AssertExpectations(t)
}

func TestValidateToken_Blacklisted(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepository)
	tokenRepo := new(mocks.MockTokenRepository)
	producer := new(mocks.MockMessagePublisher)
	svc := newAuthService(accountRepo, tokenRepo, producer)

	jwtManager := util.NewJWTManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	accessToken, err := jwtManager.GenerateAccessToken(uuid.New(), "a@b.c", "Alice", entity.RoleStudent)
	assert.NoError(t, err)

	tokenRepo.On("IsBlacklisted", mock.Anything, accessToken).Return(true, nil)

	claims, err := svc.ValidateToken(context.Background(), accessToken)

	assert.Nil(t, claims)
	assert.ErrorIs(t, err, util.ErrInvalidToken)
}

func TestValidateToken_Valid(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepository)
	tokenRepo := new(mocks.MockTokenRepository)
	producer := new(mocks.MockMessagePublisher)
	svc := newAuthService(accountRepo, tokenRepo, producer)

	jwtManager := util.NewJWTManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	userID := uuid.New()
	accessToken, err := jwtManager.GenerateAccessToken(userID, "a@b.c", "Alice", entity.RoleAdmin)
	assert.NoError(t, err)

	tokenRepo.On("IsBlacklisted", mock.Anything, accessToken).Return(false, nil)

	claims, err := svc.ValidateToken(context.Background(), accessToken)

	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
}
