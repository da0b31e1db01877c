package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"booknest/auth-service/internal/app/auth/entity"
	"booknest/auth-service/internal/app/auth/repository"
	"booknest/auth-service/internal/app/auth/repository/mocks"
	"booknest/auth-service/internal/app/auth/service"
	"booknest/auth-service/internal/app/auth/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type testEnv struct {
	router      *gin.Engine
	accountRepo *mocks.MockAccountRepository
	tokenRepo   *mocks.MockTokenRepository
	producer    *mocks.MockMessagePublisher
	jwtManager  *util.JWTManager
}

func setupTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)

	accountRepo := new(mocks.MockAccountRepository)
	tokenRepo := new(mocks.MockTokenRepository)
	producer := new(mocks.MockMessagePublisher)
	jwtManager := util.NewJWTManager("test-secret", 15*time.Minute, 7*24*time.Hour)

	authService := service.NewAuthService(accountRepo, tokenRepo, jwtManager, producer)
	accountService := service.NewAccountService(accountRepo, tokenRepo)

	authHandler := NewAuthHandler(authService, accountService)
	adminHandler := NewAdminHandler(accountService)
	authMiddleware := NewAuthMiddleware(authService)

	return &testEnv{
		router:      SetupRoutes(authHandler, adminHandler, authMiddleware),
		accountRepo: accountRepo,
		tokenRepo:   tokenRepo,
		producer:    producer,
		jwtManager:  jwtManager,
	}
}

func (e *testEnv) tokenFor(userID uuid.UUID, role string) string {
	token, _ := e.jwtManager.GenerateAccessToken(userID, "user@example.com", "Test User", role)
	e.tokenRepo.On("IsBlacklisted", mock.Anything, token).Return(false, nil)
	return token
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ===================== Register Tests =====================

func TestRegisterEndpoint_Success(t *testing.T) {
	env := setupTestEnv()

	env.accountRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	env.producer.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	w := doJSON(env.router, http.MethodPost, "/auth/register", "", entity.RegisterRequest{
		Email:    "new@example.com",
		Password: "long-enough-password",
		Name:     "Alice",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "awaiting admin approval")
	// Пароль и его хеш не должны утекать в ответ
	assert.NotContains(t, w.Body.String(), "long-enough-password")
	assert.NotContains(t, w.Body.String(), "password_hash")
}

func TestRegisterEndpoint_ShortPassword(t *testing.T) {
	env := setupTestEnv()

	w := doJSON(env.router, http.MethodPost, "/auth/register", "", entity.RegisterRequest{
		Email:    "new@example.com",
		Password: "short",
		Name:     "Alice",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.accountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterEndpoint_EmailTaken(t *testing.T) {
	env := setupTestEnv()

	env.accountRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrEmailTaken)

	w := doJSON(env.router, http.MethodPost, "/auth/register", "", entity.RegisterRequest{
		Email:    "taken@example.com",
		Password: "long-enough-password",
		Name:     "Alice",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

// ===================== Login Tests =====================

func TestLoginEndpoint_Success(t *testing.T) {
	env := setupTestEnv()

	hash, _ := util.HashPassword("correct-password")
	account := &entity.Account{
		ID:           uuid.New(),
		Email:        "student@example.com",
		PasswordHash: hash,
		Name:         "Alice",
		Role:         entity.RoleStudent,
		Approved:     true,
	}

	env.accountRepo.On("GetByEmail", mock.Anything, account.Email).Return(account, nil)
	env.tokenRepo.On("SaveRefreshToken", mock.Anything, account.ID, mock.Anything, mock.Anything).Return(nil)

	w := doJSON(env.router, http.MethodPost, "/auth/login", "", entity.LoginRequest{
		Email:    account.Email,
		Password: "correct-password",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp entity.AuthResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
	assert.Equal(t, account.Email, resp.User.Email)
}

func TestLoginEndpoint_WrongPassword(t *testing.T) {
	env := setupTestEnv()

	hash, _ := util.HashPassword("correct-password")
	account := &entity.Account{ID: uuid.New(), Email: "student@example.com", PasswordHash: hash, Approved: true}

	env.accountRepo.On("GetByEmail", mock.Anything, account.Email).Return(account, nil)

	w := doJSON(env.router, http.MethodPost, "/auth/login", "", entity.LoginRequest{
		Email:    account.Email,
		Password: "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginEndpoint_NotApproved(t *testing.T) {
	env := setupTestEnv()

	hash, _ := util.HashPassword("correct-password")
	account := &entity.Account{ID: uuid.New(), Email: "pending@example.com", PasswordHash: hash, Approved: false}

	env.accountRepo.On("GetByEmail", mock.Anything, account.Email).Return(account, nil)

	w := doJSON(env.router, http.MethodPost, "/auth/login", "", entity.LoginRequest{
		Email:    account.Email,
		Password: "correct-password",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// ===================== Refresh Tests =====================

func TestRefreshEndpoint_InvalidToken(t *testing.T) {
	env := setupTestEnv()

	env.tokenRepo.On("GetRefreshToken", mock.Anything, "forged").Return(nil, repository.ErrTokenNotFound)

	w := doJSON(env.router, http.MethodPost, "/auth/refresh", "", entity.RefreshRequest{RefreshToken: "forged"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// ===================== Me Tests =====================

func TestMeEndpoint_Success(t *testing.T) {
	env := setupTestEnv()

	userID := uuid.New()
	account := &entity.Account{ID: userID, Email: "student@example.com", Name: "Alice", Role: entity.RoleStudent, Approved: true}
	env.accountRepo.On("GetByID", mock.Anything, userID).Return(account, nil)

	token := env.tokenFor(userID, entity.RoleStudent)
	w := doJSON(env.router, http.MethodGet, "/auth/me", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "student@example.com")
}

func TestMeEndpoint_NoToken(t *testing.T) {
	env := setupTestEnv()

	w := doJSON(env.router, http.MethodGet, "/auth/me", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeEndpoint_BlacklistedToken(t *testing.T) {
	env := setupTestEnv()

	userID := uuid.New()
	token, _ := env.jwtManager.GenerateAccessToken(userID, "user@example.com", "Test User", entity.RoleStudent)
	env.tokenRepo.On("IsBlacklisted", mock.Anything, token).Return(true, nil)

	w := doJSON(env.router, http.MethodGet, "/auth/me", token, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// ===================== Logout Tests =====================

func TestLogoutEndpoint_Success(t *testing.T) {
	env := setupTestEnv()

	token := env.tokenFor(uuid.New(), entity.RoleStudent)
	env.tokenRepo.On("AddToBlacklist", mock.Anything, token, mock.Anything).Return(nil)
	env.tokenRepo.On("DeleteRefreshToken", mock.Anything, "refresh-token").Return(nil)

	w := doJSON(env.router, http.MethodPost, "/auth/logout", token, entity.RefreshRequest{RefreshToken: "refresh-token"})

	assert.Equal(t, http.StatusOK, w.Code)
	env.tokenRepo.AssertCalled(t, "AddToBlacklist", mock.Anything, token, mock.Anything)
}

// ===================== Admin Tests =====================

func TestApproveEndpoint_AsAdmin(t *testing.T) {
	env := setupTestEnv()

	accountID := uuid.New()
	env.accountRepo.On("Approve", mock.Anything, accountID).Return(nil)

	token := env.tokenFor(uuid.New(), entity.RoleAdmin)
	w := doJSON(env.router, http.MethodPost, "/admin/accounts/"+accountID.String()+"/approve", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	env.accountRepo.AssertExpectations(t)
}

func TestApproveEndpoint_StudentForbidden(t *testing.T) {
	env := setupTestEnv()

	token := env.tokenFor(uuid.New(), entity.RoleStudent)
	w := doJSON(env.router, http.MethodPost, "/admin/accounts/"+uuid.NewString()+"/approve", token, nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	env.accountRepo.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything)
}

func TestDeleteAccountEndpoint_LastAdminConflict(t *testing.T) {
	env := setupTestEnv()

	adminID := uuid.New()
	admin := &entity.Account{ID: adminID, Role: entity.RoleAdmin, Approved: true}
	env.accountRepo.On("GetByID", mock.Anything, adminID).Return(admin, nil)
	env.accountRepo.On("CountAdmins", mock.Anything).Return(int64(1), nil)

	token := env.tokenFor(uuid.New(), entity.RoleAdmin)
	w := doJSON(env.router, http.MethodDelete, "/admin/accounts/"+adminID.String(), token, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListAccountsEndpoint_PendingFilter(t *testing.T) {
	env := setupTestEnv()

	env.accountRepo.On("List", mock.Anything, mock.MatchedBy(func(approved *bool) bool {
		return approved != nil && !*approved
	})).Return([]entity.Account{{ID: uuid.New(), Approved: false}}, nil)

	token := env.tokenFor(uuid.New(), entity.RoleAdmin)
	w := doJSON(env.router, http.MethodGet, "/admin/accounts?pending=true", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}
