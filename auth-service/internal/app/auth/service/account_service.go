package service

import (
	"context"
	"errors"

	"booknest/auth-service/internal/app/auth/entity"
	"booknest/auth-service/internal/app/auth/repository"
	"booknest/pkg/logger"
	"booknest/pkg/metrics"

	"github.com/google/uuid"
)

// AccountService - административные операции над аккаунтами
type AccountService struct {
	accountRepo repository.AccountRepository
	tokenRepo   repository.TokenRepository
}

func NewAccountService(accountRepo repository.AccountRepository, tokenRepo repository.TokenRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo, tokenRepo: tokenRepo}
}

// ListAccounts возвращает все аккаунты
func (s *AccountService) ListAccounts(ctx context.Context) ([]entity.Account, error) {
	return s.accountRepo.List(ctx, nil)
}

// ListPendingAccounts возвращает заявки, ожидающие одобрения
func (s *AccountService) ListPendingAccounts(ctx context.Context) ([]entity.Account, error) {
	pending := false
	return s.accountRepo.List(ctx, &pending)
}

// GetAccount возвращает аккаунт по ID
func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// ApproveAccount одобряет заявку студента, после чего ему разрешен вход
func (s *AccountService) ApproveAccount(ctx context.Context, id uuid.UUID) error {
	if err := s.accountRepo.Approve(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	metrics.AuthAccountsApproved.Inc()
	return nil
}

// DeleteAccount удаляет аккаунт вместе с его refresh токенами.
// Последнего администратора удалить нельзя.
func (s *AccountService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	if account.Role == entity.RoleAdmin {
		admins, err := s.accountRepo.CountAdmins(ctx)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}

	if err := s.accountRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	// Активные сессии удаленного аккаунта больше не действительны
	if err := s.tokenRepo.DeleteUserRefreshTokens(ctx, id); err != nil {
		logger.Warn().Err(err).Str("account_id", id.String()).Msg("failed to revoke tokens of deleted account")
	}

	return nil
}
