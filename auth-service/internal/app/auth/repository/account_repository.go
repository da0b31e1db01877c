package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"booknest/auth-service/internal/app/auth/entity"
	"booknest/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const serviceName = "auth-service"

// accountRepository реализует AccountRepository для работы с PostgreSQL через GORM
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository создает новый репозиторий аккаунтов
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Create создает аккаунт. Конфликт уникального email возвращается
// как ErrEmailTaken.
func (r *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "accounts")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Create(account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) || strings.Contains(result.Error.Error(), "duplicate key") {
			return ErrEmailTaken
		}
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create account: %w", result.Error)
	}

	return nil
}

// GetByID получает аккаунт по ID
func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, "accounts")
	defer timer.ObserveDuration()

	var account entity.Account
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return nil, fmt.Errorf("failed to get account: %w", result.Error)
	}

	return &account, nil
}

// GetByEmail получает аккаунт по email
func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, "accounts")
	defer timer.ObserveDuration()

	var account entity.Account
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return nil, fmt.Errorf("failed to get account by email: %w", result.Error)
	}

	return &account, nil
}

// List возвращает аккаунты, опционально фильтруя по статусу одобрения
func (r *accountRepository) List(ctx context.Context, approved *bool) ([]entity.Account, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, "accounts")
	defer timer.ObserveDuration()

	query := r.db.WithContext(ctx).Order("created_at DESC")
	if approved != nil {
		query = query.Where("approved = ?", *approved)
	}

	var accounts []entity.Account
	if result := query.Find(&accounts); result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return nil, fmt.Errorf("failed to list accounts: %w", result.Error)
	}

	return accounts, nil
}

// Approve помечает аккаунт одобренным
func (r *accountRepository) Approve(ctx context.Context, id uuid.UUID) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "accounts")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).
		Model(&entity.Account{}).
		Where("id = ?", id).
		Update("approved", true)

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to approve account: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// Delete удаляет аккаунт
func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "accounts")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Account{})
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpDelete)
		return fmt.Errorf("failed to delete account: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// CountAdmins возвращает число администраторов
func (r *accountRepository) CountAdmins(ctx context.Context) (int64, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, "accounts")
	defer timer.ObserveDuration()

	var count int64
	result := r.db.WithContext(ctx).
		Model(&entity.Account{}).
		Where("role = ?", entity.RoleAdmin).
		Count(&count)

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return 0, fmt.Errorf("failed to count admins: %w", result.Error)
	}

	return count, nil
}
