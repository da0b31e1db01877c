package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booknest/library-service/internal/app/library/entity"
	"booknest/library-service/internal/app/library/repository"
	"booknest/library-service/internal/app/library/util"
	"booknest/pkg/logger"
)

// AnnouncementService управляет объявлениями и заявками на книги.
// Список объявлений кешируется в Redis; любая запись инвалидирует кеш.
type AnnouncementService struct {
	announcementRepo repository.AnnouncementRepository
	requestRepo      repository.BookRequestRepository
	cache            util.AnnouncementCache
}

// NewAnnouncementService создает сервис объявлений с внедрением зависимостей
func NewAnnouncementService(
	announcementRepo repository.AnnouncementRepository,
	requestRepo repository.BookRequestRepository,
	cache util.AnnouncementCache,
) *AnnouncementService {
	return &AnnouncementService{
		announcementRepo: announcementRepo,
		requestRepo:      requestRepo,
		cache:            cache,
	}
}

// CreateAnnouncement публикует объявление и сбрасывает кеш
func (s *AnnouncementService) CreateAnnouncement(ctx context.Context, req *entity.CreateAnnouncementRequest) (*entity.Announcement, error) {
	announcement := &entity.Announcement{
		Title:     req.Title,
		Message:   req.Message,
		CreatedAt: time.Now(),
	}

	if err := s.announcementRepo.Create(ctx, announcement); err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}

	s.invalidateCache(ctx)

	return announcement, nil
}

// ListAnnouncements возвращает объявления, свежие сверху.
// Сначала пробуем кеш; промах или недоступный Redis не ломают чтение.
func (s *AnnouncementService) ListAnnouncements(ctx context.Context) ([]entity.Announcement, error) {
	if cached, err := s.cache.GetAnnouncements(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to read announcements cache")
	} else if cached != nil {
		return cached, nil
	}

	announcements, err := s.announcementRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}

	if err := s.cache.SetAnnouncements(ctx, announcements); err != nil {
		logger.Warn().Err(err).Msg("failed to cache announcements")
	}

	return announcements, nil
}

// DeleteAnnouncement снимает объявление и сбрасывает кеш
func (s *AnnouncementService) DeleteAnnouncement(ctx context.Context, id string) error {
	if err := s.announcementRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAnnouncementNotFound) {
			return ErrAnnouncementNotFound
		}
		return fmt.Errorf("failed to delete announcement: %w", err)
	}

	s.invalidateCache(ctx)

	return nil
}

// CreateBookRequest регистрирует заявку читателя на добавление книги
func (s *AnnouncementService) CreateBookRequest(ctx context.Context, req *entity.CreateBookRequestRequest) (*entity.BookRequest, error) {
	request := &entity.BookRequest{
		BookName:      req.BookName,
		AuthorName:    req.AuthorName,
		ReferenceLink: req.ReferenceLink,
		RequestedAt:   time.Now(),
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create book request: %w", err)
	}

	return request, nil
}

// ListBookRequests возвращает заявки на книги, свежие сверху
func (s *AnnouncementService) ListBookRequests(ctx context.Context) ([]entity.BookRequest, error) {
	requests, err := s.requestRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list book requests: %w", err)
	}
	return requests, nil
}

// DeleteBookRequest закрывает обработанную заявку
func (s *AnnouncementService) DeleteBookRequest(ctx context.Context, id string) error {
	if err := s.requestRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return ErrRequestNotFound
		}
		return fmt.Errorf("failed to delete book request: %w", err)
	}
	return nil
}

func (s *AnnouncementService) invalidateCache(ctx context.Context) {
	if err := s.cache.InvalidateAnnouncements(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to invalidate announcements cache")
	}
}
