package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"booknest/library-service/internal/app/library/entity"
	"booknest/library-service/internal/app/library/repository"
	"booknest/library-service/internal/app/library/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newAnnouncementService() (*AnnouncementService, *mocks.MockAnnouncementRepository, *mocks.MockBookRequestRepository, *mocks.MockAnnouncementCache) {
	announcementRepo := new(mocks.MockAnnouncementRepository)
	requestRepo := new(mocks.MockBookRequestRepository)
	cache := new(mocks.MockAnnouncementCache)
	service := NewAnnouncementService(announcementRepo, requestRepo, cache)
	return service, announcementRepo, requestRepo, cache
}

func TestCreateAnnouncement_InvalidatesCache(t *testing.T) {
	service, announcementRepo, _, cache := newAnnouncementService()

	ctx := context.Background()
	req := &entity.CreateAnnouncementRequest{Title: "Новые поступления", Message: "Смотрите раздел Science"}

	announcementRepo.On("Create", ctx, mock.AnythingOfType("*entity.Announcement")).Return(nil)
	cache.On("InvalidateAnnouncements", ctx).Return(nil)

	announcement, err := service.CreateAnnouncement(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, "Новые поступления", announcement.Title)
	cache.AssertCalled(t, "InvalidateAnnouncements", ctx)
}

func TestListAnnouncements_CacheHit(t *testing.T) {
	service, announcementRepo, _, cache := newAnnouncementService()

	ctx := context.Background()
	cached := []entity.Announcement{{ID: primitive.NewObjectID(), Title: "Из кеша"}}

	cache.On("GetAnnouncements", ctx).Return(cached, nil)

	result, err := service.ListAnnouncements(ctx)

	assert.NoError(t, err)
	assert.Equal(t, cached, result)
	announcementRepo.AssertNotCalled(t, "List", mock.Anything)
}

func TestListAnnouncements_CacheMiss(t *testing.T) {
	service, announcementRepo, _, cache := newAnnouncementService()

	ctx := context.Background()
	stored := []entity.Announcement{{ID: primitive.NewObjectID(), Title: "Из базы", CreatedAt: time.Now()}}

	cache.On("GetAnnouncements", ctx).Return(nil, nil)
	announcementRepo.On("List", ctx).Return(stored, nil)
	cache.On("SetAnnouncements", ctx, stored).Return(nil)

	result, err := service.ListAnnouncements(ctx)

	assert.NoError(t, err)
	assert.Equal(t, stored, result)
	cache.AssertCalled(t, "SetAnnouncements", ctx, stored)
}

func TestListAnnouncements_CacheErrorFallsThrough(t *testing.T) {
	service, announcementRepo, _, cache := newAnnouncementService()

	ctx := context.Background()
	stored := []entity.Announcement{{ID: primitive.NewObjectID(), Title: "Из базы"}}

	cache.On("GetAnnouncements", ctx).Return(nil, errors.New("redis down"))
	announcementRepo.On("List", ctx).Return(stored, nil)
	cache.On("SetAnnouncements", ctx, stored).Return(errors.New("redis down"))

	result, err := service.ListAnnouncements(ctx)

	assert.NoError(t, err)
	assert.Equal(t, stored, result)
}

func TestDeleteAnnouncement_NotFound(t *testing.T) {
	service, announcementRepo, _, _ := newAnnouncementService()

	ctx := context.Background()
	id := primitive.NewObjectID().Hex()

	announcementRepo.On("Delete", ctx, id).Return(repository.ErrAnnouncementNotFound)

	err := service.DeleteAnnouncement(ctx, id)

	assert.ErrorIs(t, err, ErrAnnouncementNotFound)
}

func TestCreateBookRequest_Success(t *testing.T) {
	service, _, requestRepo, _ := newAnnouncementService()

	ctx := context.Background()
	req := &entity.CreateBookRequestRequest{
		BookName:      "Snow Crash",
		AuthorName:    "Neal Stephenson",
		ReferenceLink: "https://example.com/snow-crash",
	}

	requestRepo.On("Create", ctx, mock.AnythingOfType("*entity.BookRequest")).Return(nil)

	request, err := service.CreateBookRequest(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, "Snow Crash", request.BookName)
	assert.False(t, request.RequestedAt.IsZero())
}

func TestDeleteBookRequest_NotFound(t *testing.T) {
	service, _, requestRepo, _ := newAnnouncementService()

	ctx := context.Background()
	id := primitive.NewObjectID().Hex()

	requestRepo.On("Delete", ctx, id).Return(repository.ErrRequestNotFound)

	err := service.DeleteBookRequest(ctx, id)

	assert.ErrorIs(t, err, ErrRequestNotFound)
}
