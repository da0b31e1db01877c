package mocks

import (
	"context"

	"booknest/library-service/internal/app/library/entity"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockBookRepository мок для BookRepository
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) Create(ctx context.Context, book *entity.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) GetByID(ctx context.Context, id string) (*entity.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Book), args.Error(1)
}

func (m *MockBookRepository) List(ctx context.Context, nameFilter string) ([]entity.Book, error) {
	args := m.Called(ctx, nameFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Book), args.Error(1)
}

func (m *MockBookRepository) Update(ctx context.Context, book *entity.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookRepository) AddReview(ctx context.Context, bookID string, review *entity.Review) error {
	args := m.Called(ctx, bookID, review)
	return args.Error(0)
}

func (m *MockBookRepository) DeleteReview(ctx context.Context, bookID string, reviewID primitive.ObjectID) error {
	args := m.Called(ctx, bookID, reviewID)
	return args.Error(0)
}

func (m *MockBookRepository) PullVote(ctx context.Context, bookID string, reviewID primitive.ObjectID, userID string, direction entity.VoteDirection) (bool, error) {
	args := m.Called(ctx, bookID, reviewID, userID, direction)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookRepository) PushVote(ctx context.Context, bookID string, reviewID primitive.ObjectID, userID string, direction entity.VoteDirection) (bool, error) {
	args := m.Called(ctx, bookID, reviewID, userID, direction)
	return args.Bool(0), args.Error(1)
}

// MockMemberRepository мок для MemberRepository
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) Upsert(ctx context.Context, member *entity.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) GetByID(ctx context.Context, id string) (*entity.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Member), args.Error(1)
}

func (m *MockMemberRepository) AddToWishlist(ctx context.Context, memberID string, bookID primitive.ObjectID) error {
	args := m.Called(ctx, memberID, bookID)
	return args.Error(0)
}

func (m *MockMemberRepository) RemoveFromWishlist(ctx context.Context, memberID string, bookID primitive.ObjectID) error {
	args := m.Called(ctx, memberID, bookID)
	return args.Error(0)
}

// MockCirculationRepository мок для CirculationRepository
type MockCirculationRepository struct {
	mock.Mock
}

func (m *MockCirculationRepository) Borrow(ctx context.Context, memberID string, record entity.BorrowRecord) error {
	args := m.Called(ctx, memberID, record)
	return args.Error(0)
}

func (m *MockCirculationRepository) Return(ctx context.Context, memberID string, bookID primitive.ObjectID) (*entity.BorrowRecord, error) {
	args := m.Called(ctx, memberID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BorrowRecord), args.Error(1)
}

// MockAnnouncementRepository мок для AnnouncementRepository
type MockAnnouncementRepository struct {
	mock.Mock
}

func (m *MockAnnouncementRepository) Create(ctx context.Context, announcement *entity.Announcement) error {
	args := m.Called(ctx, announcement)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) List(ctx context.Context) ([]entity.Announcement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Announcement), args.Error(1)
}

func (m *MockAnnouncementRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBookRequestRepository мок для BookRequestRepository
type MockBookRequestRepository struct {
	mock.Mock
}

func (m *MockBookRequestRepository) Create(ctx context.Context, request *entity.BookRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockBookRequestRepository) List(ctx context.Context) ([]entity.BookRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.BookRequest), args.Error(1)
}

func (m *MockBookRequestRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMessagePublisher мок для Kafka MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
	Messages [][]byte
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	m.Messages = append(m.Messages, value)
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockAnnouncementCache мок для Redis-кеша объявлений
type MockAnnouncementCache struct {
	mock.Mock
}

func (m *MockAnnouncementCache) SetAnnouncements(ctx context.Context, announcements []entity.Announcement) error {
	args := m.Called(ctx, announcements)
	return args.Error(0)
}

func (m *MockAnnouncementCache) GetAnnouncements(ctx context.Context) ([]entity.Announcement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Announcement), args.Error(1)
}

func (m *MockAnnouncementCache) InvalidateAnnouncements(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
