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

func newCirculationService() (*CirculationService, *mocks.MockCirculationRepository, *mocks.MockBookRepository, *mocks.MockMemberRepository, *mocks.MockMessagePublisher) {
	circulationRepo := new(mocks.MockCirculationRepository)
	bookRepo := new(mocks.MockBookRepository)
	memberRepo := new(mocks.MockMemberRepository)
	kafkaProducer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	service := NewCirculationService(circulationRepo, bookRepo, memberRepo, kafkaProducer)
	return service, circulationRepo, bookRepo, memberRepo, kafkaProducer
}

func TestBorrow_Success(t *testing.T) {
	service, circulationRepo, bookRepo, memberRepo, kafkaProducer := newCirculationService()

	ctx := context.Background()
	memberID := "member-123"
	bookID := primitive.NewObjectID()
	req := &entity.BorrowBookRequest{BookID: bookID.Hex(), DueDate: time.Now().AddDate(0, 0, 14)}

	circulationRepo.On("Borrow", ctx, memberID, mock.AnythingOfType("entity.BorrowRecord")).Return(nil)
	memberRepo.On("GetByID", ctx, memberID).Return(&entity.Member{ID: memberID, Name: "Alice", Email: "alice@example.com"}, nil)
	bookRepo.On("GetByID", ctx, bookID.Hex()).Return(&entity.Book{ID: bookID, Name: "Dune"}, nil)
	kafkaProducer.On("PublishMessage", ctx, memberID, mock.Anything).Return(nil)

	record, err := service.Borrow(ctx, memberID, req)

	assert.NoError(t, err)
	assert.NotNil(t, record)
	assert.Equal(t, bookID, record.BookID)
	assert.Len(t, kafkaProducer.Messages, 1)
}

func TestBorrow_OutOfStock(t *testing.T) {
	service, circulationRepo, _, _, _ := newCirculationService()

	ctx := context.Background()
	bookID := primitive.NewObjectID().Hex()
	req := &entity.BorrowBookRequest{BookID: bookID, DueDate: time.Now().AddDate(0, 0, 7)}

	circulationRepo.On("Borrow", ctx, "member-123", mock.Anything).Return(repository.ErrOutOfStock)

	record, err := service.Borrow(ctx, "member-123", req)

	assert.Nil(t, record)
	assert.ErrorIs(t, err, ErrOutOfStock)
}

func TestBorrow_AlreadyBorrowed(t *testing.T) {
	service, circulationRepo, _, _, _ := newCirculationService()

	ctx := context.Background()
	bookID := primitive.NewObjectID().Hex()
	req := &entity.BorrowBookRequest{BookID: bookID, DueDate: time.Now().AddDate(0, 0, 7)}

	circulationRepo.On("Borrow", ctx, "member-123", mock.Anything).Return(repository.ErrAlreadyBorrowed)

	record, err := service.Borrow(ctx, "member-123", req)

	assert.Nil(t, record)
	assert.ErrorIs(t, err, ErrAlreadyBorrowed)
}

func TestBorrow_BookNotFound(t *testing.T) {
	service, circulationRepo, _, _, _ := newCirculationService()

	ctx := context.Background()
	bookID := primitive.NewObjectID().Hex()
	req := &entity.BorrowBookRequest{BookID: bookID, DueDate: time.Now().AddDate(0, 0, 7)}

	circulationRepo.On("Borrow", ctx, "member-123", mock.Anything).Return(repository.ErrBookNotFound)

	record, err := service.Borrow(ctx, "member-123", req)

	assert.Nil(t, record)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestBorrow_InvalidBookID(t *testing.T) {
	service, _, _, _, _ := newCirculationService()

	req := &entity.BorrowBookRequest{BookID: "not-a-hex-id", DueDate: time.Now().AddDate(0, 0, 7)}

	record, err := service.Borrow(context.Background(), "member-123", req)

	assert.Nil(t, record)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestBorrow_DueDateInPast(t *testing.T) {
	service, _, _, _, _ := newCirculationService()

	req := &entity.BorrowBookRequest{
		BookID:  primitive.NewObjectID().Hex(),
		DueDate: time.Now().AddDate(0, 0, -1),
	}

	record, err := service.Borrow(context.Background(), "member-123", req)

	assert.Nil(t, record)
	assert.ErrorIs(t, err, ErrInvalidDueDate)
}

func TestBorrow_KafkaErrorIgnored(t *testing.T) {
	service, circulationRepo, bookRepo, memberRepo, kafkaProducer := newCirculationService()

	ctx := context.Background()
	memberID := "member-123"
	bookID := primitive.NewObjectID()
	req := &entity.BorrowBookRequest{BookID: bookID.Hex(), DueDate: time.Now().AddDate(0, 0, 14)}

	circulationRepo.On("Borrow", ctx, memberID, mock.Anything).Return(nil)
	memberRepo.On("GetByID", ctx, memberID).Return(&entity.Member{ID: memberID}, nil)
	bookRepo.On("GetByID", ctx, bookID.Hex()).Return(&entity.Book{ID: bookID}, nil)
	kafkaProducer.On("PublishMessage", ctx, memberID, mock.Anything).Return(errors.New("kafka error"))

	record, err := service.Borrow(ctx, memberID, req)

	assert.NoError(t, err)
	assert.NotNil(t, record)
}

func TestReturn_Success(t *testing.T) {
	service, circulationRepo, bookRepo, memberRepo, kafkaProducer := newCirculationService()

	ctx := context.Background()
	memberID := "member-123"
	bookID := primitive.NewObjectID()
	record := &entity.BorrowRecord{
		BookID:     bookID,
		BorrowedAt: time.Now().AddDate(0, 0, -7),
		DueDate:    time.Now().AddDate(0, 0, 7),
	}

	circulationRepo.On("Return", ctx, memberID, bookID).Return(record, nil)
	memberRepo.On("GetByID", ctx, memberID).Return(&entity.Member{ID: memberID, Name: "Alice"}, nil)
	bookRepo.On("GetByID", ctx, bookID.Hex()).Return(&entity.Book{ID: bookID, Name: "Dune"}, nil)
	kafkaProducer.On("PublishMessage", ctx, memberID, mock.Anything).Return(nil)

	err := service.Return(ctx, memberID, bookID.Hex())

	assert.NoError(t, err)
	assert.Len(t, kafkaProducer.Messages, 1)
}

func TestReturn_BorrowNotFound(t *testing.T) {
	service, circulationRepo, _, _, _ := newCirculationService()

	ctx := context.Background()
	bookID := primitive.NewObjectID()

	circulationRepo.On("Return", ctx, "member-123", bookID).Return(nil, repository.ErrBorrowNotFound)

	err := service.Return(ctx, "member-123", bookID.Hex())

	assert.ErrorIs(t, err, ErrBorrowNotFound)
}

func TestReturn_MemberNotFound(t *testing.T) {
	service, circulationRepo, _, _, _ := newCirculationService()

	ctx := context.Background()
	bookID := primitive.NewObjectID()

	circulationRepo.On("Return", ctx, "ghost", bookID).Return(nil, repository.ErrMemberNotFound)

	err := service.Return(ctx, "ghost", bookID.Hex())

	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestListBorrows_GroupsByStatus(t *testing.T) {
	service, _, bookRepo, memberRepo, _ := newCirculationService()

	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	overdueBook := primitive.NewObjectID()
	activeBook := primitive.NewObjectID()
	member := &entity.Member{
		ID: "member-123",
		BorrowedBooks: []entity.BorrowRecord{
			{BookID: overdueBook, DueDate: now.AddDate(0, 0, -3)},
			{BookID: activeBook, DueDate: now.AddDate(0, 0, 5)},
		},
	}

	memberRepo.On("GetByID", ctx, "member-123").Return(member, nil)
	bookRepo.On("GetByID", ctx, overdueBook.Hex()).Return(&entity.Book{ID: overdueBook, Name: "Late Book"}, nil)
	bookRepo.On("GetByID", ctx, activeBook.Hex()).Return(&entity.Book{ID: activeBook, Name: "Fresh Book"}, nil)

	result, err := service.ListBorrows(ctx, "member-123", now)

	assert.NoError(t, err)
	assert.Len(t, result.Overdue, 1)
	assert.Len(t, result.Active, 1)
	assert.Equal(t, "Late Book", result.Overdue[0].BookName)
	assert.Equal(t, entity.BorrowStatusOverdue, result.Overdue[0].Status)
	assert.Nil(t, result.Overdue[0].DaysLeft)
	assert.NotNil(t, result.Active[0].DaysLeft)
	assert.Equal(t, 5, *result.Active[0].DaysLeft)
}

func TestListBorrows_SkipsDeletedBooks(t *testing.T) {
	service, _, bookRepo, memberRepo, _ := newCirculationService()

	ctx := context.Background()
	deletedBook := primitive.NewObjectID()
	member := &entity.Member{
		ID: "member-123",
		BorrowedBooks: []entity.BorrowRecord{
			{BookID: deletedBook, DueDate: time.Now().AddDate(0, 0, 5)},
		},
	}

	memberRepo.On("GetByID", ctx, "member-123").Return(member, nil)
	bookRepo.On("GetByID", ctx, deletedBook.Hex()).Return(nil, repository.ErrBookNotFound)

	result, err := service.ListBorrows(ctx, "member-123", time.Now())

	assert.NoError(t, err)
	assert.Empty(t, result.Overdue)
	assert.Empty(t, result.Active)
}

func TestClassifyBorrow_DueToday(t *testing.T) {
	now := time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC)
	record := entity.BorrowRecord{DueDate: time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)}

	status, daysLeft := ClassifyBorrow(record, now)

	assert.Equal(t, entity.BorrowStatusActive, status)
	assert.Equal(t, 0, daysLeft)
}

func TestClassifyBorrow_DueYesterday(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 30, 0, 0, time.UTC)
	record := entity.BorrowRecord{DueDate: time.Date(2025, 6, 14, 23, 59, 0, 0, time.UTC)}

	status, _ := ClassifyBorrow(record, now)

	assert.Equal(t, entity.BorrowStatusOverdue, status)
}

func TestClassifyBorrow_DueTomorrow(t *testing.T) {
	now := time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC)
	record := entity.BorrowRecord{DueDate: time.Date(2025, 6, 16, 1, 0, 0, 0, time.UTC)}

	status, daysLeft := ClassifyBorrow(record, now)

	assert.Equal(t, entity.BorrowStatusActive, status)
	assert.Equal(t, 1, daysLeft)
}

func TestClassifyBorrow_AcrossFallBackDay(t *testing.T) {
	// 2 ноября 2025 в America/New_York длится 25 часов;
	// календарный день при этом ровно один
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	now := time.Date(2025, 11, 1, 12, 0, 0, 0, loc)
	record := entity.BorrowRecord{DueDate: time.Date(2025, 11, 2, 12, 0, 0, 0, loc)}

	status, daysLeft := ClassifyBorrow(record, now)

	assert.Equal(t, entity.BorrowStatusActive, status)
	assert.Equal(t, 1, daysLeft)
}
