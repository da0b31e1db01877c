package mocks

import (
	"context"

	"booknest/notification-service/internal/app/notification/entity"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockReminderRepository - mock для ReminderRepository
type MockReminderRepository struct {
	mock.Mock
}

func (m *MockReminderRepository) ListMembersWithBorrows(ctx context.Context) ([]entity.Member, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Member), args.Error(1)
}

func (m *MockReminderRepository) GetBook(ctx context.Context, id primitive.ObjectID) (*entity.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Book), args.Error(1)
}

// MockMailer - mock для отправки писем, копит отправленные сообщения
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}
