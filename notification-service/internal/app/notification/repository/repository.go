package repository

import (
	"context"
	"errors"

	"booknest/notification-service/internal/app/notification/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrBookNotFound = errors.New("book not found")

// ReminderRepository - доступ на чтение к базе Library Service
// для cron-напоминаний о сроках возврата
type ReminderRepository interface {
	// ListMembersWithBorrows возвращает читателей, у которых есть книги на руках
	ListMembersWithBorrows(ctx context.Context) ([]entity.Member, error)
	// GetBook возвращает книгу по ID для подстановки названия в письмо
	GetBook(ctx context.Context, id primitive.ObjectID) (*entity.Book, error)
}
