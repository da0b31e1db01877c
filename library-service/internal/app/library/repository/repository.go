package repository

import (
	"context"
	"errors"

	"booknest/library-service/internal/app/library/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrBookNotFound     = errors.New("book not found")
	ErrMemberNotFound   = errors.New("member not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrDuplicateReview  = errors.New("member already reviewed this book")
	ErrAlreadyBorrowed  = errors.New("book already borrowed by this member")
	ErrOutOfStock       = errors.New("book is out of stock")
	ErrBorrowNotFound   = errors.New("active borrow record not found")
	ErrRequestNotFound  = errors.New("book request not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
)

// BookRepository определяет методы для работы с коллекцией books в MongoDB
type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	GetByID(ctx context.Context, id string) (*entity.Book, error)
	List(ctx context.Context, nameFilter string) ([]entity.Book, error)
	Update(ctx context.Context, book *entity.Book) error
	Delete(ctx context.Context, id string) error

	// AddReview добавляет отзыв атомарно, отклоняя повторный отзыв
	// того же пользователя (фильтр по user_id внутри reviews)
	AddReview(ctx context.Context, bookID string, review *entity.Review) error
	DeleteReview(ctx context.Context, bookID string, reviewID primitive.ObjectID) error

	// PullVote снимает голос userID с отзыва, если он там есть.
	// Возвращает true, если голос был снят (условный апдейт совпал).
	PullVote(ctx context.Context, bookID string, reviewID primitive.ObjectID, userID string, direction entity.VoteDirection) (bool, error)
	// PushVote добавляет голос userID, если его еще нет.
	PushVote(ctx context.Context, bookID string, reviewID primitive.ObjectID, userID string, direction entity.VoteDirection) (bool, error)
}

// MemberRepository определяет методы для работы с коллекцией members
type MemberRepository interface {
	// Upsert создает документ читателя при первом обращении,
	// не затирая существующие выдачи и wishlist
	Upsert(ctx context.Context, member *entity.Member) error
	GetByID(ctx context.Context, id string) (*entity.Member, error)
	AddToWishlist(ctx context.Context, memberID string, bookID primitive.ObjectID) error
	RemoveFromWishlist(ctx context.Context, memberID string, bookID primitive.ObjectID) error
}

// CirculationRepository выполняет парные записи выдачи/возврата
// (member.borrowed_books + book.stock) в одной транзакции MongoDB
type CirculationRepository interface {
	Borrow(ctx context.Context, memberID string, record entity.BorrowRecord) error
	// Return снимает запись о выдаче и возвращает ее для уведомления
	Return(ctx context.Context, memberID string, bookID primitive.ObjectID) (*entity.BorrowRecord, error)
}

// AnnouncementRepository определяет методы для работы с объявлениями
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *entity.Announcement) error
	List(ctx context.Context) ([]entity.Announcement, error)
	Delete(ctx context.Context, id string) error
}

// BookRequestRepository определяет методы для заявок на книги
type BookRequestRepository interface {
	Create(ctx context.Context, request *entity.BookRequest) error
	List(ctx context.Context) ([]entity.BookRequest, error)
	Delete(ctx context.Context, id string) error
}
