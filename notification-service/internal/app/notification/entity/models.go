package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Типы событий, приходящих из Kafka
const (
	EventBookBorrowed      = "BOOK_BORROWED"
	EventBookReturned      = "BOOK_RETURNED"
	EventReviewCreated     = "REVIEW_CREATED"
	EventStudentRegistered = "STUDENT_REGISTERED"
)

// NotificationEvent - событие Library Service (выдача, возврат, отзыв).
// Структура совпадает с producer-стороной.
type NotificationEvent struct {
	EventType   string    `json:"event_type"`
	MemberID    string    `json:"member_id"`
	MemberName  string    `json:"member_name"`
	MemberEmail string    `json:"member_email"`
	BookID      string    `json:"book_id"`
	BookName    string    `json:"book_name"`
	BorrowedAt  time.Time `json:"borrowed_at,omitempty"`
	DueDate     time.Time `json:"due_date,omitempty"`
	ReturnedAt  time.Time `json:"returned_at,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// RegistrationEvent - событие Auth Service о новой заявке на регистрацию
type RegistrationEvent struct {
	EventType string    `json:"event_type"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

// Member - read-модель читателя из базы Library Service.
// Сервис уведомлений читает коллекцию members только для cron-напоминаний.
type Member struct {
	ID            string         `bson:"_id"`
	Name          string         `bson:"name"`
	Email         string         `bson:"email"`
	BorrowedBooks []BorrowRecord `bson:"borrowed_books"`
}

// BorrowRecord - активная выдача из документа читателя
type BorrowRecord struct {
	BookID     primitive.ObjectID `bson:"book_id"`
	BorrowedAt time.Time          `bson:"borrowed_at"`
	DueDate    time.Time          `bson:"due_date"`
}

// Book - read-модель книги, нужны только название и автор
type Book struct {
	ID     primitive.ObjectID `bson:"_id"`
	Name   string             `bson:"name"`
	Author string             `bson:"author"`
}
