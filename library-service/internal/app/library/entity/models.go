package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Категории книг - закрытый набор, проверяется при создании и обновлении
const (
	CategoryFiction    = "Fiction"
	CategoryNonFiction = "Non-Fiction"
	CategoryScience    = "Science"
	CategoryHistory    = "History"
	CategoryTechnology = "Technology"
)

// Categories перечисляет допустимые категории в порядке отображения
var Categories = []string{
	CategoryFiction,
	CategoryNonFiction,
	CategoryScience,
	CategoryHistory,
	CategoryTechnology,
}

// IsValidCategory проверяет принадлежность категории закрытому набору
func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Book - книга каталога с встроенными отзывами.
// Порядок элементов reviews соответствует порядку добавления.
type Book struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Author       string             `json:"author" bson:"author"`
	Category     string             `json:"category" bson:"category"`
	ISBN         string             `json:"isbn" bson:"isbn"`
	Stock        int                `json:"stock" bson:"stock"` // количество доступных экземпляров, всегда >= 0
	Description  string             `json:"description" bson:"description"`
	Available    bool               `json:"available" bson:"available"`
	RackLocation string             `json:"rack_location" bson:"rack_location"`
	CoverImage   string             `json:"cover_image" bson:"cover_image"`
	Reviews      []Review           `json:"reviews" bson:"reviews"`
}

// Review - отзыв, встроенный в документ книги.
// Username - снимок имени на момент создания, не синхронизируется при переименовании.
type Review struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	UserID     string             `json:"user_id" bson:"user_id"` // UUID аккаунта из Auth Service
	Username   string             `json:"username" bson:"username"`
	Rating     int                `json:"rating" bson:"rating"` // Оценка от 1 до 5
	Comment    string             `json:"comment" bson:"comment"`
	Likes      int                `json:"likes" bson:"likes"`
	Dislikes   int                `json:"dislikes" bson:"dislikes"`
	LikedBy    []string           `json:"liked_by" bson:"liked_by"`
	DislikedBy []string           `json:"disliked_by" bson:"disliked_by"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// VoteDirection - направление голоса за отзыв
type VoteDirection string

const (
	VoteLike    VoteDirection = "like"
	VoteDislike VoteDirection = "dislike"
)

// Opposite возвращает противоположное направление голоса
func (d VoteDirection) Opposite() VoteDirection {
	if d == VoteLike {
		return VoteDislike
	}
	return VoteLike
}

// Member - читатель библиотеки. Ключ документа - UUID аккаунта из Auth Service.
// Документ создается лениво при первом обращении аутентифицированного студента.
type Member struct {
	ID            string               `json:"id" bson:"_id"`
	Name          string               `json:"name" bson:"name"`
	Email         string               `json:"email" bson:"email"`
	BorrowedBooks []BorrowRecord       `json:"borrowed_books" bson:"borrowed_books"`
	Wishlist      []primitive.ObjectID `json:"wishlist" bson:"wishlist"`
}

// BorrowRecord - активная выдача книги читателю.
// Запись либо присутствует (книга на руках), либо отсутствует - промежуточных
// состояний нет; просроченность вычисляется при чтении и не хранится.
type BorrowRecord struct {
	BookID     primitive.ObjectID `json:"book_id" bson:"book_id"`
	BorrowedAt time.Time          `json:"borrowed_at" bson:"borrowed_at"`
	DueDate    time.Time          `json:"due_date" bson:"due_date"`
}

// Статусы выдачи, вычисляемые при чтении
const (
	BorrowStatusActive  = "Active"
	BorrowStatusOverdue = "Overdue"
)

// Announcement - объявление для читателей
type Announcement struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title"`
	Message   string             `json:"message" bson:"message"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// BookRequest - заявка читателя на добавление книги в каталог
type BookRequest struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BookName      string             `json:"book_name" bson:"book_name"`
	AuthorName    string             `json:"author_name" bson:"author_name"`
	ReferenceLink string             `json:"reference_link" bson:"reference_link"`
	RequestedAt   time.Time          `json:"requested_at" bson:"requested_at"`
}

// Типы событий для топика уведомлений
const (
	EventBookBorrowed  = "BOOK_BORROWED"
	EventBookReturned  = "BOOK_RETURNED"
	EventReviewCreated = "REVIEW_CREATED"
)

// NotificationEvent - событие для Notification Service.
// Отправляется в Kafka fire-and-forget: сбой отправки логируется
// и никогда не откатывает вызвавшую операцию.
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
