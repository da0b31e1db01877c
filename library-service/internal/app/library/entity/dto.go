package entity

import "time"

// CreateBookRequest - запрос на добавление книги (только админ)
type CreateBookRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	Author       string `json:"author" validate:"required,min=1,max=200"`
	Category     string `json:"category" validate:"required,oneof=Fiction Non-Fiction Science History Technology"`
	ISBN         string `json:"isbn" validate:"required"`
	Stock        int    `json:"stock" validate:"min=0"`
	Description  string `json:"description" validate:"max=2000"`
	Available    bool   `json:"available"`
	RackLocation string `json:"rack_location" validate:"required"`
	CoverImage   string `json:"cover_image"`
}

// UpdateBookRequest - частичное обновление книги; nil-поля не трогаются
type UpdateBookRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	Author       *string `json:"author" validate:"omitempty,min=1,max=200"`
	Category     *string `json:"category" validate:"omitempty,oneof=Fiction Non-Fiction Science History Technology"`
	ISBN         *string `json:"isbn"`
	Stock        *int    `json:"stock" validate:"omitempty,min=0"`
	Description  *string `json:"description" validate:"omitempty,max=2000"`
	Available    *bool   `json:"available"`
	RackLocation *string `json:"rack_location"`
	CoverImage   *string `json:"cover_image"`
}

// CreateReviewRequest - запрос на создание отзыва
type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,min=3,max=1000"`
}

// BorrowBookRequest - запрос на выдачу книги читателю (только админ)
type BorrowBookRequest struct {
	BookID  string    `json:"book_id" validate:"required"`
	DueDate time.Time `json:"due_date" validate:"required"`
}

// CreateAnnouncementRequest - запрос на публикацию объявления
type CreateAnnouncementRequest struct {
	Title   string `json:"title" validate:"required,max=100"`
	Message string `json:"message" validate:"required,max=500"`
}

// CreateBookRequestRequest - заявка на добавление книги в каталог
type CreateBookRequestRequest struct {
	BookName      string `json:"book_name" validate:"required"`
	AuthorName    string `json:"author_name" validate:"required"`
	ReferenceLink string `json:"reference_link" validate:"required,url"`
}

// ReviewView - отзыв с вычисленным правом удаления для текущего пользователя
type ReviewView struct {
	Review
	CanDelete bool `json:"can_delete"`
}

// BookView - книга с отзывами, дополненными правами текущего пользователя
type BookView struct {
	Book
	Reviews []ReviewView `json:"reviews"`
}

// BorrowView - выдача со статусом, вычисленным на момент запроса.
// DaysLeft заполняется только для активных выдач.
type BorrowView struct {
	BookID     string    `json:"book_id"`
	BookName   string    `json:"book_name,omitempty"`
	BorrowedAt time.Time `json:"borrowed_at"`
	DueDate    time.Time `json:"due_date"`
	Status     string    `json:"status"`
	DaysLeft   *int      `json:"days_left,omitempty"`
}

// BorrowListResponse - выдачи читателя, сгруппированные по статусу
type BorrowListResponse struct {
	Overdue []BorrowView `json:"overdue"`
	Active  []BorrowView `json:"active"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse - стандартный ответ об успехе
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// BookListResponse - ответ со списком книг
type BookListResponse struct {
	Books []Book `json:"books"`
	Total int    `json:"total"`
}
