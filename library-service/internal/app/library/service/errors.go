package service

import "errors"

// Ошибки бизнес-логики для обработки в handlers.
// Все они означают отказ без частичной мутации: состояние хранилища
// после отказа совпадает с состоянием до вызова.
var (
	ErrBookNotFound         = errors.New("book not found")
	ErrMemberNotFound       = errors.New("member not found")
	ErrReviewNotFound       = errors.New("review not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrRequestNotFound      = errors.New("book request not found")

	ErrAlreadyBorrowed = errors.New("book is already borrowed by this member")
	ErrOutOfStock      = errors.New("book is out of stock")
	ErrBorrowNotFound  = errors.New("no active borrow record for this book")
	ErrDuplicateReview = errors.New("member already reviewed this book")

	ErrUnauthorized = errors.New("unauthorized access to review")

	ErrInvalidCategory = errors.New("unknown book category")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrInvalidDueDate  = errors.New("due date must not be in the past")
)
