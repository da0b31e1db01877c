package service

import (
	"context"
	"errors"
	"fmt"

	"booknest/library-service/internal/app/library/entity"
	"booknest/library-service/internal/app/library/repository"
)

// CatalogService управляет каталогом книг.
// Изменение каталога доступно только администратору, чтение - всем
// аутентифицированным пользователям.
type CatalogService struct {
	bookRepo repository.BookRepository
}

// NewCatalogService создает сервис каталога с внедрением зависимостей
func NewCatalogService(bookRepo repository.BookRepository) *CatalogService {
	return &CatalogService{bookRepo: bookRepo}
}

// CreateBook добавляет книгу в каталог
func (s *CatalogService) CreateBook(ctx context.Context, req *entity.CreateBookRequest) (*entity.Book, error) {
	if !entity.IsValidCategory(req.Category) {
		return nil, ErrInvalidCategory
	}

	book := &entity.Book{
		Name:         req.Name,
		Author:       req.Author,
		Category:     req.Category,
		ISBN:         req.ISBN,
		Stock:        req.Stock,
		Description:  req.Description,
		Available:    req.Available,
		RackLocation: req.RackLocation,
		CoverImage:   req.CoverImage,
		Reviews:      []entity.Review{},
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return book, nil
}

// GetBook возвращает книгу с отзывами, дополненными правом удаления
// для текущего пользователя: свой отзыв может удалить автор, любой - админ.
func (s *CatalogService) GetBook(ctx context.Context, id string, userID string, isAdmin bool) (*entity.BookView, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	view := &entity.BookView{
		Book:    *book,
		Reviews: make([]entity.ReviewView, 0, len(book.Reviews)),
	}
	for _, review := range book.Reviews {
		view.Reviews = append(view.Reviews, entity.ReviewView{
			Review:    review,
			CanDelete: isAdmin || review.UserID == userID,
		})
	}

	return view, nil
}

// ListBooks возвращает книги каталога, опционально фильтруя по названию
func (s *CatalogService) ListBooks(ctx context.Context, nameFilter string) (*entity.BookListResponse, error) {
	books, err := s.bookRepo.List(ctx, nameFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	return &entity.BookListResponse{
		Books: books,
		Total: len(books),
	}, nil
}

// UpdateBook частично обновляет книгу: nil-поля запроса не трогаются
func (s *CatalogService) UpdateBook(ctx context.Context, id string, req *entity.UpdateBookRequest) (*entity.Book, error) {
	if req.Category != nil && !entity.IsValidCategory(*req.Category) {
		return nil, ErrInvalidCategory
	}

	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	if req.Name != nil {
		book.Name = *req.Name
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Category != nil {
		book.Category = *req.Category
	}
	if req.ISBN != nil {
		book.ISBN = *req.ISBN
	}
	if req.Stock != nil {
		book.Stock = *req.Stock
	}
	if req.Description != nil {
		book.Description = *req.Description
	}
	if req.Available != nil {
		book.Available = *req.Available
	}
	if req.RackLocation != nil {
		book.RackLocation = *req.RackLocation
	}
	if req.CoverImage != nil {
		book.CoverImage = *req.CoverImage
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	return book, nil
}

// DeleteBook удаляет книгу из каталога вместе с отзывами.
// Записи о выдачах у читателей при этом не трогаются и отфильтровываются
// при чтении списка выдач.
func (s *CatalogService) DeleteBook(ctx context.Context, id string) error {
	if err := s.bookRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return ErrBookNotFound
		}
		return fmt.Errorf("failed to delete book: %w", err)
	}
	return nil
}
