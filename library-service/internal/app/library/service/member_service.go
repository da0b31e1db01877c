package service

import (
	"context"
	"errors"
	"fmt"

	"booknest/library-service/internal/app/library/entity"
	"booknest/library-service/internal/app/library/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberService управляет профилями читателей и их списками желаемого.
// Документ читателя создается лениво из JWT-клеймов при первом
// обращении, поэтому Auth Service ничего не пишет в Mongo.
type MemberService struct {
	memberRepo repository.MemberRepository
	bookRepo   repository.BookRepository
}

// NewMemberService создает сервис читателей с внедрением зависимостей
func NewMemberService(memberRepo repository.MemberRepository, bookRepo repository.BookRepository) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		bookRepo:   bookRepo,
	}
}

// EnsureMember создает документ читателя, если его еще нет.
// Имя и email обновляются из токена при каждом вызове, выдачи
// и список желаемого сохраняются.
func (s *MemberService) EnsureMember(ctx context.Context, id string, name string, email string) error {
	member := &entity.Member{
		ID:    id,
		Name:  name,
		Email: email,
	}
	if err := s.memberRepo.Upsert(ctx, member); err != nil {
		return fmt.Errorf("failed to upsert member: %w", err)
	}
	return nil
}

// GetMember возвращает профиль читателя
func (s *MemberService) GetMember(ctx context.Context, id string) (*entity.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

// AddToWishlist добавляет книгу в список желаемого.
// Повторное добавление той же книги не создает дубликата.
func (s *MemberService) AddToWishlist(ctx context.Context, memberID string, bookIDHex string) error {
	bookID, err := primitive.ObjectIDFromHex(bookIDHex)
	if err != nil {
		return ErrBookNotFound
	}

	// Проверяем существование книги, чтобы не копить битые ссылки
	if _, err := s.bookRepo.GetByID(ctx, bookIDHex); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return ErrBookNotFound
		}
		return fmt.Errorf("failed to get book: %w", err)
	}

	if err := s.memberRepo.AddToWishlist(ctx, memberID, bookID); err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return nil
}

// RemoveFromWishlist убирает книгу из списка желаемого.
// Удаление отсутствующей книги не считается ошибкой.
func (s *MemberService) RemoveFromWishlist(ctx context.Context, memberID string, bookIDHex string) error {
	bookID, err := primitive.ObjectIDFromHex(bookIDHex)
	if err != nil {
		return ErrBookNotFound
	}

	if err := s.memberRepo.RemoveFromWishlist(ctx, memberID, bookID); err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	return nil
}

// GetWishlist возвращает книги из списка желаемого читателя.
// Удаленные из каталога книги пропускаются.
func (s *MemberService) GetWishlist(ctx context.Context, memberID string) ([]entity.Book, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	books := make([]entity.Book, 0, len(member.Wishlist))
	for _, bookID := range member.Wishlist {
		book, err := s.bookRepo.GetByID(ctx, bookID.Hex())
		if err != nil {
			if errors.Is(err, repository.ErrBookNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to get book: %w", err)
		}
		books = append(books, *book)
	}

	return books, nil
}
