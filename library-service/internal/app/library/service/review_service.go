package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"booknest/library-service/internal/app/library/entity"
	"booknest/library-service/internal/app/library/infrastructure"
	"booknest/library-service/internal/app/library/repository"
	"booknest/pkg/logger"
	"booknest/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewService обрабатывает отзывы и голоса за них.
// Голос -- это переключатель: повторный клик снимает голос,
// клик по противоположной кнопке переносит голос.
type ReviewService struct {
	bookRepo      repository.BookRepository
	kafkaProducer infrastructure.MessagePublisher
}

// NewReviewService создает сервис отзывов с внедрением зависимостей
func NewReviewService(bookRepo repository.BookRepository, kafkaProducer infrastructure.MessagePublisher) *ReviewService {
	return &ReviewService{
		bookRepo:      bookRepo,
		kafkaProducer: kafkaProducer,
	}
}

// AddReview добавляет отзыв к книге.
// Один читатель -- один отзыв на книгу; имя автора снимается в момент
// публикации и дальше не синхронизируется с профилем.
func (s *ReviewService) AddReview(ctx context.Context, bookID string, userID string, username string, req *entity.CreateReviewRequest) (*entity.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	review := &entity.Review{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Username:  username,
		Rating:    req.Rating,
		Comment:   req.Comment,
		LikedBy:   []string{},
		DislikedBy: []string{},
		CreatedAt: time.Now(),
	}

	if err := s.bookRepo.AddReview(ctx, bookID, review); err != nil {
		switch {
		case errors.Is(err, repository.ErrBookNotFound):
			return nil, ErrBookNotFound
		case errors.Is(err, repository.ErrDuplicateReview):
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("failed to add review: %w", err)
	}

	metrics.ReviewsCreated.Inc()

	s.publishReviewEvent(ctx, bookID, userID, review)

	return review, nil
}

// Vote переключает голос пользователя за отзыв.
// Три исхода: голос снят (повторный клик), голос поставлен впервые,
// голос перенесен с противоположной кнопки. Каждый шаг -- условное
// атомарное обновление, поэтому гонки не дают ни отрицательных
// счетчиков, ни двойного учета.
func (s *ReviewService) Vote(ctx context.Context, bookID string, reviewIDHex string, userID string, direction entity.VoteDirection) error {
	reviewID, err := primitive.ObjectIDFromHex(reviewIDHex)
	if err != nil {
		return ErrReviewNotFound
	}

	// Повторный клик по той же кнопке -- снимаем голос
	removed, err := s.bookRepo.PullVote(ctx, bookID, reviewID, userID, direction)
	if err != nil {
		return s.mapVoteErr(err)
	}
	if removed {
		metrics.ReviewVotes.WithLabelValues(string(direction)).Inc()
		return nil
	}

	// Снимаем противоположный голос, если он был
	if _, err := s.bookRepo.PullVote(ctx, bookID, reviewID, userID, direction.Opposite()); err != nil {
		return s.mapVoteErr(err)
	}

	pushed, err := s.bookRepo.PushVote(ctx, bookID, reviewID, userID, direction)
	if err != nil {
		return s.mapVoteErr(err)
	}
	if !pushed {
		// Ни одно условное обновление не совпало. Либо книги/отзыва нет,
		// либо конкурирующий запрос того же пользователя успел раньше --
		// различаем эти случаи чтением
		if err := s.ensureReviewExists(ctx, bookID, reviewID); err != nil {
			return err
		}
		logger.Debug().Str("review_id", reviewIDHex).Str("user_id", userID).Msg("concurrent vote already applied")
	}

	metrics.ReviewVotes.WithLabelValues(string(direction)).Inc()
	return nil
}

// DeleteReview удаляет отзыв. Разрешено автору отзыва и администратору.
func (s *ReviewService) DeleteReview(ctx context.Context, bookID string, reviewIDHex string, userID string, isAdmin bool) error {
	reviewID, err := primitive.ObjectIDFromHex(reviewIDHex)
	if err != nil {
		return ErrReviewNotFound
	}

	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return ErrBookNotFound
		}
		return fmt.Errorf("failed to get book: %w", err)
	}

	var review *entity.Review
	for i := range book.Reviews {
		if book.Reviews[i].ID == reviewID {
			review = &book.Reviews[i]
			break
		}
	}
	if review == nil {
		return ErrReviewNotFound
	}

	if !isAdmin && review.UserID != userID {
		return ErrUnauthorized
	}

	if err := s.bookRepo.DeleteReview(ctx, bookID, reviewID); err != nil {
		switch {
		case errors.Is(err, repository.ErrBookNotFound):
			return ErrBookNotFound
		case errors.Is(err, repository.ErrReviewNotFound):
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to delete review: %w", err)
	}

	return nil
}

// ensureReviewExists проверяет, что книга и отзыв на месте
func (s *ReviewService) ensureReviewExists(ctx context.Context, bookID string, reviewID primitive.ObjectID) error {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return ErrBookNotFound
		}
		return fmt.Errorf("failed to get book: %w", err)
	}

	for i := range book.Reviews {
		if book.Reviews[i].ID == reviewID {
			return nil
		}
	}
	return ErrReviewNotFound
}

func (s *ReviewService) mapVoteErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrBookNotFound):
		return ErrBookNotFound
	case errors.Is(err, repository.ErrReviewNotFound):
		return ErrReviewNotFound
	}
	return fmt.Errorf("failed to update vote: %w", err)
}

// publishReviewEvent отправляет событие о новом отзыве в Kafka.
// Сбой отправки логируется и не откатывает публикацию отзыва.
func (s *ReviewService) publishReviewEvent(ctx context.Context, bookID string, userID string, review *entity.Review) {
	event := entity.NotificationEvent{
		EventType: entity.EventReviewCreated,
		MemberID:  userID,
		BookID:    bookID,
		Timestamp: time.Now(),
	}

	if book, err := s.bookRepo.GetByID(ctx, bookID); err == nil {
		event.BookName = book.Name
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal review event")
		return
	}

	if err := s.kafkaProducer.PublishMessage(ctx, userID, eventData); err != nil {
		logger.Warn().Err(err).Str("book_id", bookID).Msg("failed to publish review event")
	}
}
