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

// CirculationService обрабатывает выдачу и возврат книг.
// Парные записи (запись о выдаче + stock) делает CirculationRepository
// в одной транзакции; сервис отвечает за валидацию, классификацию
// сроков и события для Notification Service.
type CirculationService struct {
	circulationRepo repository.CirculationRepository
	bookRepo        repository.BookRepository
	memberRepo      repository.MemberRepository
	kafkaProducer   infrastructure.MessagePublisher
}

// NewCirculationService создает сервис выдач с внедрением зависимостей
func NewCirculationService(
	circulationRepo repository.CirculationRepository,
	bookRepo repository.BookRepository,
	memberRepo repository.MemberRepository,
	kafkaProducer infrastructure.MessagePublisher,
) *CirculationService {
	return &CirculationService{
		circulationRepo: circulationRepo,
		bookRepo:        bookRepo,
		memberRepo:      memberRepo,
		kafkaProducer:   kafkaProducer,
	}
}

// Borrow выдает книгу читателю
// 1. Проверяет срок возврата
// 2. Транзакционно добавляет запись о выдаче и декрементирует stock
// 3. Отправляет событие BOOK_BORROWED в Kafka (fire-and-forget)
func (s *CirculationService) Borrow(ctx context.Context, memberID string, req *entity.BorrowBookRequest) (*entity.BorrowRecord, error) {
	bookID, err := primitive.ObjectIDFromHex(req.BookID)
	if err != nil {
		return nil, ErrBookNotFound
	}

	now := time.Now()
	if midnight(req.DueDate).Before(midnight(now)) {
		return nil, ErrInvalidDueDate
	}

	record := entity.BorrowRecord{
		BookID:     bookID,
		BorrowedAt: now,
		DueDate:    req.DueDate,
	}

	if err := s.circulationRepo.Borrow(ctx, memberID, record); err != nil {
		switch {
		case errors.Is(err, repository.ErrBookNotFound):
			metrics.BorrowRejections.WithLabelValues("not_found").Inc()
			return nil, ErrBookNotFound
		case errors.Is(err, repository.ErrMemberNotFound):
			metrics.BorrowRejections.WithLabelValues("not_found").Inc()
			return nil, ErrMemberNotFound
		case errors.Is(err, repository.ErrOutOfStock):
			metrics.BorrowRejections.WithLabelValues("out_of_stock").Inc()
			return nil, ErrOutOfStock
		case errors.Is(err, repository.ErrAlreadyBorrowed):
			metrics.BorrowRejections.WithLabelValues("already_borrowed").Inc()
			return nil, ErrAlreadyBorrowed
		}
		return nil, fmt.Errorf("failed to borrow book: %w", err)
	}

	metrics.BooksBorrowed.Inc()

	s.publishCirculationEvent(ctx, entity.EventBookBorrowed, memberID, bookID, &record, time.Time{})

	return &record, nil
}

// Return принимает книгу обратно: транзакционно снимает запись о выдаче
// и инкрементирует stock,  затем отправляет событие BOOK_RETURNED
func (s *CirculationService) Return(ctx context.Context, memberID string, bookIDHex string) error {
	bookID, err := primitive.ObjectIDFromHex(bookIDHex)
	if err != nil {
		return ErrBookNotFound
	}

	record, err := s.circulationRepo.Return(ctx, memberID, bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookNotFound):
			return ErrBookNotFound
		case errors.Is(err, repository.ErrMemberNotFound):
			return ErrMemberNotFound
		case errors.Is(err, repository.ErrBorrowNotFound):
			return ErrBorrowNotFound
		}
		return fmt.Errorf("failed to return book: %w", err)
	}

	metrics.BooksReturned.Inc()

	s.publishCirculationEvent(ctx, entity.EventBookReturned, memberID, bookID, record, time.Now())

	return nil
}

// ListBorrows возвращает выдачи читателя, сгруппированные по статусу
// на момент now. Записи с битой ссылкой на удаленную книгу пропускаются.
func (s *CirculationService) ListBorrows(ctx context.Context, memberID string, now time.Time) (*entity.BorrowListResponse, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	response := &entity.BorrowListResponse{
		Overdue: []entity.BorrowView{},
		Active:  []entity.BorrowView{},
	}

	for _, record := range member.BorrowedBooks {
		view := entity.BorrowView{
			BookID:     record.BookID.Hex(),
			BorrowedAt: record.BorrowedAt,
			DueDate:    record.DueDate,
		}

		if book, err := s.bookRepo.GetByID(ctx, record.BookID.Hex()); err == nil {
			view.BookName = book.Name
		} else if errors.Is(err, repository.ErrBookNotFound) {
			continue
		}

		status, daysLeft := ClassifyBorrow(record, now)
		view.Status = status
		if status == entity.BorrowStatusActive {
			d := daysLeft
			view.DaysLeft = &d
		}

		if status == entity.BorrowStatusOverdue {
			response.Overdue = append(response.Overdue, view)
		} else {
			response.Active = append(response.Active, view)
		}
	}

	return response, nil
}

// ClassifyBorrow вычисляет статус выдачи на момент today.
// Обе даты нормализуются к полуночи; выдача со сроком сегодня считается
// активной с daysLeft = 0, просроченной она становится только назавтра.
// Статус нигде не хранится и пересчитывается при каждом чтении.
func ClassifyBorrow(record entity.BorrowRecord, today time.Time) (string, int) {
	due := midnight(record.DueDate)
	day := midnight(today)

	if due.Before(day) {
		return entity.BorrowStatusOverdue, 0
	}

	// Дни считаем по календарю через AddDate: арифметика на Duration
	// дает лишний день на границе перевода часов
	daysLeft := 0
	for d := day; d.Before(due); d = d.AddDate(0, 0, 1) {
		daysLeft++
	}
	return entity.BorrowStatusActive, daysLeft
}

// midnight отбрасывает время суток, сохраняя дату и зону
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// publishCirculationEvent отправляет событие выдачи/возврата в Kafka.
// Сбой отправки логируется и не влияет на результат операции:
// уведомления best-effort и никогда не откатывают выдачу.
func (s *CirculationService) publishCirculationEvent(ctx context.Context, eventType string, memberID string, bookID primitive.ObjectID, record *entity.BorrowRecord, returnedAt time.Time) {
	event := entity.NotificationEvent{
		EventType:  eventType,
		MemberID:   memberID,
		BookID:     bookID.Hex(),
		BorrowedAt: record.BorrowedAt,
		DueDate:    record.DueDate,
		ReturnedAt: returnedAt,
		Timestamp:  time.Now(),
	}

	// Обогащаем событие данными для письма; сбои чтения не критичны
	if member, err := s.memberRepo.GetByID(ctx, memberID); err == nil {
		event.MemberName = member.Name
		event.MemberEmail = member.Email
	}
	if book, err := s.bookRepo.GetByID(ctx, bookID.Hex()); err == nil {
		event.BookName = book.Name
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal circulation event")
		return
	}

	if err := s.kafkaProducer.PublishMessage(ctx, memberID, eventData); err != nil {
		logger.Warn().Err(err).Str("event_type", eventType).Msg("failed to publish circulation event")
	}
}
