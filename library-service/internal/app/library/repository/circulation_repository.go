package repository

import (
	"context"
	"errors"
	"fmt"

	"booknest/library-service/internal/app/library/entity"
	"booknest/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// circulationRepository выполняет парные записи по выдаче/возврату.
// Обе коллекции меняются в одной транзакции MongoDB: частично примененная
// выдача (запись без декремента stock или наоборот) невозможна.
type circulationRepository struct {
	client  *mongo.Client
	books   *mongo.Collection
	members *mongo.Collection
}

// NewCirculationRepository создает репозиторий выдач.
// Требует клиента с поддержкой сессий (replica set или mongos).
func NewCirculationRepository(client *mongo.Client, db *mongo.Database) CirculationRepository {
	return &circulationRepository{
		client:  client,
		books:   db.Collection("books"),
		members: db.Collection("members"),
	}
}

// Borrow выдает книгу читателю: условный декремент stock (только при stock > 0)
// плюс добавление записи о выдаче с защитой от повторной выдачи той же книги.
// При любой ошибке транзакция откатывается целиком.
func (r *circulationRepository) Borrow(ctx context.Context, memberID string, record entity.BorrowRecord) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "books+members")
	defer timer.ObserveDuration()

	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		// Условный декремент: совпадает только при stock > 0, поэтому
		// две одновременные выдачи последнего экземпляра не уведут stock в минус
		stockResult, err := r.books.UpdateOne(
			sc,
			bson.M{"_id": record.BookID, "stock": bson.M{"$gt": 0}},
			bson.M{"$inc": bson.M{"stock": -1}},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to decrement stock: %w", err)
		}
		if stockResult.MatchedCount == 0 {
			count, err := r.books.CountDocuments(sc, bson.M{"_id": record.BookID}, options.Count().SetLimit(1))
			if err != nil {
				return nil, fmt.Errorf("failed to check book existence: %w", err)
			}
			if count == 0 {
				return nil, ErrBookNotFound
			}
			return nil, ErrOutOfStock
		}

		// Фильтр $ne отклоняет повторную выдачу той же книги тому же читателю
		memberResult, err := r.members.UpdateOne(
			sc,
			bson.M{"_id": memberID, "borrowed_books.book_id": bson.M{"$ne": record.BookID}},
			bson.M{"$push": bson.M{"borrowed_books": record}},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to add borrow record: %w", err)
		}
		if memberResult.MatchedCount == 0 {
			count, err := r.members.CountDocuments(sc, bson.M{"_id": memberID}, options.Count().SetLimit(1))
			if err != nil {
				return nil, fmt.Errorf("failed to check member existence: %w", err)
			}
			if count == 0 {
				return nil, ErrMemberNotFound
			}
			return nil, ErrAlreadyBorrowed
		}

		return nil, nil
	})

	if err != nil {
		if isDomainErr(err) {
			return err
		}
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("borrow transaction failed: %w", err)
	}

	return nil
}

// Return снимает запись о выдаче и инкрементирует stock в одной транзакции.
// Возвращает снятую запись (даты выдачи и срока) для письма-подтверждения.
func (r *circulationRepository) Return(ctx context.Context, memberID string, bookID primitive.ObjectID) (*entity.BorrowRecord, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "books+members")
	defer timer.ObserveDuration()

	session, err := r.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var member entity.Member
		err := r.members.FindOne(sc, bson.M{"_id": memberID}).Decode(&member)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, ErrMemberNotFound
			}
			return nil, fmt.Errorf("failed to get member: %w", err)
		}

		var record *entity.BorrowRecord
		for i := range member.BorrowedBooks {
			if member.BorrowedBooks[i].BookID == bookID {
				record = &member.BorrowedBooks[i]
				break
			}
		}
		if record == nil {
			return nil, ErrBorrowNotFound
		}

		// Фильтр по book_id гарантирует, что запись все еще на месте:
		// параллельный возврат той же книги совпадет ровно один раз
		pullResult, err := r.members.UpdateOne(
			sc,
			bson.M{"_id": memberID, "borrowed_books.book_id": bookID},
			bson.M{"$pull": bson.M{"borrowed_books": bson.M{"book_id": bookID}}},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to remove borrow record: %w", err)
		}
		if pullResult.MatchedCount == 0 {
			return nil, ErrBorrowNotFound
		}

		stockResult, err := r.books.UpdateOne(
			sc,
			bson.M{"_id": bookID},
			bson.M{"$inc": bson.M{"stock": 1}},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to increment stock: %w", err)
		}
		if stockResult.MatchedCount == 0 {
			return nil, ErrBookNotFound
		}

		return record, nil
	})

	if err != nil {
		if isDomainErr(err) {
			return nil, err
		}
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return nil, fmt.Errorf("return transaction failed: %w", err)
	}

	return result.(*entity.BorrowRecord), nil
}

// isDomainErr отличает доменные отказы (прокидываются как есть)
// от инфраструктурных ошибок транзакции
func isDomainErr(err error) bool {
	return errors.Is(err, ErrBookNotFound) ||
		errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrOutOfStock) ||
		errors.Is(err, ErrAlreadyBorrowed) ||
		errors.Is(err, ErrBorrowNotFound)
}
