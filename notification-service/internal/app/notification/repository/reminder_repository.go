package repository

import (
	"context"
	"errors"
	"fmt"

	"booknest/notification-service/internal/app/notification/entity"
	"booknest/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const serviceName = "notification-service"

type reminderRepository struct {
	members *mongo.Collection
	books   *mongo.Collection
}

// NewReminderRepository создает репозиторий поверх базы Library Service
func NewReminderRepository(db *mongo.Database) ReminderRepository {
	return &reminderRepository{
		members: db.Collection("members"),
		books:   db.Collection("books"),
	}
}

// ListMembersWithBorrows возвращает читателей хотя бы с одной выдачей.
// Фильтр отсекает пустые массивы, чтобы не гонять всех читателей по сети.
func (r *reminderRepository) ListMembersWithBorrows(ctx context.Context) ([]entity.Member, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, "members")
	defer timer.ObserveDuration()

	filter := bson.M{"borrowed_books.0": bson.M{"$exists": true}}

	cursor, err := r.members.Find(ctx, filter)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return nil, fmt.Errorf("failed to find members with borrows: %w", err)
	}
	defer cursor.Close(ctx)

	var members []entity.Member
	if err := cursor.All(ctx, &members); err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return nil, fmt.Errorf("failed to decode members: %w", err)
	}

	return members, nil
}

// GetBook получает книгу по ID
func (r *reminderRepository) GetBook(ctx context.Context, id primitive.ObjectID) (*entity.Book, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, "books")
	defer timer.ObserveDuration()

	var book entity.Book
	err := r.books.FindOne(ctx, bson.M{"_id": id}).Decode(&book)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return &book, nil
}
