package repository

import (
	"context"
	"fmt"
	"time"

	"booknest/library-service/internal/app/library/entity"
	"booknest/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type announcementRepository struct {
	collection *mongo.Collection
}

// NewAnnouncementRepository создает репозиторий объявлений
func NewAnnouncementRepository(db *mongo.Database) AnnouncementRepository {
	return &announcementRepository{
		collection: db.Collection("announcements"),
	}
}

func (r *announcementRepository) Create(ctx context.Context, announcement *entity.Announcement) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "announcements")
	defer timer.ObserveDuration()

	announcement.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, announcement)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create announcement: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		announcement.ID = oid
	}

	return nil
}

// List возвращает объявления от новых к старым
func (r *announcementRepository) List(ctx context.Context) ([]entity.Announcement, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, "announcements")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return nil, fmt.Errorf("failed to find announcements: %w", err)
	}
	defer cursor.Close(ctx)

	var announcements []entity.Announcement
	if err := cursor.All(ctx, &announcements); err != nil {
		return nil, fmt.Errorf("failed to decode announcements: %w", err)
	}

	return announcements, nil
}

func (r *announcementRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrAnnouncementNotFound
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "announcements")
	defer timer.ObserveDuration()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpDelete)
		return fmt.Errorf("failed to delete announcement: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrAnnouncementNotFound
	}

	return nil
}

type bookRequestRepository struct {
	collection *mongo.Collection
}

// NewBookRequestRepository создает репозиторий заявок на книги
func NewBookRequestRepository(db *mongo.Database) BookRequestRepository {
	return &bookRequestRepository{
		collection: db.Collection("book_requests"),
	}
}

func (r *bookRequestRepository) Create(ctx context.Context, request *entity.BookRequest) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "book_requests")
	defer timer.ObserveDuration()

	request.RequestedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, request)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create book request: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		request.ID = oid
	}

	return nil
}

func (r *bookRequestRepository) List(ctx context.Context) ([]entity.BookRequest, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, "book_requests")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "requested_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return nil, fmt.Errorf("failed to find book requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []entity.BookRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode book requests: %w", err)
	}

	return requests, nil
}

// Delete закрывает заявку: и одобрение, и отклонение убирают документ
func (r *bookRequestRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrRequestNotFound
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "book_requests")
	defer timer.ObserveDuration()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpDelete)
		return fmt.Errorf("failed to delete book request: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrRequestNotFound
	}

	return nil
}
