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

type memberRepository struct {
	collection *mongo.Collection
}

// NewMemberRepository создает новый репозиторий читателей
func NewMemberRepository(db *mongo.Database) MemberRepository {
	return &memberRepository{
		collection: db.Collection("members"),
	}
}

// Upsert создает документ читателя при первом обращении.
// $setOnInsert защищает существующие borrowed_books и wishlist:
// повторный вызов обновляет только имя и email из свежего токена.
func (r *memberRepository) Upsert(ctx context.Context, member *entity.Member) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "members")
	defer timer.ObserveDuration()

	filter := bson.M{"_id": member.ID}
	update := bson.M{
		"$set": bson.M{
			"name":  member.Name,
			"email": member.Email,
		},
		"$setOnInsert": bson.M{
			"borrowed_books": []entity.BorrowRecord{},
			"wishlist":       []primitive.ObjectID{},
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to upsert member: %w", err)
	}

	return nil
}

// GetByID получает читателя со встроенными выдачами и wishlist
func (r *memberRepository) GetByID(ctx context.Context, id string) (*entity.Member, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, "members")
	defer timer.ObserveDuration()

	var member entity.Member
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMemberNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return &member, nil
}

// AddToWishlist добавляет книгу в wishlist идемпотентно ($addToSet)
func (r *memberRepository) AddToWishlist(ctx context.Context, memberID string, bookID primitive.ObjectID) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "members")
	defer timer.ObserveDuration()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": memberID},
		bson.M{"$addToSet": bson.M{"wishlist": bookID}},
	)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrMemberNotFound
	}

	return nil
}

// RemoveFromWishlist убирает книгу из wishlist идемпотентно ($pull)
func (r *memberRepository) RemoveFromWishlist(ctx context.Context, memberID string, bookID primitive.ObjectID) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "members")
	defer timer.ObserveDuration()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": memberID},
		bson.M{"$pull": bson.M{"wishlist": bookID}},
	)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrMemberNotFound
	}

	return nil
}
