package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booknest/library-service/internal/app/library/entity"
	"booknest/pkg/logger"
	"booknest/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const serviceName = "library-service"

type bookRepository struct {
	collection *mongo.Collection
}

// NewBookRepository создает новый репозиторий книг
// Автоматически создает индекс по name для поиска по каталогу
func NewBookRepository(db *mongo.Database) BookRepository {
	collection := db.Collection("books")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "name", Value: 1},
		},
		Options: options.Index().SetName("name_idx"),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		// Логируем ошибку, но не прерываем работу - индекс может уже существовать
		logger.Warn().Err(err).Msg("failed to create index on books.name")
	}

	return &bookRepository{
		collection: collection,
	}
}

// Create добавляет книгу в каталог
func (r *bookRepository) Create(ctx context.Context, book *entity.Book) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "books")
	defer timer.ObserveDuration()

	if book.Reviews == nil {
		book.Reviews = []entity.Review{}
	}

	result, err := r.collection.InsertOne(ctx, book)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create book: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		book.ID = oid
	}

	return nil
}

// GetByID получает книгу со всеми встроенными отзывами
func (r *bookRepository) GetByID(ctx context.Context, id string) (*entity.Book, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrBookNotFound
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, "books")
	defer timer.ObserveDuration()

	var book entity.Book
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&book)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return &book, nil
}

// List получает книги каталога, опционально фильтруя по имени
// (регистронезависимое вхождение, как в поиске по каталогу)
func (r *bookRepository) List(ctx context.Context, nameFilter string) ([]entity.Book, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, "books")
	defer timer.ObserveDuration()

	filter := bson.M{}
	if nameFilter != "" {
		filter["name"] = bson.M{"$regex": nameFilter, "$options": "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return nil, fmt.Errorf("failed to find books: %w", err)
	}
	defer cursor.Close(ctx)

	var books []entity.Book
	if err := cursor.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("failed to decode books: %w", err)
	}

	return books, nil
}

// Update обновляет атрибуты книги. Отзывы и stock этим методом не трогаются:
// stock меняется только транзакциями выдачи/возврата либо явной правкой админа
// через поле book.Stock, которое сюда уже приходит провалидированным (>= 0).
func (r *bookRepository) Update(ctx context.Context, book *entity.Book) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "books")
	defer timer.ObserveDuration()

	filter := bson.M{"_id": book.ID}
	update := bson.M{
		"$set": bson.M{
			"name":          book.Name,
			"author":        book.Author,
			"category":      book.Category,
			"isbn":          book.ISBN,
			"stock":         book.Stock,
			"description":   book.Description,
			"available":     book.Available,
			"rack_location": book.RackLocation,
			"cover_image":   book.CoverImage,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to update book: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrBookNotFound
	}

	return nil
}

// Delete удаляет книгу вместе с встроенными отзывами
func (r *bookRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrBookNotFound
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "books")
	defer timer.ObserveDuration()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpDelete)
		return fmt.Errorf("failed to delete book: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrBookNotFound
	}

	return nil
}

// AddReview добавляет отзыв в конец массива reviews.
// Фильтр reviews.user_id $ne отклоняет повторный отзыв того же пользователя
// атомарно, поэтому гонка двух параллельных отправок невозможна.
func (r *bookRepository) AddReview(ctx context.Context, bookID string, review *entity.Review) error {
	objectID, err := primitive.ObjectIDFromHex(bookID)
	if err != nil {
		return ErrBookNotFound
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "books")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":             objectID,
		"reviews.user_id": bson.M{"$ne": review.UserID},
	}
	update := bson.M{
		"$push": bson.M{"reviews": review},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to add review: %w", err)
	}

	if result.MatchedCount == 0 {
		// Либо книги нет, либо пользователь уже оставлял отзыв
		exists, err := r.exists(ctx, objectID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrBookNotFound
		}
		return ErrDuplicateReview
	}

	return nil
}

// DeleteReview удаляет ровно один отзыв из массива reviews
func (r *bookRepository) DeleteReview(ctx context.Context, bookID string, reviewID primitive.ObjectID) error {
	objectID, err := primitive.ObjectIDFromHex(bookID)
	if err != nil {
		return ErrBookNotFound
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "books")
	defer timer.ObserveDuration()

	filter := bson.M{"_id": objectID}
	update := bson.M{
		"$pull": bson.M{"reviews": bson.M{"_id": reviewID}},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrBookNotFound
	}
	if result.ModifiedCount == 0 {
		return ErrReviewNotFound
	}

	return nil
}

// PullVote снимает голос условным апдейтом: совпадает только если userID
// действительно состоит в соответствующем множестве. Благодаря этому счётчик
// декрементируется ровно на единицу и не уходит в минус даже при гонках.
func (r *bookRepository) PullVote(ctx context.Context, bookID string, reviewID primitive.ObjectID, userID string, direction entity.VoteDirection) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(bookID)
	if err != nil {
		return false, ErrBookNotFound
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "books")
	defer timer.ObserveDuration()

	setField, countField := voteFields(direction)

	filter := bson.M{
		"_id": objectID,
		"reviews": bson.M{
			"$elemMatch": bson.M{
				"_id":    reviewID,
				setField: userID,
			},
		},
	}
	update := bson.M{
		"$pull": bson.M{"reviews.$." + setField: userID},
		"$inc":  bson.M{"reviews.$." + countField: -1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return false, fmt.Errorf("failed to pull vote: %w", err)
	}

	return result.MatchedCount > 0, nil
}

// PushVote добавляет голос, только если userID еще не голосовал в этом
// направлении ($addToSet плюс фильтр $ne для согласованного инкремента)
func (r *bookRepository) PushVote(ctx context.Context, bookID string, reviewID primitive.ObjectID, userID string, direction entity.VoteDirection) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(bookID)
	if err != nil {
		return false, ErrBookNotFound
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "books")
	defer timer.ObserveDuration()

	setField, countField := voteFields(direction)

	filter := bson.M{
		"_id": objectID,
		"reviews": bson.M{
			"$elemMatch": bson.M{
				"_id":    reviewID,
				setField: bson.M{"$ne": userID},
			},
		},
	}
	update := bson.M{
		"$addToSet": bson.M{"reviews.$." + setField: userID},
		"$inc":      bson.M{"reviews.$." + countField: 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return false, fmt.Errorf("failed to push vote: %w", err)
	}

	return result.MatchedCount > 0, nil
}

func (r *bookRepository) exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check book existence: %w", err)
	}
	return count > 0, nil
}

// voteFields возвращает bson-имена множества голосовавших и счётчика
// для направления голоса
func voteFields(direction entity.VoteDirection) (string, string) {
	if direction == entity.VoteLike {
		return "liked_by", "likes"
	}
	return "disliked_by", "dislikes"
}
