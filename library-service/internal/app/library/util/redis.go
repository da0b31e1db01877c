package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"booknest/library-service/internal/app/library/entity"
	"booknest/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const announcementsCacheKey = "announcements:all"

// AnnouncementCache интерфейс кеша списка объявлений
type AnnouncementCache interface {
	SetAnnouncements(ctx context.Context, announcements []entity.Announcement) error
	GetAnnouncements(ctx context.Context) ([]entity.Announcement, error)
	InvalidateAnnouncements(ctx context.Context) error
}

// RedisClient кеширует список объявлений: он читается на каждой
// странице каталога, а меняется только действиями админа
type RedisClient struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(addr, password string, db int, ttl time.Duration) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client, ttl: ttl}, nil
}

func (r *RedisClient) SetAnnouncements(ctx context.Context, announcements []entity.Announcement) error {
	data, err := json.Marshal(announcements)
	if err != nil {
		return fmt.Errorf("failed to marshal announcements: %w", err)
	}

	if err := r.client.Set(ctx, announcementsCacheKey, data, r.ttl).Err(); err != nil {
		metrics.RecordRedisError("library-service", metrics.RedisOpSet)
		return fmt.Errorf("failed to set announcements in cache: %w", err)
	}

	return nil
}

// GetAnnouncements возвращает (nil, nil) при промахе кеша
func (r *RedisClient) GetAnnouncements(ctx context.Context) ([]entity.Announcement, error) {
	data, err := r.client.Get(ctx, announcementsCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss("library-service", "announcements")
			return nil, nil
		}
		metrics.RecordRedisError("library-service", metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get announcements from cache: %w", err)
	}

	var announcements []entity.Announcement
	if err := json.Unmarshal(data, &announcements); err != nil {
		return nil, fmt.Errorf("failed to unmarshal announcements: %w", err)
	}

	metrics.RecordCacheHit("library-service", "announcements")
	return announcements, nil
}

func (r *RedisClient) InvalidateAnnouncements(ctx context.Context) error {
	if err := r.client.Del(ctx, announcementsCacheKey).Err(); err != nil {
		metrics.RecordRedisError("library-service", metrics.RedisOpDel)
		return fmt.Errorf("failed to delete announcements from cache: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
