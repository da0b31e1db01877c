package util

import (
	"context"
	"testing"
	"time"

	"booknest/library-service/internal/app/library/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RedisClientTestSuite тестовый suite для кеша объявлений
type RedisClientTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	client    *RedisClient
}

func TestRedisClientSuite(t *testing.T) {
	suite.Run(t, new(RedisClientTestSuite))
}

func (s *RedisClientTestSuite) SetupSuite() {
	var err error
	s.miniRedis, err = miniredis.Run()
	require.NoError(s.T(), err)

	s.client, err = NewRedisClient(s.miniRedis.Addr(), "", 0, 5*time.Minute)
	require.NoError(s.T(), err)
}

func (s *RedisClientTestSuite) SetupTest() {
	s.miniRedis.FlushAll()
}

func (s *RedisClientTestSuite) TearDownSuite() {
	s.client.Close()
	s.miniRedis.Close()
}

func (s *RedisClientTestSuite) TestGetAnnouncements_Miss() {
	ctx := context.Background()

	result, err := s.client.GetAnnouncements(ctx)

	s.NoError(err)
	s.Nil(result)
}

func (s *RedisClientTestSuite) TestSetAndGetAnnouncements() {
	ctx := context.Background()

	announcements := []entity.Announcement{
		{ID: primitive.NewObjectID(), Title: "Новые поступления", Message: "Раздел Science пополнен"},
		{ID: primitive.NewObjectID(), Title: "График работы", Message: "В субботу до 15:00"},
	}

	err := s.client.SetAnnouncements(ctx, announcements)
	s.NoError(err)

	result, err := s.client.GetAnnouncements(ctx)
	s.NoError(err)
	s.Len(result, 2)
	s.Equal("Новые поступления", result[0].Title)
}

func (s *RedisClientTestSuite) TestInvalidateAnnouncements() {
	ctx := context.Background()

	announcements := []entity.Announcement{
		{ID: primitive.NewObjectID(), Title: "Объявление"},
	}
	s.NoError(s.client.SetAnnouncements(ctx, announcements))

	err := s.client.InvalidateAnnouncements(ctx)
	s.NoError(err)

	result, err := s.client.GetAnnouncements(ctx)
	s.NoError(err)
	s.Nil(result)
}

func (s *RedisClientTestSuite) TestTTL_Expiration() {
	ctx := context.Background()

	announcements := []entity.Announcement{
		{ID: primitive.NewObjectID(), Title: "Временное"},
	}
	s.NoError(s.client.SetAnnouncements(ctx, announcements))

	// miniredis поддерживает FastForward для проверки истечения TTL
	s.miniRedis.FastForward(6 * time.Minute)

	result, err := s.client.GetAnnouncements(ctx)
	s.NoError(err)
	s.Nil(result)
}
