package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mperera91/hotelbooking/config"
	"github.com/mperera91/hotelbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client   *redis.Client
	roomsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, roomsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:   redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		roomsTTL: roomsTTL,
	}
}

func (c *RedisCache) GetRooms(ctx context.Context) ([]domain.Room, error) {
	data, err := c.client.Get(ctx, roomsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var rooms []domain.Room
	if err := json.Unmarshal(data, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *RedisCache) SetRooms(ctx context.Context, rooms []domain.Room) error {
	payload, err := json.Marshal(rooms)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, roomsKey(), payload, c.roomsTTL).Err()
}

// AcquireHold places a short-lived lock on a room/date-range combination so
// two guests filling the form at the same time cannot both take the last
// unit for the same nights.
func (c *RedisCache) AcquireHold(ctx context.Context, roomID int64, checkIn, checkOut time.Time, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, holdKey(roomID, checkIn, checkOut), "held", ttl).Result()
}

func (c *RedisCache) ReleaseHold(ctx context.Context, roomID int64, checkIn, checkOut time.Time) error {
	return c.client.Del(ctx, holdKey(roomID, checkIn, checkOut)).Err()
}

func roomsKey() string {
	return "cache:rooms"
}

func holdKey(roomID int64, checkIn, checkOut time.Time) string {
	return fmt.Sprintf("hold:room:%d:%s:%s", roomID, checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02"))
}
