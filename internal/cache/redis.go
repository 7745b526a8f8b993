package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/hotelbooking/config"
	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache keeps each hotel's room catalogue as one JSON value. Occupancy
// is never cached.
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

// GetHotelRooms returns nil, nil on a miss.
func (c *RedisCache) GetHotelRooms(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	data, err := c.client.Get(ctx, hotelRoomsKey(hotelID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
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

func (c *RedisCache) SetHotelRooms(ctx context.Context, hotelID int64, rooms []domain.Room) error {
	payload, err := json.Marshal(rooms)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, hotelRoomsKey(hotelID), payload, c.roomsTTL).Err()
}

func (c *RedisCache) CheckConnection(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func hotelRoomsKey(hotelID int64) string {
	return fmt.Sprintf("cache:hotel:%d:rooms", hotelID)
}
