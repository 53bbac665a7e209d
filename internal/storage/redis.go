package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Rdb backs the quick-match queues. Nil when the server runs without
// redis (the matchmaker falls back to its in-memory repo).
var Rdb *redis.Client

var Ctx = context.Background()

func InitRedis(addr, password string, db int) error {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(Ctx, 5*time.Second)
	defer cancel()
	return Rdb.Ping(ctx).Err()
}
