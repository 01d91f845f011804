package redis

import (
	"github.com/redis/go-redis/v9"

	"github.com/storefront-labs/checkout-api/pkg/global"
)

var client *redis.Client

func InitRedis() {
	client = redis.NewClient(&redis.Options{
		Addr:     global.GetEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
		Password: global.GetEnvOrDefault("REDIS_PASSWORD", ""),
		DB:       0,
		Protocol: 2,
	})
}

func Client() *redis.Client {
	return client
}
