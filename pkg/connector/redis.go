package connector

import (
	"context"

	"github.com/redis/go-redis/v9"
)

func GetRedisConnector(addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
