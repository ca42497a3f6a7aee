package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"skillspace-backend/internal/repo"
)

const stateKeyPrefix = "vk_oauth_state:"

// State хранит одноразовые OAuth state в Redis. Нужен при развёртывании
// в несколько инстансов, чтобы state, выданный одним инстансом,
// можно было погасить на любом другом.
type State struct {
	client *goredis.Client
}

func NewState(client *goredis.Client) *State {
	return &State{
		client: client,
	}
}

func (s *State) Add(ctx context.Context, state string, ttl time.Duration) error {
	return s.client.Set(ctx, stateKeyPrefix+state, 1, ttl).Err()
}

func (s *State) Consume(ctx context.Context, state string) error {
	// GETDEL атомарен: проверка и удаление происходят одной командой
	err := s.client.GetDel(ctx, stateKeyPrefix+state).Err()
	if errors.Is(err, goredis.Nil) {
		return repo.ErrStateNotFound
	}
	return err
}
