package memory

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"skillspace-backend/internal/repo"
)

// State хранит одноразовые OAuth state в памяти процесса.
// Подходит только для развёртывания в один инстанс: при нескольких
// инстансах нужно использовать redis-реализацию.
type State struct {
	cache *ttlcache.Cache[string, time.Time]
}

func NewState() *State {
	cache := ttlcache.New(
		ttlcache.WithDisableTouchOnHit[string, time.Time](),
	)
	go cache.Start()

	return &State{
		cache: cache,
	}
}

func (s *State) Add(_ context.Context, state string, ttl time.Duration) error {
	s.cache.Set(state, time.Now(), ttl)
	return nil
}

func (s *State) Consume(_ context.Context, state string) error {
	// GetAndDelete атомарен, поэтому два конкурентных Consume с одним
	// state не могут оба завершиться успехом
	item, ok := s.cache.GetAndDelete(state)
	if !ok || item == nil || item.IsExpired() {
		return repo.ErrStateNotFound
	}
	return nil
}

func (s *State) Close() {
	s.cache.Stop()
}
