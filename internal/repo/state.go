package repo

import (
	"context"
	"errors"
	"time"
)

// State хранит одноразовые state-токены OAuth на время между редиректом
// на провайдера и обратным вызовом. Consume обязан быть атомарным:
// два конкурентных вызова с одним и тем же значением не могут оба завершиться успехом.
type State interface {
	// Add сохраняет выданный state с ограниченным временем жизни
	Add(ctx context.Context, state string, ttl time.Duration) error
	// Consume проверяет и одновременно удаляет state.
	// Возвращает ErrStateNotFound, если state не выдавался, истёк или уже был использован.
	Consume(ctx context.Context, state string) error
}

var ErrStateNotFound = errors.New("state not found")
