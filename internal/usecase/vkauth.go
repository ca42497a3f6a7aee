package usecase

import (
	"context"
	"errors"

	"skillspace-backend/internal/entity"
)

// VKAuth реализует двухшаговый вход через ВКонтакте: выдача редиректа
// со state и завершение обмена на обратном вызове.
type VKAuth interface {
	// BeginLogin выдаёт новый state и возвращает URL авторизации ВКонтакте
	BeginLogin(ctx context.Context) (*entity.VKAuthURLResponse, error)
	// CompleteLogin гасит state, обменивает код на токен, получает профиль
	// и создаёт либо обновляет локального пользователя
	CompleteLogin(ctx context.Context, code, state string) (user *entity.User, isNewUser bool, err error)
}

// VKProvider описывает исходящие вызовы к ВКонтакте
type VKProvider interface {
	// AuthURL возвращает URL авторизации с заданным state
	AuthURL(state string) string
	// Exchange обменивает код авторизации на токен доступа
	Exchange(ctx context.Context, code string) (*entity.VKToken, error)
	// GetUserInfo получает профиль пользователя по токену доступа
	GetUserInfo(ctx context.Context, accessToken string, userID int) (*entity.VKUserInfo, error)
}

var (
	// ErrInvalidState: state отсутствует, не выдавался, истёк или уже был использован
	ErrInvalidState = errors.New("invalid or expired state")
	// ErrCodeExchange: обмен кода авторизации на токен не удался
	ErrCodeExchange = errors.New("vk code exchange failed")
	// ErrProfileFetch: не удалось получить профиль пользователя
	ErrProfileFetch = errors.New("vk profile fetch failed")
	// ErrUpstreamUnavailable: ВКонтакте не ответил вовремя
	ErrUpstreamUnavailable = errors.New("vk is unavailable")
)
