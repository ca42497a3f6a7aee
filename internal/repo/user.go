package repo

import (
	"errors"

	"skillspace-backend/internal/entity"
)

type User interface {
	// AddUser добавляет нового пользователя и возвращает его ID
	AddUser(user *entity.User) (int, error)
	// GetUser возвращает пользователя по его ID
	GetUser(userID int) (*entity.User, error)
	// GetUserByEmail возвращает пользователя по его email
	GetUserByEmail(email string) (*entity.User, error)
	// GetUserByVkID возвращает пользователя по его VK ID
	GetUserByVkID(vkID int) (*entity.User, error)
	// UpdateVKInfo обновляет данные профиля, полученные от ВКонтакте
	UpdateVKInfo(userID int, info *entity.VKUserInfo) error
	// LinkVK привязывает аккаунт ВКонтакте к существующему пользователю
	LinkVK(userID, vkID int, avatar string) error
	// UnlinkVK отвязывает аккаунт ВКонтакте от пользователя
	UnlinkVK(userID int) error
	// UpdateProfilePhoto обновляет ссылку на фото профиля (пустая строка удаляет фото)
	UpdateProfilePhoto(userID int, photoURL string) error
	// GetUsers возвращает страницу пользователей в порядке их создания
	GetUsers(offset, limit int) ([]entity.User, error)
	// UpdateProfile обновляет никнейм и email пользователя
	UpdateProfile(userID int, nickname, email string) error
	// UpdatePassword обновляет хеш пароля пользователя
	UpdatePassword(userID int, passwordHash string) error
	// DeleteUser удаляет пользователя
	DeleteUser(userID int) error
}

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already exists")
	ErrInvalidPassword = errors.New("invalid password")
)
