package usecase

import (
	"errors"
	"io"

	"skillspace-backend/internal/entity"
)

type User interface {
	// Register регистрирует нового пользователя и возвращает его
	Register(req *entity.RegisterRequest) (*entity.User, error)
	// Login авторизует пользователя по email и паролю
	Login(email, password string) (*entity.User, error)
	// GetUser возвращает профиль пользователя по его идентификатору
	GetUser(userID int) (*entity.UserProfile, error)
	// ListUsers возвращает страницу профилей пользователей
	ListUsers(offset, limit int) ([]entity.UserProfile, error)
	// UpdateProfile обновляет переданные поля профиля и возвращает его
	UpdateProfile(userID int, req *entity.UpdateProfileRequest) (*entity.UserProfile, error)
	// ChangePassword меняет пароль после проверки текущего
	ChangePassword(userID int, currentPassword, newPassword string) error
	// DeleteUser удаляет аккаунт пользователя вместе с фото профиля
	DeleteUser(userID int) error
	// UpdateProfilePhoto загружает новое фото профиля и возвращает его URL
	UpdateProfilePhoto(userID int, filename string, file io.Reader, size int64) (string, error)
	// DeleteProfilePhoto удаляет фото профиля
	DeleteProfilePhoto(userID int) error
	// UnlinkVK отвязывает аккаунт ВКонтакте от пользователя
	UnlinkVK(userID int) error
}

var (
	// Ошибки валидации
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrEmptyNickname      = errors.New("nickname must not be empty")
	ErrPasswordTooShort   = errors.New("password too short, minimum length is 8 characters")
	ErrFileTooBig         = errors.New("file exceeds maximum allowed size")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")

	// Ошибки аутентификации и авторизации
	ErrUserNotExists      = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")

	// Ошибки состояния профиля
	ErrVKNotLinked = errors.New("vk account is not linked")
	ErrNoPhoto     = errors.New("no profile photo to delete")
)
