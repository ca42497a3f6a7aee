package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"skillspace-backend/internal/entity"
	"skillspace-backend/internal/repo"
	"skillspace-backend/internal/usecase"
)

const (
	minPasswordLength = 8
	maxPhotoSize      = 10 << 20 // 10 МБ
)

// allowedPhotoTypes — типы изображений, которые принимаются как фото профиля
var allowedPhotoTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

type User struct {
	userRepo  repo.User
	photoRepo repo.Photo
}

func NewUser(userRepo repo.User, photoRepo repo.Photo) usecase.User {
	return &User{
		userRepo:  userRepo,
		photoRepo: photoRepo,
	}
}

// validateEmail принимает только адрес без display name, как его вводят в форме
func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return usecase.ErrInvalidEmail
	}
	return nil
}

func (u *User) Register(req *entity.RegisterRequest) (*entity.User, error) {
	if strings.TrimSpace(req.Nickname) == "" {
		return nil, usecase.ErrEmptyNickname
	}
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}
	if len(req.Password) < minPasswordLength {
		return nil, usecase.ErrPasswordTooShort
	}

	// Хешируем пароль пользователя
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Nickname:     req.Nickname,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
	}

	userID, err := u.userRepo.AddUser(user)
	if err != nil {
		if errors.Is(err, repo.ErrEmailExists) {
			return nil, usecase.ErrEmailAlreadyExists
		}
		return nil, err
	}
	user.ID = userID
	return user, nil
}

func (u *User) Login(email, password string) (*entity.User, error) {
	user, err := u.userRepo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, usecase.ErrInvalidCredentials
		}
		return nil, err
	}

	// Аккаунт, созданный через VK, не имеет пароля: вход по паролю для него закрыт
	if user.PasswordHash == "" {
		return nil, usecase.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, usecase.ErrInvalidCredentials
	}

	return user, nil
}

func (u *User) GetUser(userID int) (*entity.UserProfile, error) {
	user, err := u.userRepo.GetUser(userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, usecase.ErrUserNotExists
		}
		return nil, err
	}

	return &entity.UserProfile{
		ID:           user.ID,
		Nickname:     user.Nickname,
		Email:        user.Email,
		ProfilePhoto: user.ProfilePhoto,
		VkID:         user.VkID,
		VkAvatar:     user.VkAvatar,
	}, nil
}

func (u *User) ListUsers(offset, limit int) ([]entity.UserProfile, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	users, err := u.userRepo.GetUsers(offset, limit)
	if err != nil {
		return nil, err
	}

	profiles := make([]entity.UserProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, entity.UserProfile{
			ID:           user.ID,
			Nickname:     user.Nickname,
			Email:        user.Email,
			ProfilePhoto: user.ProfilePhoto,
			VkID:         user.VkID,
			VkAvatar:     user.VkAvatar,
		})
	}
	return profiles, nil
}

func (u *User) UpdateProfile(userID int, req *entity.UpdateProfileRequest) (*entity.UserProfile, error) {
	user, err := u.userRepo.GetUser(userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, usecase.ErrUserNotExists
		}
		return nil, err
	}

	nickname := user.Nickname
	if req.Nickname != nil {
		nickname = strings.TrimSpace(*req.Nickname)
		if nickname == "" {
			return nil, usecase.ErrEmptyNickname
		}
	}

	email := user.Email
	if req.Email != nil {
		email = *req.Email
		if err := validateEmail(email); err != nil {
			return nil, err
		}
	}

	if err := u.userRepo.UpdateProfile(userID, nickname, email); err != nil {
		if errors.Is(err, repo.ErrEmailExists) {
			return nil, usecase.ErrEmailAlreadyExists
		}
		return nil, err
	}

	return &entity.UserProfile{
		ID:           user.ID,
		Nickname:     nickname,
		Email:        email,
		ProfilePhoto: user.ProfilePhoto,
		VkID:         user.VkID,
		VkAvatar:     user.VkAvatar,
	}, nil
}

func (u *User) ChangePassword(userID int, currentPassword, newPassword string) error {
	user, err := u.userRepo.GetUser(userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return usecase.ErrUserNotExists
		}
		return err
	}

	// У аккаунта, созданного через VK, пароля нет, поэтому текущий не совпадёт
	if user.PasswordHash == "" {
		return usecase.ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return usecase.ErrWrongPassword
	}
	if len(newPassword) < minPasswordLength {
		return usecase.ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return u.userRepo.UpdatePassword(userID, string(hashedPassword))
}

func (u *User) DeleteUser(userID int) error {
	user, err := u.userRepo.GetUser(userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return usecase.ErrUserNotExists
		}
		return err
	}

	if err := u.userRepo.DeleteUser(userID); err != nil {
		return err
	}

	// Файл без владельца, его потеря некритична
	if user.ProfilePhoto != "" {
		_ = u.photoRepo.Delete(context.TODO(), user.ProfilePhoto)
	}
	return nil
}

func (u *User) UpdateProfilePhoto(userID int, filename string, file io.Reader, size int64) (string, error) {
	if size > maxPhotoSize {
		return "", usecase.ErrFileTooBig
	}

	raw, err := io.ReadAll(io.LimitReader(file, maxPhotoSize+1))
	if err != nil {
		return "", err
	}
	if len(raw) > maxPhotoSize {
		return "", usecase.ErrFileTooBig
	}

	mime := mimetype.Detect(raw)
	if _, ok := allowedPhotoTypes[mime.String()]; !ok {
		return "", usecase.ErrFileTypeNotAllowed
	}

	user, err := u.userRepo.GetUser(userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return "", usecase.ErrUserNotExists
		}
		return "", err
	}

	// uuid в имени объекта спасает от коллизий и кириллицы в исходном имени файла
	extension := mime.Extension()
	if extension == "" {
		extension = path.Ext(filename)
	}
	objectName := fmt.Sprintf("profiles/%d_%s%s", userID, uuid.New().String(), extension)

	ctx := context.TODO()
	photoURL, err := u.photoRepo.Save(ctx, objectName, mime.String(), bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", err
	}

	if err := u.userRepo.UpdateProfilePhoto(userID, photoURL); err != nil {
		return "", err
	}

	// Старый файл больше не нужен, его потеря некритична
	if user.ProfilePhoto != "" {
		_ = u.photoRepo.Delete(ctx, user.ProfilePhoto)
	}

	return photoURL, nil
}

func (u *User) DeleteProfilePhoto(userID int) error {
	user, err := u.userRepo.GetUser(userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return usecase.ErrUserNotExists
		}
		return err
	}
	if user.ProfilePhoto == "" {
		return usecase.ErrNoPhoto
	}

	if err := u.photoRepo.Delete(context.TODO(), user.ProfilePhoto); err != nil {
		return err
	}
	return u.userRepo.UpdateProfilePhoto(userID, "")
}

func (u *User) UnlinkVK(userID int) error {
	user, err := u.userRepo.GetUser(userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return usecase.ErrUserNotExists
		}
		return err
	}
	if user.VkID == 0 {
		return usecase.ErrVKNotLinked
	}
	return u.userRepo.UnlinkVK(userID)
}
