package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net"
	"strings"
	"time"

	"skillspace-backend/internal/entity"
	"skillspace-backend/internal/repo"
	"skillspace-backend/internal/usecase"
)

const stateLength = 24

type VKAuth struct {
	stateRepo repo.State
	userRepo  repo.User
	vk        usecase.VKProvider
	stateTTL  time.Duration
}

func NewVKAuth(stateRepo repo.State, userRepo repo.User, vk usecase.VKProvider, stateTTL time.Duration) usecase.VKAuth {
	return &VKAuth{
		stateRepo: stateRepo,
		userRepo:  userRepo,
		vk:        vk,
		stateTTL:  stateTTL,
	}
}

func (v *VKAuth) BeginLogin(ctx context.Context) (*entity.VKAuthURLResponse, error) {
	state, err := generateState()
	if err != nil {
		return nil, err
	}
	if err := v.stateRepo.Add(ctx, state, v.stateTTL); err != nil {
		return nil, err
	}
	return &entity.VKAuthURLResponse{
		URL:   v.vk.AuthURL(state),
		State: state,
	}, nil
}

func (v *VKAuth) CompleteLogin(ctx context.Context, code, state string) (*entity.User, bool, error) {
	if state == "" {
		return nil, false, usecase.ErrInvalidState
	}
	// Гасим state до любых внешних вызовов: повторный callback с тем же
	// значением должен получить отказ, даже если первый ещё не завершился
	if err := v.stateRepo.Consume(ctx, state); err != nil {
		if errors.Is(err, repo.ErrStateNotFound) {
			return nil, false, usecase.ErrInvalidState
		}
		return nil, false, err
	}

	token, err := v.vk.Exchange(ctx, code)
	if err != nil {
		return nil, false, classifyUpstream(usecase.ErrCodeExchange, err)
	}

	info, err := v.vk.GetUserInfo(ctx, token.AccessToken, token.UserID)
	if err != nil {
		return nil, false, classifyUpstream(usecase.ErrProfileFetch, err)
	}
	// email надёжнее брать из ответа на обмен кода: users.get его не отдаёт
	if token.Email != "" {
		info.Email = token.Email
	}

	return v.upsertUser(info)
}

// upsertUser находит пользователя по VK ID, либо привязывает VK к
// пользователю с таким же email, либо создает нового
func (v *VKAuth) upsertUser(info *entity.VKUserInfo) (*entity.User, bool, error) {
	user, err := v.userRepo.GetUserByVkID(info.ID)
	switch {
	case err == nil:
		if err := v.userRepo.UpdateVKInfo(user.ID, info); err != nil {
			return nil, false, err
		}
		user.VkAvatar = info.Photo200
		return user, false, nil
	case !errors.Is(err, repo.ErrUserNotFound):
		return nil, false, err
	}

	if info.Email != "" {
		user, err = v.userRepo.GetUserByEmail(info.Email)
		switch {
		case err == nil:
			if err := v.userRepo.LinkVK(user.ID, info.ID, info.Photo200); err != nil {
				return nil, false, err
			}
			user.VkID = info.ID
			user.VkAvatar = info.Photo200
			return user, false, nil
		case !errors.Is(err, repo.ErrUserNotFound):
			return nil, false, err
		}
	}

	newUser := &entity.User{
		Nickname: strings.TrimSpace(info.FirstName + " " + info.LastName),
		Email:    info.Email,
		VkID:     info.ID,
		VkAvatar: info.Photo200,
	}
	userID, err := v.userRepo.AddUser(newUser)
	if err != nil {
		return nil, false, err
	}
	newUser.ID = userID
	return newUser, true, nil
}

func generateState() (string, error) {
	raw := make([]byte, stateLength)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// classifyUpstream отличает таймаут или сетевой сбой от содержательного
// отказа ВКонтакте
func classifyUpstream(kind error, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(usecase.ErrUpstreamUnavailable, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errors.Join(usecase.ErrUpstreamUnavailable, err)
	}
	return errors.Join(kind, err)
}
