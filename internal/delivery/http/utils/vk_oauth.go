package utils

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/SevereCloud/vksdk/v3/api"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/vk"

	"skillspace-backend/internal/entity"
)

// VKOAuth представляет конфигурацию OAuth для работы с ВКонтакте
type VKOAuth struct {
	config     *oauth2.Config
	apiVersion string
	httpClient *http.Client
}

// NewVKOAuth создает новый экземпляр VKOAuth. timeout ограничивает все
// исходящие запросы к ВКонтакте: и обмен кода, и получение профиля.
func NewVKOAuth(clientID, clientSecret, redirectURL, apiVersion string, timeout time.Duration) *VKOAuth {
	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     vk.Endpoint,
		Scopes:       []string{"email"},
	}

	return &VKOAuth{
		config:     config,
		apiVersion: apiVersion,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// AuthURL возвращает URL для авторизации через VK с заданным state
func (v *VKOAuth) AuthURL(state string) string {
	return v.config.AuthCodeURL(state, oauth2.SetAuthURLParam("v", v.apiVersion))
}

// Exchange обменивает код авторизации на токен доступа.
// ВКонтакте кладёт user_id и email в дополнительные поля ответа.
func (v *VKOAuth) Exchange(ctx context.Context, code string) (*entity.VKToken, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, v.httpClient)
	token, err := v.config.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	userID, ok := token.Extra("user_id").(float64)
	if !ok {
		return nil, errors.New("vk token response has no user_id")
	}
	email, _ := token.Extra("email").(string)

	return &entity.VKToken{
		AccessToken: token.AccessToken,
		UserID:      int(userID),
		Email:       email,
	}, nil
}

// GetUserInfo получает профиль пользователя через users.get
func (v *VKOAuth) GetUserInfo(ctx context.Context, accessToken string, userID int) (*entity.VKUserInfo, error) {
	vkAPI := api.NewVK(accessToken)
	vkAPI.Client = v.httpClient
	vkAPI.Version = v.apiVersion

	params := api.Params{
		"user_ids": userID,
		"fields":   "photo_200",
	}
	users, err := vkAPI.UsersGet(params.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, errors.New("vk users.get returned empty response")
	}

	return &entity.VKUserInfo{
		ID:        users[0].ID,
		FirstName: users[0].FirstName,
		LastName:  users[0].LastName,
		Photo200:  users[0].Photo200,
	}, nil
}
