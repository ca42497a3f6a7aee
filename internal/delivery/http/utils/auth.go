package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type Auth interface {
	CheckAuth(tokenString string) (int, error)
	CheckAuthFromContext(c echo.Context) (int, error)
	CreateToken(userID int, email string) (string, error)
}

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
)

type jwtLoginClaims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type AuthManager struct {
	jwtSecretKey  []byte
	tokenLifetime time.Duration
}

func NewAuthManager(jwtSecretKey []byte, tokenLifetime time.Duration) *AuthManager {
	return &AuthManager{
		jwtSecretKey:  jwtSecretKey,
		tokenLifetime: tokenLifetime,
	}
}

// CheckAuth проверяет токен и возвращает ID пользователя, если токен валиден.
// Если токен невалиден или истёк, то возвращается ErrUnauthorized.
func (a *AuthManager) CheckAuth(tokenString string) (int, error) {
	claims := jwtLoginClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return a.jwtSecretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return -1, ErrUnauthorized
	}
	if !token.Valid {
		return -1, ErrUnauthorized
	}
	return claims.UserID, nil
}

// CheckAuthFromContext достает токен из куки session либо из заголовка
// Authorization и проверяет его
func (a *AuthManager) CheckAuthFromContext(c echo.Context) (int, error) {
	if cookie, err := c.Cookie("session"); err == nil {
		return a.CheckAuth(cookie.Value)
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return a.CheckAuth(token)
	}
	return -1, ErrUnauthorized
}

// CreateToken создает токен для пользователя
func (a *AuthManager) CreateToken(userID int, email string) (string, error) {
	claims := jwtLoginClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.tokenLifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecretKey)
}
