package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"skillspace-backend/internal/delivery/http/utils"
	"skillspace-backend/internal/entity"
	"skillspace-backend/internal/usecase"
)

type User struct {
	userUseCase   usecase.User
	vkAuthUseCase usecase.VKAuth
	authManager   utils.Auth
	cookieManager utils.Cookie
	tokenLifetime time.Duration
}

func NewUser(
	userUseCase usecase.User,
	vkAuthUseCase usecase.VKAuth,
	authManager utils.Auth,
	cookieManager utils.Cookie,
	tokenLifetime time.Duration,
) *User {
	return &User{
		userUseCase:   userUseCase,
		vkAuthUseCase: vkAuthUseCase,
		authManager:   authManager,
		cookieManager: cookieManager,
		tokenLifetime: tokenLifetime,
	}
}

func (u *User) Configure(server *echo.Group) {
	server.POST("/register", u.Register)
	server.POST("/login", u.Login)
	server.GET("/me", u.Me)
	server.PUT("/me", u.UpdateMe)
	server.DELETE("/me", u.DeleteMe)
	server.POST("/me/change-password", u.ChangePassword)
	server.PUT("/me/profile-photo", u.UploadProfilePhoto)
	server.DELETE("/me/profile-photo", u.DeleteProfilePhoto)
	server.POST("/me/vk-unlink", u.UnlinkVK)
	server.GET("", u.ListUsers)
	server.GET("/", u.ListUsers)
	server.GET("/:user_id", u.GetUserByID)
	server.GET("/auth/vk", u.VKAuthStart)
	server.GET("/auth/vk/url", u.VKAuthURL)
	server.GET("/auth/vk/callback", u.VKAuthCallback)
	server.POST("/auth/vk", u.VKAuthDirect)
}

func (u *User) Register(c echo.Context) error {
	var registerRequest entity.RegisterRequest
	err := utils.ReadJSON(c, &registerRequest)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	user, err := u.userUseCase.Register(&registerRequest)
	switch {
	case errors.Is(err, usecase.ErrEmailAlreadyExists):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "Пользователь с таким email уже существует",
		})
	case errors.Is(err, usecase.ErrInvalidEmail):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Некорректный email",
		})
	case errors.Is(err, usecase.ErrEmptyNickname):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Никнейм не может быть пустым",
		})
	case errors.Is(err, usecase.ErrPasswordTooShort):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Пароль слишком короткий, минимальная длина — 8 символов",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при регистрации пользователя: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return u.respondWithToken(c, user, http.StatusCreated, echo.Map{
		"user_id": user.ID,
	})
}

func (u *User) Login(c echo.Context) error {
	var loginRequest entity.LoginRequest
	err := utils.ReadJSON(c, &loginRequest)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	user, err := u.userUseCase.Login(loginRequest.Email, loginRequest.Password)
	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Неверный email или пароль",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при авторизации пользователя: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return u.respondWithToken(c, user, http.StatusOK, nil)
}

func (u *User) Me(c echo.Context) error {
	userID, ok := u.checkAuth(c)
	if !ok {
		return nil
	}
	profile, err := u.userUseCase.GetUser(userID)
	switch {
	case errors.Is(err, usecase.ErrUserNotExists):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Пользователь не найден",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при получении профиля пользователя: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, profile)
}

func (u *User) UpdateMe(c echo.Context) error {
	userID, ok := u.checkAuth(c)
	if !ok {
		return nil
	}

	var updateRequest entity.UpdateProfileRequest
	if err := utils.ReadJSON(c, &updateRequest); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}

	profile, err := u.userUseCase.UpdateProfile(userID, &updateRequest)
	switch {
	case errors.Is(err, usecase.ErrInvalidEmail):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Некорректный email",
		})
	case errors.Is(err, usecase.ErrEmptyNickname):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Никнейм не может быть пустым",
		})
	case errors.Is(err, usecase.ErrEmailAlreadyExists):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "Пользователь с таким email уже существует",
		})
	case errors.Is(err, usecase.ErrUserNotExists):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Пользователь не найден",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при обновлении профиля: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, profile)
}

func (u *User) ChangePassword(c echo.Context) error {
	userID, ok := u.checkAuth(c)
	if !ok {
		return nil
	}

	var changeRequest entity.ChangePasswordRequest
	if err := utils.ReadJSON(c, &changeRequest); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}

	err := u.userUseCase.ChangePassword(userID, changeRequest.CurrentPassword, changeRequest.NewPassword)
	switch {
	case errors.Is(err, usecase.ErrWrongPassword):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный текущий пароль",
		})
	case errors.Is(err, usecase.ErrPasswordTooShort):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Пароль слишком короткий, минимальная длина — 8 символов",
		})
	case errors.Is(err, usecase.ErrUserNotExists):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Пользователь не найден",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при смене пароля: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Пароль изменён",
	})
}

func (u *User) DeleteMe(c echo.Context) error {
	userID, ok := u.checkAuth(c)
	if !ok {
		return nil
	}
	err := u.userUseCase.DeleteUser(userID)
	switch {
	case errors.Is(err, usecase.ErrUserNotExists):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Пользователь не найден",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при удалении аккаунта: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.NoContent(http.StatusNoContent)
}

func (u *User) ListUsers(c echo.Context) error {
	offset, _ := strconv.Atoi(c.QueryParam("skip"))
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil {
		limit = 100
	}

	profiles, err := u.userUseCase.ListUsers(offset, limit)
	if err != nil {
		c.Logger().Errorf("Ошибка при получении списка пользователей: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, profiles)
}

func (u *User) GetUserByID(c echo.Context) error {
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный идентификатор пользователя",
		})
	}

	profile, err := u.userUseCase.GetUser(userID)
	switch {
	case errors.Is(err, usecase.ErrUserNotExists):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Пользователь не найден",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при получении профиля пользователя: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, profile)
}

func (u *User) UploadProfilePhoto(c echo.Context) error {
	userID, ok := u.checkAuth(c)
	if !ok {
		return nil
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Файл не найден",
		})
	}
	src, err := file.Open()
	if err != nil {
		c.Logger().Errorf("Ошибка чтения файла: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	defer func() { _ = src.Close() }()

	photoURL, err := u.userUseCase.UpdateProfilePhoto(userID, file.Filename, src, file.Size)
	switch {
	case errors.Is(err, usecase.ErrFileTooBig):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Файл слишком большой, максимальный размер — 10 МБ",
		})
	case errors.Is(err, usecase.ErrFileTypeNotAllowed):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Недопустимый тип файла. Допустимы: jpeg, png, gif, webp",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при загрузке фото профиля: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"profile_photo": photoURL,
	})
}

func (u *User) DeleteProfilePhoto(c echo.Context) error {
	userID, ok := u.checkAuth(c)
	if !ok {
		return nil
	}
	err := u.userUseCase.DeleteProfilePhoto(userID)
	switch {
	case errors.Is(err, usecase.ErrNoPhoto):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Фото профиля не установлено",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при удалении фото профиля: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Фото профиля удалено",
	})
}

func (u *User) UnlinkVK(c echo.Context) error {
	userID, ok := u.checkAuth(c)
	if !ok {
		return nil
	}
	err := u.userUseCase.UnlinkVK(userID)
	switch {
	case errors.Is(err, usecase.ErrVKNotLinked):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Аккаунт ВКонтакте не привязан",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при отвязке аккаунта ВКонтакте: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Аккаунт ВКонтакте отвязан",
	})
}

// VKAuthStart начинает вход через ВКонтакте: выдает state и отправляет
// пользователя на страницу авторизации
func (u *User) VKAuthStart(c echo.Context) error {
	payload, err := u.vkAuthUseCase.BeginLogin(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("Ошибка при создании ссылки авторизации ВКонтакте: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.Redirect(http.StatusFound, payload.URL)
}

// VKAuthURL возвращает ссылку авторизации и state как JSON (для SPA)
func (u *User) VKAuthURL(c echo.Context) error {
	payload, err := u.vkAuthUseCase.BeginLogin(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("Ошибка при создании ссылки авторизации ВКонтакте: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, payload)
}

// VKAuthCallback завершает вход: ВКонтакте возвращает сюда code и state
func (u *User) VKAuthCallback(c echo.Context) error {
	var req entity.VKAuthRequest
	if err := utils.ReadQuery(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	return u.completeVKAuth(c, &req)
}

// VKAuthDirect принимает code и state в теле запроса (для мобильных клиентов)
func (u *User) VKAuthDirect(c echo.Context) error {
	var req entity.VKAuthRequest
	if err := utils.ReadJSON(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	return u.completeVKAuth(c, &req)
}

func (u *User) completeVKAuth(c echo.Context, req *entity.VKAuthRequest) error {
	if req.Code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Не передан код авторизации",
		})
	}

	user, isNewUser, err := u.vkAuthUseCase.CompleteLogin(c.Request().Context(), req.Code, req.State)
	switch {
	case errors.Is(err, usecase.ErrInvalidState):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный или истёкший state",
		})
	case errors.Is(err, usecase.ErrUpstreamUnavailable):
		c.Logger().Errorf("ВКонтакте недоступен: %v", err)
		return c.JSON(http.StatusGatewayTimeout, echo.Map{
			"error": "ВКонтакте не отвечает, попробуйте позже",
		})
	case errors.Is(err, usecase.ErrCodeExchange):
		c.Logger().Errorf("Ошибка обмена кода авторизации: %v", err)
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error": "Не удалось получить токен от ВКонтакте",
		})
	case errors.Is(err, usecase.ErrProfileFetch):
		c.Logger().Errorf("Ошибка получения профиля ВКонтакте: %v", err)
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error": "Не удалось получить данные пользователя от ВКонтакте",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при входе через ВКонтакте: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}

	token, err := u.authManager.CreateToken(user.ID, user.Email)
	if err != nil {
		c.Logger().Errorf("Ошибка при создании токена: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	c.SetCookie(u.cookieManager.SetSessionCookie(token, time.Now().Add(u.tokenLifetime)))
	return c.JSON(http.StatusOK, entity.VKAuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		IsNewUser:   isNewUser,
	})
}

func (u *User) respondWithToken(c echo.Context, user *entity.User, status int, extra echo.Map) error {
	token, err := u.authManager.CreateToken(user.ID, user.Email)
	if err != nil {
		c.Logger().Errorf("Ошибка при создании токена: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	c.SetCookie(u.cookieManager.SetSessionCookie(token, time.Now().Add(u.tokenLifetime)))
	response := echo.Map{
		"access_token": token,
		"token_type":   "bearer",
	}
	for k, v := range extra {
		response[k] = v
	}
	return c.JSON(status, response)
}

// checkAuth возвращает ID пользователя из токена. Если пользователь не
// авторизован, ответ уже записан и обрабатывать запрос дальше не нужно.
func (u *User) checkAuth(c echo.Context) (int, bool) {
	userID, err := u.authManager.CheckAuthFromContext(c)
	switch {
	case errors.Is(err, utils.ErrUnauthorized):
		_ = c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
		return 0, false
	case err != nil:
		c.Logger().Errorf("Ошибка при проверке авторизации пользователя: %v", err)
		_ = c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
		return 0, false
	}
	return userID, true
}
