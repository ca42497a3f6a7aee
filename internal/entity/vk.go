package entity

// VKToken содержит результат обмена кода авторизации на токен доступа.
// ВКонтакте кладёт user_id и email прямо в ответ на обмен кода.
type VKToken struct {
	AccessToken string
	UserID      int
	Email       string
}

// VKUserInfo содержит профиль пользователя, полученный через users.get
type VKUserInfo struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Photo200  string `json:"photo_200,omitempty"`
}

type VKAuthRequest struct {
	Code  string `json:"code" query:"code"`
	State string `json:"state" query:"state"`
}

type VKAuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	IsNewUser   bool   `json:"is_new_user"`
}

// VKAuthURLResponse возвращается SPA-клиентам, которые строят редирект сами
type VKAuthURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}
