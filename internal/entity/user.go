package entity

import "time"

type User struct {
	ID           int       `json:"id" db:"id"`
	Nickname     string    `json:"nickname" db:"nickname"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	ProfilePhoto string    `json:"profile_photo" db:"profile_photo"`
	VkID         int       `json:"vk_id" db:"vk_id"`
	VkAvatar     string    `json:"vk_avatar" db:"vk_avatar"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type UserProfile struct {
	ID           int    `json:"id"`
	Nickname     string `json:"nickname"`
	Email        string `json:"email"`
	ProfilePhoto string `json:"profile_photo,omitempty"`
	VkID         int    `json:"vk_id,omitempty"`
	VkAvatar     string `json:"vk_avatar,omitempty"`
}

type RegisterRequest struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest — частичное обновление профиля: nil-поля не трогаются
type UpdateProfileRequest struct {
	Nickname *string `json:"nickname"`
	Email    *string `json:"email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
