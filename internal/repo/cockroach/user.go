package cockroach

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"skillspace-backend/internal/entity"
	"skillspace-backend/internal/repo"
)

type User struct {
	db *sqlx.DB
}

func NewUser(db *sqlx.DB) repo.User {
	return &User{
		db: db,
	}
}

const userColumns = `id, nickname, email, password_hash, profile_photo, vk_id, vk_avatar, created_at`

func (u *User) AddUser(user *entity.User) (int, error) {
	var userID int

	// Проверяем, существует ли пользователь с таким email
	if user.Email != "" {
		var exists bool
		query := `SELECT EXISTS(SELECT 1 FROM "user" WHERE email = $1)`
		err := u.db.QueryRow(query, user.Email).Scan(&exists)
		if err != nil {
			return 0, err
		}

		if exists {
			return 0, repo.ErrEmailExists
		}
	}

	query := `INSERT INTO "user" (nickname, email, password_hash, profile_photo, vk_id, vk_avatar)
			  VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := u.db.QueryRow(query, user.Nickname, user.Email, user.PasswordHash, user.ProfilePhoto, user.VkID, user.VkAvatar).Scan(&userID)
	if err != nil {
		return 0, err
	}
	return userID, nil
}

func (u *User) GetUser(userID int) (*entity.User, error) {
	var user entity.User
	query := `SELECT ` + userColumns + ` FROM "user" WHERE id = $1`
	err := u.db.Get(&user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *User) GetUserByEmail(email string) (*entity.User, error) {
	var user entity.User
	query := `SELECT ` + userColumns + ` FROM "user" WHERE email = $1`
	err := u.db.Get(&user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *User) GetUserByVkID(vkID int) (*entity.User, error) {
	var user entity.User
	query := `SELECT ` + userColumns + ` FROM "user" WHERE vk_id = $1`
	err := u.db.Get(&user, query, vkID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *User) UpdateVKInfo(userID int, info *entity.VKUserInfo) error {
	query := `UPDATE "user" SET nickname = $1, vk_avatar = $2 WHERE id = $3`
	result, err := u.db.Exec(query, info.FirstName+" "+info.LastName, info.Photo200, userID)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func (u *User) LinkVK(userID, vkID int, avatar string) error {
	query := `UPDATE "user" SET vk_id = $1, vk_avatar = $2 WHERE id = $3`
	result, err := u.db.Exec(query, vkID, avatar, userID)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func (u *User) UnlinkVK(userID int) error {
	query := `UPDATE "user" SET vk_id = 0, vk_avatar = '' WHERE id = $1`
	result, err := u.db.Exec(query, userID)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func (u *User) UpdateProfilePhoto(userID int, photoURL string) error {
	query := `UPDATE "user" SET profile_photo = $1 WHERE id = $2`
	result, err := u.db.Exec(query, photoURL, userID)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func (u *User) GetUsers(offset, limit int) ([]entity.User, error) {
	users := []entity.User{}
	query := `SELECT ` + userColumns + ` FROM "user" ORDER BY id OFFSET $1 LIMIT $2`
	if err := u.db.Select(&users, query, offset, limit); err != nil {
		return nil, err
	}
	return users, nil
}

func (u *User) UpdateProfile(userID int, nickname, email string) error {
	// email должен остаться уникальным среди остальных пользователей
	if email != "" {
		var exists bool
		query := `SELECT EXISTS(SELECT 1 FROM "user" WHERE email = $1 AND id <> $2)`
		if err := u.db.QueryRow(query, email, userID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return repo.ErrEmailExists
		}
	}

	query := `UPDATE "user" SET nickname = $1, email = $2 WHERE id = $3`
	result, err := u.db.Exec(query, nickname, email, userID)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func (u *User) UpdatePassword(userID int, passwordHash string) error {
	query := `UPDATE "user" SET password_hash = $1 WHERE id = $2`
	result, err := u.db.Exec(query, passwordHash, userID)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func (u *User) DeleteUser(userID int) error {
	query := `DELETE FROM "user" WHERE id = $1`
	result, err := u.db.Exec(query, userID)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repo.ErrUserNotFound
	}
	return nil
}
