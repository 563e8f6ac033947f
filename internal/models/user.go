package models

import (
	"time"
)

// User mirrors the chat_users table. Email uniqueness is enforced by an
// application-level check at signup, not by a schema constraint.
type User struct {
	ID              uint      `json:"user_id" gorm:"primaryKey;column:user_id"`
	Email           string    `json:"email" gorm:"not null"`
	Username        string    `json:"username" gorm:"not null"`
	Password        string    `json:"-" gorm:"not null"`
	AccessToken     string    `json:"access_token" gorm:"not null"`
	TokenExpireDate time.Time `json:"token_expire_date"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (User) TableName() string {
	return "chat_users"
}

// UserResponse is the public profile returned by signup/login.
type UserResponse struct {
	UserID      uint   `json:"user_id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	AccessToken string `json:"access_token"`
}

func (u *User) Response() UserResponse {
	return UserResponse{
		UserID:      u.ID,
		Email:       u.Email,
		Username:    u.Username,
		AccessToken: u.AccessToken,
	}
}
