package models

import "time"

// User is an administrator of the site. PasswordHash is a bcrypt hash and is
// never serialized.
type User struct {
	ID           int64     `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" db:"username" gorm:"size:255;not null;uniqueIndex:idx_users_username"`
	PasswordHash string    `json:"-" db:"password" gorm:"column:password;size:255;not null"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at" gorm:"not null;autoCreateTime"`
}

// UserInput carries the plaintext password until it is hashed by the auth
// package; storage only ever sees NewUser.
type UserInput struct {
	Username string `json:"username" validate:"required,min=3,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72" notrim:"true"`
}

// LoginInput checks presence only, so a wrong password of any length
// fails as bad credentials.
type LoginInput struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=72" notrim:"true"`
}

// NewUser is what storage persists.
type NewUser struct {
	Username     string
	PasswordHash string
}
