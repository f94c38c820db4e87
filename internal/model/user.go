package model

import "time"

// User is an account identity. The first name doubles as the login secret;
// only its bcrypt hash is persisted alongside the display value.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	FirstName  string    `gorm:"size:64;not null" json:"first_name"`
	SecretHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
