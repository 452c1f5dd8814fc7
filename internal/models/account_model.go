package models

import (
	"database/sql"
	"time"
)

type Account struct {
	ID             int64          `db:"id" json:"id"`
	Name           string         `db:"name" json:"name"`
	IGUserID       string         `db:"ig_user_id" json:"ig_user_id"`
	AccessToken    string         `db:"access_token" json:"-"`
	RefreshToken   sql.NullString `db:"refresh_token" json:"-"`
	TokenExpiresAt sql.NullTime   `db:"token_expires_at" json:"token_expires_at"`
	IsActive       bool           `db:"is_active" json:"is_active"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}
