package models

import (
	"database/sql"
	"time"
)

type User struct {
	ID             int64          `db:"id" json:"id"`
	GoogleID       string         `db:"google_id" json:"-"`
	Email          string         `db:"email" json:"email"`
	Name           string         `db:"name" json:"name"`
	PasswordHash   string         `db:"password_hash" json:"-"`
	ProfilePicture string         `db:"profile_picture" json:"profile_picture"`
	OtpCode        sql.NullString `db:"otp_code" json:"-"`
	OtpExpiresAt   sql.NullTime   `db:"otp_expires_at" json:"-"`
	OtpAttempts    int            `db:"otp_attempts" json:"-"`
	OtpLockedUntil sql.NullTime   `db:"otp_locked_until" json:"-"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}
