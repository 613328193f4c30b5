package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/socialmindhq/socialmind/internal/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, bool, error)
	GetByEmail(ctx context.Context, email string) (*models.User, bool, error)
	Create(ctx context.Context, tx *sql.Tx, user *models.User) (int64, error)
	Update(ctx context.Context, user *models.User) error
	SetOtp(ctx context.Context, userID int64, code string, expiresAt time.Time) error
	ClearOtp(ctx context.Context, userID int64) error
	IncrementOtpAttempts(ctx context.Context, userID int64) (int, error)
	LockOtp(ctx context.Context, userID int64, until time.Time) error
	Remove(ctx context.Context, id int64) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	var user models.User
	query := "SELECT id, google_id, email, name, profile_picture FROM users WHERE id = $1"
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.GoogleID, &user.Email, &user.Name, &user.ProfilePicture)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &user, true, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	var user models.User
	query := `
		SELECT id, google_id, email, name, password_hash, profile_picture,
			otp_code, otp_expires_at, otp_attempts, otp_locked_until
		FROM users WHERE email = $1
	`
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.GoogleID, &user.Email, &user.Name, &user.PasswordHash, &user.ProfilePicture,
		&user.OtpCode, &user.OtpExpiresAt, &user.OtpAttempts, &user.OtpLockedUntil,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &user, true, nil
}

func (r *userRepository) Create(ctx context.Context, tx *sql.Tx, user *models.User) (int64, error) {
	query := "INSERT INTO users (google_id, email, name, password_hash, profile_picture) VALUES ($1, $2, $3, $4, $5) RETURNING id"

	var err error
	var id int64

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, user.GoogleID, user.Email, user.Name, user.PasswordHash, user.ProfilePicture).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, user.GoogleID, user.Email, user.Name, user.PasswordHash, user.ProfilePicture).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET google_id = $1,
			name = $2,
			profile_picture = $3,
			updated_at = $4
		WHERE id = $5
	`
	_, err := r.db.ExecContext(ctx, query, user.GoogleID, user.Name, user.ProfilePicture, time.Now(), user.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *userRepository) SetOtp(ctx context.Context, userID int64, code string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET otp_code = $1,
			otp_expires_at = $2,
			otp_attempts = 0,
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, code, expiresAt, time.Now(), userID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *userRepository) ClearOtp(ctx context.Context, userID int64) error {
	query := `
		UPDATE users
		SET otp_code = NULL,
			otp_expires_at = NULL,
			otp_attempts = 0,
			otp_locked_until = NULL,
			updated_at = $1
		WHERE id = $2
	`
	_, err := r.db.ExecContext(ctx, query, time.Now(), userID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *userRepository) IncrementOtpAttempts(ctx context.Context, userID int64) (int, error) {
	query := `
		UPDATE users
		SET otp_attempts = otp_attempts + 1,
			updated_at = $1
		WHERE id = $2
		RETURNING otp_attempts
	`
	var attempts int
	err := r.db.QueryRowContext(ctx, query, time.Now(), userID).Scan(&attempts)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return attempts, nil
}

func (r *userRepository) LockOtp(ctx context.Context, userID int64, until time.Time) error {
	query := `
		UPDATE users
		SET otp_locked_until = $1,
			otp_code = NULL,
			otp_expires_at = NULL,
			updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, until, time.Now(), userID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *userRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
