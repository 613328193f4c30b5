package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/socialmindhq/socialmind/internal/mailer"
	"github.com/socialmindhq/socialmind/internal/models"
	"github.com/socialmindhq/socialmind/internal/repository"
	"github.com/socialmindhq/socialmind/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

const (
	otpTTL         = 5 * time.Minute
	otpMaxAttempts = 5
	otpLockout     = 15 * time.Minute
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidOtp         = errors.New("invalid or expired code")
	ErrAccountLocked      = errors.New("too many attempts, try again later")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService interface {
	Signup(ctx context.Context, email, password, name string) (*models.User, error)
	Signin(ctx context.Context, email, password string) error
	VerifyOtp(ctx context.Context, email, otp string) (*models.User, error)
	GoogleAuth(ctx context.Context, googleID, email, name, picture string) (*models.User, error)
	GetUserInfo(ctx context.Context, userID int64) (*models.User, error)
}

type authService struct {
	u repository.UserRepository
	m mailer.Mailer
}

func NewAuthService(u repository.UserRepository, m mailer.Mailer) AuthService {
	return &authService{
		u: u,
		m: m,
	}
}

func (s *authService) Signup(ctx context.Context, email, password, name string) (*models.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errors.New("invalid email address")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	_, exists, err := s.u.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		slog.Info("signup rejected, email taken")
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}

	id, err := s.u.Create(ctx, nil, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	// Welcome mail is best-effort.
	if err := s.m.SendWelcome(ctx, email, name); err != nil {
		slog.Info(fmt.Sprintf("welcome mail failed: %v", err))
	}

	return user, nil
}

// Signin verifies credentials and moves the attempt to otp-pending: a fresh
// 6-digit code is stored on the user row and mailed. No token is issued here.
func (s *authService) Signin(ctx context.Context, email, password string) error {
	user, exists, err := s.u.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !exists || user.PasswordHash == "" {
		return ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Info("password mismatch")
		return ErrInvalidCredentials
	}

	if user.OtpLockedUntil.Valid && time.Now().Before(user.OtpLockedUntil.Time) {
		return ErrAccountLocked
	}

	code, err := utils.GenerateOtpCode()
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	if err := s.u.SetOtp(ctx, user.ID, code, time.Now().Add(otpTTL)); err != nil {
		return err
	}

	if err := s.m.SendOtp(ctx, email, code); err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("unable to send verification code")
	}

	return nil
}

// VerifyOtp completes sign-in. The code is single-use: both fields are
// cleared on success. Repeated failures lock the account for a while.
func (s *authService) VerifyOtp(ctx context.Context, email, otp string) (*models.User, error) {
	user, exists, err := s.u.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrInvalidOtp
	}

	if user.OtpLockedUntil.Valid && time.Now().Before(user.OtpLockedUntil.Time) {
		return nil, ErrAccountLocked
	}

	if !user.OtpCode.Valid || !user.OtpExpiresAt.Valid {
		return nil, ErrInvalidOtp
	}

	if time.Now().After(user.OtpExpiresAt.Time) || user.OtpCode.String != otp {
		attempts, err := s.u.IncrementOtpAttempts(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if attempts >= otpMaxAttempts {
			if err := s.u.LockOtp(ctx, user.ID, time.Now().Add(otpLockout)); err != nil {
				return nil, err
			}
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidOtp
	}

	if err := s.u.ClearOtp(ctx, user.ID); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *authService) GoogleAuth(ctx context.Context, googleID, email, name, picture string) (*models.User, error) {
	if email == "" {
		return nil, errors.New("email is required")
	}

	user, exists, err := s.u.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		// Link the Google identity to an account created with a password.
		if user.GoogleID == "" && googleID != "" {
			user.GoogleID = googleID
			if err := s.u.Update(ctx, user); err != nil {
				return nil, err
			}
		}
		return user, nil
	}

	user = &models.User{
		GoogleID:       googleID,
		Email:          email,
		Name:           name,
		ProfilePicture: picture,
	}
	id, err := s.u.Create(ctx, nil, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	if err := s.m.SendWelcome(ctx, email, name); err != nil {
		slog.Info(fmt.Sprintf("welcome mail failed: %v", err))
	}

	return user, nil
}

func (s *authService) GetUserInfo(ctx context.Context, userID int64) (*models.User, error) {
	user, exists, err := s.u.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user info")
	}
	if !exists {
		slog.Info("user not found")
		return nil, ErrUserNotFound
	}
	return user, nil
}
