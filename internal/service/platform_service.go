package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	cfg "github.com/socialmindhq/socialmind/configs"
	"github.com/socialmindhq/socialmind/internal/models"
	"github.com/socialmindhq/socialmind/internal/repository"
	"github.com/socialmindhq/socialmind/pkg/utils"
)

const (
	googleAuthURL   = "https://accounts.google.com/o/oauth2/v2/auth"
	facebookAuthURL = "https://www.facebook.com/v18.0/dialog/oauth"
)

var ErrAccountNotFound = errors.New("social account not found")

type PlatformService interface {
	GetAuthURL(platform, state string) string
	List(ctx context.Context, userID int64) ([]*models.SocialAccount, error)
	Delete(ctx context.Context, userID, accountID int64) error
}

type platformService struct {
	cfg cfg.Config
	sa  repository.SocialAccountRepository
}

func NewPlatformService(cfg cfg.Config, sa repository.SocialAccountRepository) PlatformService {
	return &platformService{
		cfg: cfg,
		sa:  sa,
	}
}

// GetAuthURL builds the provider authorization URL. The state is always a
// fresh single-use token issued by the state store; both platforms share
// the same mechanism.
func (s *platformService) GetAuthURL(platform, state string) string {
	switch platform {
	case models.PlatformYoutube:
		params := url.Values{}
		params.Add("client_id", s.cfg.GoogleClientID)
		params.Add("redirect_uri", s.cfg.GoogleRedirectURI)
		params.Add("response_type", "code")
		params.Add("scope", "https://www.googleapis.com/auth/youtube.readonly https://www.googleapis.com/auth/youtube.upload")
		params.Add("state", state)
		params.Add("access_type", "offline")
		params.Add("prompt", "consent")

		return fmt.Sprintf("%s?%s", googleAuthURL, params.Encode())

	case models.PlatformThreads:
		params := url.Values{}
		params.Add("client_id", s.cfg.FacebookClientID)
		params.Add("redirect_uri", s.cfg.FacebookRedirectURI)
		params.Add("response_type", "code")
		params.Add("scope", "pages_show_list,instagram_basic,instagram_content_publish")
		params.Add("state", state)

		return fmt.Sprintf("%s?%s", facebookAuthURL, params.Encode())

	default:
		return ""
	}
}

func (s *platformService) List(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	accounts, err := s.sa.ListInfoByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting social accounts")
	}
	return accounts, nil
}

// Delete revokes provider access best-effort, then removes the row.
// Ownership mismatches surface as not-found.
func (s *platformService) Delete(ctx context.Context, userID, accountID int64) error {
	isOwner, err := s.sa.CheckByUserID(ctx, accountID, userID)
	if err != nil {
		return err
	}
	if !isOwner {
		slog.Info("account ownership check failed")
		return ErrAccountNotFound
	}

	accountInfo, err := s.sa.GetByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("unable to get social account info")
	}
	if accountInfo == nil {
		return ErrAccountNotFound
	}

	if accountInfo.Platform == models.PlatformYoutube {
		decryptedAccessToken, err := utils.Decrypt(accountInfo.AccessToken, []byte(s.cfg.SecretKey))
		if err == nil {
			if err := RevokeGoogleAccess(decryptedAccessToken); err != nil {
				slog.Info(fmt.Sprintf("token revoke failed: %v", err))
			}
		}
	}

	if err := s.sa.Remove(ctx, accountID); err != nil {
		return fmt.Errorf("error removing account info")
	}

	return nil
}
