package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	cfg "github.com/socialmindhq/socialmind/configs"
	"github.com/socialmindhq/socialmind/internal/models"
	"github.com/socialmindhq/socialmind/internal/repository"
	"github.com/socialmindhq/socialmind/internal/transfer"
	"github.com/socialmindhq/socialmind/pkg/utils"
)

const graphBaseURL = "https://graph.facebook.com/v18.0"

var (
	ErrNoLinkedPage    = errors.New("no Facebook page linked to this account")
	ErrNoLinkedIG      = errors.New("no Instagram business account linked to the page")
	errGraphUnexpected = errors.New("unexpected response from Graph API")
)

type ThreadsService interface {
	Callback(ctx context.Context, code string, userID int64) error
	RefreshToken(ctx context.Context, userID int64, accessToken string) error
}

type threadsService struct {
	cfg     cfg.Config
	sa      repository.SocialAccountRepository
	baseURL string
	client  *http.Client
}

func NewThreadsService(cfg cfg.Config, sa repository.SocialAccountRepository) ThreadsService {
	return &threadsService{
		cfg:     cfg,
		sa:      sa,
		baseURL: graphBaseURL,
		client:  http.DefaultClient,
	}
}

// Callback walks the Graph chain: exchange the code for a user token, find
// the caller's page, resolve the linked Instagram business account, fetch
// its profile, then upsert under (userID, "threads"). A broken link anywhere
// in the chain fails with a typed error; the raw provider payload is logged,
// not returned.
func (s *threadsService) Callback(ctx context.Context, code string, userID int64) error {
	if code == "" {
		err := errors.New("authorization code is empty")
		slog.Info(err.Error())
		return err
	}

	token, err := s.exchangeCode(ctx, code)
	if err != nil {
		return err
	}

	page, err := s.findLinkedPage(ctx, token.AccessToken)
	if err != nil {
		return err
	}

	profile, err := s.getProfile(ctx, page.InstagramBusinessAccount.ID, token.AccessToken)
	if err != nil {
		return err
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	accountInfo := &models.SocialAccount{
		UserID:          userID,
		Platform:        models.PlatformThreads,
		AccountID:       profile.ID,
		AccountName:     profile.Name,
		AccountUsername: profile.Username,
		ProfilePicture:  profile.ProfilePicture,
		AccessToken:     encryptedAccessToken,
		// Graph long-lived tokens are refreshed with the access token itself.
		RefreshToken:   encryptedAccessToken,
		TokenExpiresAt: GetExpiresAt(token.ExpiresIn),
	}

	if _, err := s.sa.Upsert(ctx, nil, accountInfo); err != nil {
		return err
	}

	return nil
}

func (s *threadsService) exchangeCode(ctx context.Context, code string) (*transfer.GraphToken, error) {
	params := url.Values{}
	params.Set("client_id", s.cfg.FacebookClientID)
	params.Set("client_secret", s.cfg.FacebookClientSecret)
	params.Set("redirect_uri", s.cfg.FacebookRedirectURI)
	params.Set("code", code)

	var token transfer.GraphToken
	if err := s.graphGet(ctx, fmt.Sprintf("%s/oauth/access_token?%s", s.baseURL, params.Encode()), &token); err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, errGraphUnexpected
	}

	return &token, nil
}

func (s *threadsService) findLinkedPage(ctx context.Context, accessToken string) (*transfer.GraphPage, error) {
	params := url.Values{}
	params.Set("fields", "id,name,instagram_business_account")
	params.Set("access_token", accessToken)

	var pages transfer.GraphPageList
	if err := s.graphGet(ctx, fmt.Sprintf("%s/me/accounts?%s", s.baseURL, params.Encode()), &pages); err != nil {
		return nil, err
	}
	if len(pages.Data) == 0 {
		slog.Info(ErrNoLinkedPage.Error())
		return nil, ErrNoLinkedPage
	}

	for i := range pages.Data {
		if pages.Data[i].InstagramBusinessAccount != nil {
			return &pages.Data[i], nil
		}
	}

	slog.Info(ErrNoLinkedIG.Error())
	return nil, ErrNoLinkedIG
}

func (s *threadsService) getProfile(ctx context.Context, accountID, accessToken string) (*transfer.GraphProfile, error) {
	params := url.Values{}
	params.Set("fields", "id,username,name,profile_picture_url")
	params.Set("access_token", accessToken)

	var profile transfer.GraphProfile
	if err := s.graphGet(ctx, fmt.Sprintf("%s/%s?%s", s.baseURL, accountID, params.Encode()), &profile); err != nil {
		return nil, err
	}
	if profile.Username == "" {
		return nil, errGraphUnexpected
	}

	return &profile, nil
}

// RefreshToken extends a long-lived Graph token before it expires.
func (s *threadsService) RefreshToken(ctx context.Context, userID int64, accessToken string) error {
	decryptedAccessToken, err := utils.Decrypt(accessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	params := url.Values{}
	params.Set("grant_type", "fb_exchange_token")
	params.Set("client_id", s.cfg.FacebookClientID)
	params.Set("client_secret", s.cfg.FacebookClientSecret)
	params.Set("fb_exchange_token", decryptedAccessToken)

	var token transfer.GraphToken
	if err := s.graphGet(ctx, fmt.Sprintf("%s/oauth/access_token?%s", s.baseURL, params.Encode()), &token); err != nil {
		return err
	}
	if token.AccessToken == "" {
		return errGraphUnexpected
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	socialAccount := models.SocialAccount{
		AccessToken:    encryptedAccessToken,
		RefreshToken:   encryptedAccessToken,
		TokenExpiresAt: GetExpiresAt(token.ExpiresIn),
	}

	return s.sa.SetToken(ctx, userID, accessToken, &socialAccount)
}

func (s *threadsService) graphGet(ctx context.Context, fullURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("graph request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	if resp.StatusCode != http.StatusOK {
		var graphErr transfer.GraphErrorResponse
		if err := json.Unmarshal(body, &graphErr); err == nil && graphErr.Error.Message != "" {
			slog.Info(fmt.Sprintf("graph error %d: %s", graphErr.Error.Code, graphErr.Error.Message))
		}
		return errGraphUnexpected
	}

	if err := json.Unmarshal(body, out); err != nil {
		slog.Info(err.Error())
		return errGraphUnexpected
	}

	return nil
}
