package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	cfg "github.com/socialmindhq/socialmind/configs"
	"github.com/socialmindhq/socialmind/internal/models"
	"github.com/socialmindhq/socialmind/internal/repository"
	"github.com/socialmindhq/socialmind/pkg/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

type YoutubeService interface {
	Callback(ctx context.Context, code string, userID int64) error
	RefreshToken(ctx context.Context, userID int64, accessToken, refreshToken string) error
}

type youtubeService struct {
	cfg cfg.Config
	sa  repository.SocialAccountRepository
}

func NewYoutubeService(cfg cfg.Config, sa repository.SocialAccountRepository) YoutubeService {
	return &youtubeService{
		cfg: cfg,
		sa:  sa,
	}
}

func (s *youtubeService) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.GoogleClientID,
		ClientSecret: s.cfg.GoogleClientSecret,
		RedirectURL:  s.cfg.GoogleRedirectURI,
		Scopes: []string{
			"https://www.googleapis.com/auth/youtube.readonly",
			"https://www.googleapis.com/auth/youtube.upload",
		},
		Endpoint: google.Endpoint,
	}
}

// Callback exchanges the authorization code, resolves the connected channel
// and upserts the account row under (userID, "youtube"). State validation
// happens in the handler before this is called.
func (s *youtubeService) Callback(ctx context.Context, code string, userID int64) error {
	if code == "" {
		err := errors.New("authorization code is empty")
		slog.Info(err.Error())
		return err
	}

	oauth2Config := s.oauthConfig()
	if oauth2Config.ClientID == "" || oauth2Config.ClientSecret == "" || oauth2Config.RedirectURL == "" {
		err := errors.New("OAuth2 configuration is incomplete")
		slog.Info(err.Error())
		return err
	}

	token, err := oauth2Config.Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	client := oauth2Config.Client(ctx, token)
	channel, err := getChannelInfo(ctx, client)
	if err != nil {
		return err
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	encryptedRefreshToken := ""
	if token.RefreshToken != "" {
		encryptedRefreshToken, err = utils.Encrypt([]byte(token.RefreshToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return err
		}
	}

	accountInfo := &models.SocialAccount{
		UserID:          userID,
		Platform:        models.PlatformYoutube,
		AccountID:       channel.Id,
		AccountName:     channel.Snippet.Title,
		AccountUsername: channel.Snippet.CustomUrl,
		ProfilePicture:  channelThumbnail(channel),
		AccessToken:     encryptedAccessToken,
		RefreshToken:    encryptedRefreshToken,
		TokenExpiresAt:  token.Expiry,
	}

	if _, err := s.sa.Upsert(ctx, nil, accountInfo); err != nil {
		return err
	}

	return nil
}

func (s *youtubeService) RefreshToken(ctx context.Context, userID int64, accessToken, refreshToken string) error {
	conf := s.oauthConfig()

	decryptedRefreshToken, err := utils.Decrypt(refreshToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	tokenSource := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: decryptedRefreshToken})

	token, err := tokenSource.Token()
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	socialAccount := models.SocialAccount{
		AccessToken:    encryptedAccessToken,
		TokenExpiresAt: token.Expiry,
	}

	return s.sa.SetToken(ctx, userID, accessToken, &socialAccount)
}

func getChannelInfo(ctx context.Context, client *http.Client) (*youtube.Channel, error) {
	yt, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error creating YouTube client: %w", err)
	}

	resp, err := yt.Channels.List([]string{"snippet"}).Mine(true).Do()
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error fetching channel info: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, errors.New("no channel found for this account")
	}

	return resp.Items[0], nil
}

func channelThumbnail(channel *youtube.Channel) string {
	if channel.Snippet == nil || channel.Snippet.Thumbnails == nil || channel.Snippet.Thumbnails.Default == nil {
		return ""
	}
	return channel.Snippet.Thumbnails.Default.Url
}

func RevokeGoogleAccess(accessToken string) error {
	url := "https://oauth2.googleapis.com/revoke"
	payload := []byte("token=" + accessToken)

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to revoke token, status code: %d", resp.StatusCode)
	}
	return nil
}
