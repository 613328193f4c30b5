package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/socialmindhq/socialmind/internal/transfer"
)

var googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var ErrInvalidGoogleToken = errors.New("invalid Google access token")

// FetchGoogleUserInfo resolves the profile behind a Google access token, so
// sign-in identity comes from Google rather than the request body.
func FetchGoogleUserInfo(ctx context.Context, accessToken string) (*transfer.GoogleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		slog.Info(fmt.Sprintf("userinfo returned %d: %s", resp.StatusCode, body))
		return nil, ErrInvalidGoogleToken
	}

	var info transfer.GoogleUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	if info.Email == "" {
		return nil, ErrInvalidGoogleToken
	}

	return &info, nil
}
