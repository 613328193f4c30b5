package handlers

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	cfg "github.com/socialmindhq/socialmind/configs"
	"github.com/socialmindhq/socialmind/internal/authstate"
	"github.com/socialmindhq/socialmind/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frontendURL = "http://localhost:5173"

type stubPlatformService struct {
	lastState string
}

func (s *stubPlatformService) GetAuthURL(platform, state string) string {
	s.lastState = state
	return "https://provider.example/authorize?state=" + state
}

func (s *stubPlatformService) List(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	return nil, nil
}

func (s *stubPlatformService) Delete(ctx context.Context, userID, accountID int64) error {
	return nil
}

type stubConnectService struct {
	calls   int
	userIDs []int64
	err     error
}

func (s *stubConnectService) Callback(ctx context.Context, code string, userID int64) error {
	s.calls++
	s.userIDs = append(s.userIDs, userID)
	return s.err
}

type stubYoutubeService struct{ stubConnectService }

func (s *stubYoutubeService) RefreshToken(ctx context.Context, userID int64, accessToken, refreshToken string) error {
	return nil
}

type stubThreadsService struct{ stubConnectService }

func (s *stubThreadsService) RefreshToken(ctx context.Context, userID int64, accessToken string) error {
	return nil
}

func newPlatformApp(t *testing.T, yt *stubYoutubeService, th *stubThreadsService) (*fiber.App, authstate.Store, *stubPlatformService) {
	t.Helper()
	state := authstate.NewMemoryStore()
	ps := &stubPlatformService{}
	h := NewPlatformHandler(ps, yt, th, state, cfg.Config{FrontendURL: frontendURL})

	app := fiber.New()
	asUser := func(c *fiber.Ctx) error {
		c.Locals("user_id", "42")
		return c.Next()
	}
	app.Get("/auth/youtube", asUser, h.Connect(models.PlatformYoutube))
	app.Get("/auth/youtube/callback", h.Callback(models.PlatformYoutube))
	app.Get("/auth/threads/callback", h.Callback(models.PlatformThreads))
	return app, state, ps
}

func TestConnectIssuesSingleUseState(t *testing.T) {
	app, state, ps := newPlatformApp(t, &stubYoutubeService{}, &stubThreadsService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/auth/youtube", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The issued state is bound to the authenticated user.
	require.NotEmpty(t, ps.lastState)
	entry, err := state.Consume(ps.lastState)
	require.NoError(t, err)
	assert.Equal(t, int64(42), entry.UserID)
}

func TestCallbackRejectsUnknownStateBeforeExchange(t *testing.T) {
	yt := &stubYoutubeService{}
	app, _, _ := newPlatformApp(t, yt, &stubThreadsService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/auth/youtube/callback?code=abc&state=never-issued", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, frontendURL+"/dashboard/accounts?error=invalid_state", resp.Header.Get("Location"))
	assert.Zero(t, yt.calls, "token exchange must not run without a valid state")
}

func TestCallbackCompletesConnect(t *testing.T) {
	yt := &stubYoutubeService{}
	app, state, _ := newPlatformApp(t, yt, &stubThreadsService{})

	issued, err := state.Put(42)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/auth/youtube/callback?code=abc&state="+issued, nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, frontendURL+"/dashboard/accounts?connected=youtube", resp.Header.Get("Location"))
	assert.Equal(t, []int64{42}, yt.userIDs)
}

func TestCallbackRejectsReplayedState(t *testing.T) {
	yt := &stubYoutubeService{}
	app, state, _ := newPlatformApp(t, yt, &stubThreadsService{})

	issued, err := state.Put(42)
	require.NoError(t, err)

	first, err := app.Test(httptest.NewRequest("GET", "/auth/youtube/callback?code=abc&state="+issued, nil))
	require.NoError(t, err)
	assert.Equal(t, frontendURL+"/dashboard/accounts?connected=youtube", first.Header.Get("Location"))

	second, err := app.Test(httptest.NewRequest("GET", "/auth/youtube/callback?code=abc&state="+issued, nil))
	require.NoError(t, err)
	assert.Equal(t, frontendURL+"/dashboard/accounts?error=invalid_state", second.Header.Get("Location"))
	assert.Equal(t, 1, yt.calls, "a consumed state must not trigger a second exchange")
}

func TestCallbackRedirectsOnExchangeFailure(t *testing.T) {
	th := &stubThreadsService{stubConnectService{err: assert.AnError}}
	app, state, _ := newPlatformApp(t, &stubYoutubeService{}, th)

	issued, err := state.Put(42)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/auth/threads/callback?code=abc&state="+issued, nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, frontendURL+"/dashboard/accounts?error=connect_failed", resp.Header.Get("Location"))
	assert.Equal(t, 1, th.calls)
}
