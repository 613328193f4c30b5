package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/url"

	"github.com/gofiber/fiber/v2"
	cfg "github.com/socialmindhq/socialmind/configs"
	"github.com/socialmindhq/socialmind/internal/authstate"
	"github.com/socialmindhq/socialmind/internal/models"
	"github.com/socialmindhq/socialmind/internal/service"
)

type PlatformHandler struct {
	ps    service.PlatformService
	yt    service.YoutubeService
	th    service.ThreadsService
	state authstate.Store
	cfg   cfg.Config
}

func NewPlatformHandler(ps service.PlatformService, yt service.YoutubeService, th service.ThreadsService, state authstate.Store, cfg cfg.Config) *PlatformHandler {
	return &PlatformHandler{
		ps:    ps,
		yt:    yt,
		th:    th,
		state: state,
		cfg:   cfg,
	}
}

// Connect starts an OAuth connect flow for the authenticated user. The
// returned URL embeds a fresh single-use state token so the unauthenticated
// callback can be bound back to this user.
func (h *PlatformHandler) Connect(platform string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)

		state, err := h.state.Put(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unable to start authorization",
			})
		}

		authURL := h.ps.GetAuthURL(platform, state)
		if authURL == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown platform",
			})
		}

		return c.JSON(fiber.Map{"url": authURL})
	}
}

// Callback lands here via the browser's top-level navigation after the
// provider redirect, so failures surface as a redirect with an error flag
// instead of a JSON response. The state token is consumed before any token
// exchange happens.
func (h *PlatformHandler) Callback(platform string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Query("code")
		state := c.Query("state")

		entry, err := h.state.Consume(state)
		if err != nil {
			log.Printf("State validation failed for %s callback: %v", platform, err)
			return h.redirectWithError(c, "invalid_state")
		}

		switch platform {
		case models.PlatformYoutube:
			err = h.yt.Callback(c.Context(), code, entry.UserID)
		case models.PlatformThreads:
			err = h.th.Callback(c.Context(), code, entry.UserID)
		default:
			err = errors.New("unknown platform")
		}

		if err != nil {
			log.Printf("Error completing %s connect: %v", platform, err)
			return h.redirectWithError(c, "connect_failed")
		}

		redirectURL := fmt.Sprintf("%s/dashboard/accounts?connected=%s", h.cfg.FrontendURL, platform)
		return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
	}
}

func (h *PlatformHandler) redirectWithError(c *fiber.Ctx, flag string) error {
	redirectURL := fmt.Sprintf("%s/dashboard/accounts?error=%s", h.cfg.FrontendURL, url.QueryEscape(flag))
	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}

func (h *PlatformHandler) ListSocialAccounts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	accountList, err := h.ps.List(c.Context(), userID)
	if err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch social accounts",
		})
	}

	return c.JSON(accountList)
}

func (h *PlatformHandler) DeleteSocialAccount(c *fiber.Ctx) error {
	userID := GetUserID(c)
	accountID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid account id",
		})
	}

	if err := h.ps.Delete(c.Context(), userID, int64(accountID)); err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to delete social account",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
