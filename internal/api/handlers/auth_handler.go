package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	cfg "github.com/socialmindhq/socialmind/configs"
	"github.com/socialmindhq/socialmind/internal/service"
	"github.com/socialmindhq/socialmind/internal/transfer"
	"github.com/socialmindhq/socialmind/pkg/utils"
)

type AuthHandler struct {
	s   service.AuthService
	cfg cfg.Config
}

func NewAuthHandler(cfg cfg.Config, service service.AuthService) *AuthHandler {
	return &AuthHandler{s: service, cfg: cfg}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req transfer.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := h.s.Signup(c.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	token, err := utils.GenerateToken(h.cfg.SecretKey, fmt.Sprintf("%d", user.ID), utils.TokenDuration)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to issue token",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

// Signin never returns a token: a correct password only moves the attempt
// to otp-pending.
func (h *AuthHandler) Signin(c *fiber.Ctx) error {
	var req transfer.SigninRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.s.Signin(c.Context(), req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, service.ErrAccountLocked):
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unable to sign in",
			})
		}
	}

	return c.JSON(fiber.Map{
		"require_otp": true,
	})
}

func (h *AuthHandler) VerifyOtp(c *fiber.Ctx) error {
	var req transfer.VerifyOtpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := h.s.VerifyOtp(c.Context(), req.Email, req.Otp)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOtp):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, service.ErrAccountLocked):
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unable to verify code",
			})
		}
	}

	token, err := utils.GenerateToken(h.cfg.SecretKey, fmt.Sprintf("%d", user.ID), utils.TokenDuration)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to issue token",
		})
	}

	return c.JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

func (h *AuthHandler) GoogleAuth(c *fiber.Ctx) error {
	var req transfer.GoogleAuthRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// With a token, identity comes from Google, not from the body.
	var googleID string
	if req.AccessToken != "" {
		info, err := service.FetchGoogleUserInfo(c.Context(), req.AccessToken)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid Google token",
			})
		}
		googleID = info.ID
		req.Email = info.Email
		req.Name = info.Name
		req.Picture = info.Picture
	}

	user, err := h.s.GoogleAuth(c.Context(), googleID, req.Email, req.Name, req.Picture)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	token, err := utils.GenerateToken(h.cfg.SecretKey, fmt.Sprintf("%d", user.ID), utils.TokenDuration)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to issue token",
		})
	}

	return c.JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID := GetUserID(c)

	user, err := h.s.GetUserInfo(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to fetch user",
		})
	}

	return c.JSON(user)
}
