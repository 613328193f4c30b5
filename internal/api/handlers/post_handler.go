package handlers

import (
	"errors"
	"log"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/socialmindhq/socialmind/internal/models"
	"github.com/socialmindhq/socialmind/internal/queue"
	"github.com/socialmindhq/socialmind/internal/service"
	"github.com/socialmindhq/socialmind/internal/transfer"
)

type PostHandler struct {
	s      service.PostService
	client *asynq.Client
}

func NewPostHandler(s service.PostService, client *asynq.Client) *PostHandler {
	return &PostHandler{s: s, client: client}
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	pc := transfer.PostCreation{
		Platform:      c.FormValue("platform"),
		Caption:       c.FormValue("caption"),
		Title:         c.FormValue("title"),
		ScheduledTime: c.FormValue("scheduled_time"),
		Status:        c.FormValue("status"),
	}

	var image *multipart.FileHeader
	if file, err := c.FormFile("image"); err == nil {
		image = file
	}

	post, delay, err := h.s.CreatePost(c.Context(), userID, &pc, image)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if post.Status == models.PostStatusScheduled {
		payload := queue.PublishPostPayload{PostID: post.ID}
		if err := queue.EnqueuePublish(h.client, payload, delay); err != nil {
			log.Printf("Error enqueueing publish task for PostID %d: %v", post.ID, err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	posts, err := h.s.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch posts",
		})
	}

	return c.JSON(posts)
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid post id",
		})
	}

	post, err := h.s.PostInfo(c.Context(), userID, int64(postID))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch post",
		})
	}

	return c.JSON(post)
}

func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid post id",
		})
	}

	var pu transfer.PostUpdate
	if err := c.BodyParser(&pu); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	post, delay, err := h.s.Update(c.Context(), userID, int64(postID), &pu)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if post.Status == models.PostStatusScheduled && pu.ScheduledTime != "" {
		payload := queue.PublishPostPayload{PostID: post.ID}
		if err := queue.EnqueuePublish(h.client, payload, delay); err != nil {
			log.Printf("Error enqueueing publish task for PostID %d: %v", post.ID, err)
		}
	}

	return c.JSON(post)
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid post id",
		})
	}

	if err := h.s.Remove(c.Context(), userID, int64(postID)); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to delete post",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
