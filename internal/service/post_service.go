package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/socialmindhq/socialmind/internal/mailer"
	"github.com/socialmindhq/socialmind/internal/models"
	"github.com/socialmindhq/socialmind/internal/repository"
	"github.com/socialmindhq/socialmind/internal/transfer"
)

// ErrPostNotFound is returned for posts that don't exist AND posts owned by
// someone else, so a non-owner can't confirm a post id exists.
var ErrPostNotFound = errors.New("post not found")

type PostService interface {
	CreatePost(ctx context.Context, userID int64, pc *transfer.PostCreation, image *multipart.FileHeader) (*models.Post, time.Duration, error)
	List(ctx context.Context, userID int64) ([]*models.Post, error)
	PostInfo(ctx context.Context, userID, postID int64) (*models.Post, error)
	Update(ctx context.Context, userID, postID int64, pu *transfer.PostUpdate) (*models.Post, time.Duration, error)
	Remove(ctx context.Context, userID, postID int64) error
}

type postService struct {
	pr repository.PostRepository
	ur repository.UserRepository
	ms *MediaService
	m  mailer.Mailer
}

func NewPostService(pr repository.PostRepository, ur repository.UserRepository, ms *MediaService, m mailer.Mailer) PostService {
	return &postService{
		pr: pr,
		ur: ur,
		ms: ms,
		m:  m,
	}
}

func (s *postService) CreatePost(ctx context.Context, userID int64, pc *transfer.PostCreation, image *multipart.FileHeader) (*models.Post, time.Duration, error) {
	if pc == nil {
		err := errors.New("post creation data is nil")
		slog.Error(err.Error())
		return nil, 0, err
	}
	if pc.Caption == "" {
		err := errors.New("caption cannot be empty")
		slog.Info(err.Error())
		return nil, 0, err
	}
	if pc.Platform == "" {
		err := errors.New("platform cannot be empty")
		slog.Info(err.Error())
		return nil, 0, err
	}

	status := pc.Status
	if status == "" {
		status = models.PostStatusScheduled
	}
	if status != models.PostStatusDraft && status != models.PostStatusScheduled {
		err := fmt.Errorf("invalid status %q", status)
		slog.Info(err.Error())
		return nil, 0, err
	}

	scheduledTime, err := time.Parse("2006-01-02T15:04", pc.ScheduledTime)
	if err != nil {
		err = fmt.Errorf("invalid scheduled time format: %w", err)
		slog.Info(err.Error())
		return nil, 0, err
	}

	var imageURL string
	if image != nil {
		imageURL, err = s.ms.UploadImage(ctx, image)
		if err != nil {
			return nil, 0, fmt.Errorf("error uploading image: %w", err)
		}
	}

	post := models.Post{
		UserID:        userID,
		Platform:      pc.Platform,
		Caption:       pc.Caption,
		Title:         pc.Title,
		ImageURL:      imageURL,
		ScheduledTime: scheduledTime,
		Status:        status,
	}

	postID, err := s.pr.Create(ctx, nil, &post)
	if err != nil {
		return nil, 0, fmt.Errorf("error creating post: %w", err)
	}
	post.ID = postID

	var delay time.Duration
	if status == models.PostStatusScheduled {
		delay = time.Until(scheduledTime)
		if delay < 0 {
			delay = 0
		}

		// Confirmation mail must not fail the creation call.
		if user, exists, err := s.ur.GetByID(ctx, userID); err == nil && exists {
			if err := s.m.SendScheduleConfirmation(ctx, user.Email, post.Title); err != nil {
				slog.Info(fmt.Sprintf("schedule confirmation mail failed: %v", err))
			}
		}
	}

	return &post, delay, nil
}

func (s *postService) List(ctx context.Context, userID int64) ([]*models.Post, error) {
	posts, err := s.pr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting posts")
	}
	return posts, nil
}

func (s *postService) PostInfo(ctx context.Context, userID, postID int64) (*models.Post, error) {
	isOwner, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if !isOwner {
		slog.Info("post ownership check failed")
		return nil, ErrPostNotFound
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error getting post info")
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	return post, nil
}

func (s *postService) Update(ctx context.Context, userID, postID int64, pu *transfer.PostUpdate) (*models.Post, time.Duration, error) {
	if pu == nil {
		return nil, 0, errors.New("post update data is nil")
	}

	post, err := s.PostInfo(ctx, userID, postID)
	if err != nil {
		return nil, 0, err
	}

	if pu.Platform != "" {
		post.Platform = pu.Platform
	}
	if pu.Caption != "" {
		post.Caption = pu.Caption
	}
	if pu.Title != "" {
		post.Title = pu.Title
	}
	if pu.Status != "" {
		if pu.Status != models.PostStatusDraft && pu.Status != models.PostStatusScheduled {
			err := fmt.Errorf("invalid status %q", pu.Status)
			slog.Info(err.Error())
			return nil, 0, err
		}
		post.Status = pu.Status
	}
	if pu.ScheduledTime != "" {
		scheduledTime, err := time.Parse("2006-01-02T15:04", pu.ScheduledTime)
		if err != nil {
			err = fmt.Errorf("invalid scheduled time format: %w", err)
			slog.Info(err.Error())
			return nil, 0, err
		}
		post.ScheduledTime = scheduledTime
	}

	if err := s.pr.Update(ctx, post); err != nil {
		return nil, 0, fmt.Errorf("error updating post")
	}

	var delay time.Duration
	if post.Status == models.PostStatusScheduled && pu.ScheduledTime != "" {
		delay = time.Until(post.ScheduledTime)
		if delay < 0 {
			delay = 0
		}
	}

	return post, delay, nil
}

func (s *postService) Remove(ctx context.Context, userID, postID int64) error {
	isOwner, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !isOwner {
		slog.Info("post ownership check failed")
		return ErrPostNotFound
	}

	if err := s.pr.Remove(ctx, postID); err != nil {
		return fmt.Errorf("error removing post")
	}

	return nil
}
