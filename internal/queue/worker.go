package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/socialmindhq/socialmind/internal/models"
)

// publishGrace absorbs clock skew between the queue and the stored time.
const publishGrace = time.Minute

func (q *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	return q.PublishPost(ctx, payload.PostID)
}

// PublishPost transitions a due post from scheduled to posted. A post that
// was deleted, moved back to draft or already published since the task was
// enqueued is skipped without error.
func (q *Queue) PublishPost(ctx context.Context, postID int64) error {
	post, err := q.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil || post.Status != models.PostStatusScheduled {
		log.Printf("Skipping publish for PostID %d: no longer scheduled", postID)
		return nil
	}

	// Rescheduling enqueues a new task without cancelling the old one, so a
	// task firing while the stored time is still ahead is stale.
	if time.Until(post.ScheduledTime) > publishGrace {
		log.Printf("Skipping publish for PostID %d: rescheduled to a later time", postID)
		return nil
	}

	if err := q.pr.UpdatePostStatus(ctx, models.PostStatusPosted, post.ID); err != nil {
		if statusErr := q.pr.UpdatePostStatus(ctx, models.PostStatusFailed, post.ID); statusErr != nil {
			log.Printf("Error marking PostID %d failed: %v", post.ID, statusErr)
		}
		return err
	}

	// Notification is best-effort.
	if user, exists, err := q.ur.GetByID(ctx, post.UserID); err == nil && exists {
		if err := q.m.SendPostLive(ctx, user.Email, post.Title); err != nil {
			log.Printf("Error sending post-live mail for PostID %d: %v", post.ID, err)
		}
	}

	return nil
}
