package queue

import (
	"github.com/socialmindhq/socialmind/internal/mailer"
	"github.com/socialmindhq/socialmind/internal/repository"
)

type Queue struct {
	pr repository.PostRepository
	ur repository.UserRepository
	m  mailer.Mailer
}

func NewQueue(
	pr repository.PostRepository,
	ur repository.UserRepository,
	m mailer.Mailer) *Queue {
	return &Queue{
		pr: pr,
		ur: ur,
		m:  m,
	}
}

const TaskTypePublishPost = "post:publish"

type PublishPostPayload struct {
	PostID int64 `json:"post_id"`
}
