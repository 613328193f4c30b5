package service

import (
	"context"
	"testing"
	"time"

	"github.com/socialmindhq/socialmind/internal/models"
	"github.com/socialmindhq/socialmind/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostServiceForTest(pr *fakePostRepo, ur *fakeUserRepo, m *fakeMailer) PostService {
	return NewPostService(pr, ur, nil, m)
}

func TestCreatePostValidation(t *testing.T) {
	future := time.Now().Add(2 * time.Hour).Format("2006-01-02T15:04")

	tests := []struct {
		name string
		pc   *transfer.PostCreation
	}{
		{name: "nil payload", pc: nil},
		{name: "empty caption", pc: &transfer.PostCreation{Platform: "youtube", ScheduledTime: future}},
		{name: "empty platform", pc: &transfer.PostCreation{Caption: "hi", ScheduledTime: future}},
		{name: "bad status", pc: &transfer.PostCreation{Platform: "youtube", Caption: "hi", ScheduledTime: future, Status: "published"}},
		{name: "bad time format", pc: &transfer.PostCreation{Platform: "youtube", Caption: "hi", ScheduledTime: "tomorrow at noon"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newPostServiceForTest(newFakePostRepo(), newFakeUserRepo(), &fakeMailer{})
			post, _, err := s.CreatePost(context.Background(), 1, tc.pc, nil)
			assert.Error(t, err)
			assert.Nil(t, post)
		})
	}
}

func TestCreateScheduledPost(t *testing.T) {
	pr := newFakePostRepo()
	ur := newFakeUserRepo()
	mail := &fakeMailer{}
	u := seedUser(t, ur, "user@example.com", "correct-horse")

	scheduled := time.Now().Add(3 * time.Hour).Truncate(time.Minute)
	s := newPostServiceForTest(pr, ur, mail)

	post, delay, err := s.CreatePost(context.Background(), u.ID, &transfer.PostCreation{
		Platform:      models.PlatformYoutube,
		Caption:       "launch day",
		Title:         "Launch",
		ScheduledTime: scheduled.Format("2006-01-02T15:04"),
	}, nil)

	require.NoError(t, err)
	require.NotNil(t, post)
	assert.NotZero(t, post.ID)
	assert.Equal(t, models.PostStatusScheduled, post.Status)
	assert.InDelta(t, time.Until(scheduled).Seconds(), delay.Seconds(), 60)
	assert.Equal(t, []string{"Launch"}, mail.confirmations)
}

func TestCreateDraftPostSkipsScheduling(t *testing.T) {
	pr := newFakePostRepo()
	ur := newFakeUserRepo()
	mail := &fakeMailer{}
	u := seedUser(t, ur, "user@example.com", "correct-horse")

	s := newPostServiceForTest(pr, ur, mail)
	post, delay, err := s.CreatePost(context.Background(), u.ID, &transfer.PostCreation{
		Platform:      models.PlatformThreads,
		Caption:       "someday",
		ScheduledTime: time.Now().Add(time.Hour).Format("2006-01-02T15:04"),
		Status:        models.PostStatusDraft,
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, models.PostStatusDraft, post.Status)
	assert.Zero(t, delay)
	assert.Empty(t, mail.confirmations)
}

func TestCreatePostPastTimeClampsDelay(t *testing.T) {
	pr := newFakePostRepo()
	ur := newFakeUserRepo()
	u := seedUser(t, ur, "user@example.com", "correct-horse")

	s := newPostServiceForTest(pr, ur, &fakeMailer{})
	_, delay, err := s.CreatePost(context.Background(), u.ID, &transfer.PostCreation{
		Platform:      models.PlatformYoutube,
		Caption:       "late",
		ScheduledTime: time.Now().Add(-time.Hour).Format("2006-01-02T15:04"),
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), delay)
}

func TestPostInfoHidesOtherUsersPosts(t *testing.T) {
	pr := newFakePostRepo()
	owner := int64(1)
	intruder := int64(2)

	postID, err := pr.Create(context.Background(), nil, &models.Post{
		UserID:   owner,
		Platform: models.PlatformYoutube,
		Caption:  "mine",
		Status:   models.PostStatusScheduled,
	})
	require.NoError(t, err)

	s := newPostServiceForTest(pr, newFakeUserRepo(), &fakeMailer{})

	post, err := s.PostInfo(context.Background(), owner, postID)
	require.NoError(t, err)
	assert.Equal(t, "mine", post.Caption)

	// Non-owner gets the same answer as a missing post.
	_, err = s.PostInfo(context.Background(), intruder, postID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = s.PostInfo(context.Background(), owner, 9999)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestUpdatePost(t *testing.T) {
	pr := newFakePostRepo()
	owner := int64(1)
	postID, err := pr.Create(context.Background(), nil, &models.Post{
		UserID:        owner,
		Platform:      models.PlatformYoutube,
		Caption:       "before",
		Title:         "Old",
		ScheduledTime: time.Now().Add(time.Hour),
		Status:        models.PostStatusScheduled,
	})
	require.NoError(t, err)

	s := newPostServiceForTest(pr, newFakeUserRepo(), &fakeMailer{})

	newTime := time.Now().Add(5 * time.Hour).Truncate(time.Minute)
	post, delay, err := s.Update(context.Background(), owner, postID, &transfer.PostUpdate{
		Caption:       "after",
		ScheduledTime: newTime.Format("2006-01-02T15:04"),
	})

	require.NoError(t, err)
	assert.Equal(t, "after", post.Caption)
	assert.Equal(t, "Old", post.Title)
	assert.True(t, delay > 4*time.Hour)

	_, _, err = s.Update(context.Background(), int64(42), postID, &transfer.PostUpdate{Caption: "stolen"})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestUpdateRejectsInvalidStatus(t *testing.T) {
	pr := newFakePostRepo()
	owner := int64(1)
	postID, err := pr.Create(context.Background(), nil, &models.Post{
		UserID:   owner,
		Platform: models.PlatformYoutube,
		Caption:  "before",
		Status:   models.PostStatusScheduled,
	})
	require.NoError(t, err)

	s := newPostServiceForTest(pr, newFakeUserRepo(), &fakeMailer{})

	for _, status := range []string{models.PostStatusPosted, models.PostStatusFailed, "published"} {
		_, _, err := s.Update(context.Background(), owner, postID, &transfer.PostUpdate{Status: status})
		assert.Error(t, err, "status %q should be rejected", status)
	}

	// The stored row is untouched.
	stored, err := pr.GetByID(context.Background(), postID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusScheduled, stored.Status)

	_, _, err = s.Update(context.Background(), owner, postID, &transfer.PostUpdate{Status: models.PostStatusDraft})
	require.NoError(t, err)
}

func TestUpdateWithoutRescheduleReturnsNoDelay(t *testing.T) {
	pr := newFakePostRepo()
	owner := int64(1)
	postID, err := pr.Create(context.Background(), nil, &models.Post{
		UserID:        owner,
		Platform:      models.PlatformYoutube,
		Caption:       "before",
		ScheduledTime: time.Now().Add(time.Hour),
		Status:        models.PostStatusScheduled,
	})
	require.NoError(t, err)

	s := newPostServiceForTest(pr, newFakeUserRepo(), &fakeMailer{})
	_, delay, err := s.Update(context.Background(), owner, postID, &transfer.PostUpdate{Caption: "after"})

	require.NoError(t, err)
	assert.Zero(t, delay)
}

func TestRemovePost(t *testing.T) {
	pr := newFakePostRepo()
	owner := int64(1)
	postID, err := pr.Create(context.Background(), nil, &models.Post{UserID: owner, Caption: "bye"})
	require.NoError(t, err)

	s := newPostServiceForTest(pr, newFakeUserRepo(), &fakeMailer{})

	assert.ErrorIs(t, s.Remove(context.Background(), int64(2), postID), ErrPostNotFound)
	require.NoError(t, s.Remove(context.Background(), owner, postID))

	got, err := pr.GetByID(context.Background(), postID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
