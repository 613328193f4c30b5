package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/socialmindhq/socialmind/internal/models"
)

// In-memory repository fakes shared by the service tests.

type fakeUserRepo struct {
	users  map[int64]*models.User
	nextID int64

	setOtpCalls    int
	clearOtpCalls  int
	lockOtpCalls   int
	lastOtpCode    string
	lastOtpExpires time.Time
	lastLockUntil  time.Time
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User), nextID: 1}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, false, nil
	}
	cp := *u
	return &cp, true, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, true, nil
		}
	}
	return nil, false, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *sql.Tx, user *models.User) (int64, error) {
	id := f.nextID
	f.nextID++
	cp := *user
	cp.ID = id
	f.users[id] = &cp
	return id, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if u, ok := f.users[user.ID]; ok {
		u.Name = user.Name
		u.GoogleID = user.GoogleID
		u.ProfilePicture = user.ProfilePicture
	}
	return nil
}

func (f *fakeUserRepo) SetOtp(ctx context.Context, userID int64, code string, expiresAt time.Time) error {
	f.setOtpCalls++
	f.lastOtpCode = code
	f.lastOtpExpires = expiresAt
	if u, ok := f.users[userID]; ok {
		u.OtpCode = sql.NullString{String: code, Valid: true}
		u.OtpExpiresAt = sql.NullTime{Time: expiresAt, Valid: true}
		u.OtpAttempts = 0
	}
	return nil
}

func (f *fakeUserRepo) ClearOtp(ctx context.Context, userID int64) error {
	f.clearOtpCalls++
	if u, ok := f.users[userID]; ok {
		u.OtpCode = sql.NullString{}
		u.OtpExpiresAt = sql.NullTime{}
		u.OtpAttempts = 0
		u.OtpLockedUntil = sql.NullTime{}
	}
	return nil
}

func (f *fakeUserRepo) IncrementOtpAttempts(ctx context.Context, userID int64) (int, error) {
	u, ok := f.users[userID]
	if !ok {
		return 0, sql.ErrNoRows
	}
	u.OtpAttempts++
	return u.OtpAttempts, nil
}

func (f *fakeUserRepo) LockOtp(ctx context.Context, userID int64, until time.Time) error {
	f.lockOtpCalls++
	f.lastLockUntil = until
	if u, ok := f.users[userID]; ok {
		u.OtpLockedUntil = sql.NullTime{Time: until, Valid: true}
		u.OtpCode = sql.NullString{}
		u.OtpExpiresAt = sql.NullTime{}
	}
	return nil
}

func (f *fakeUserRepo) Remove(ctx context.Context, id int64) error {
	delete(f.users, id)
	return nil
}

type fakePostRepo struct {
	posts  map[int64]*models.Post
	nextID int64

	statusByPost map[int64]string
	countsStatus map[string]int
	countsPlat   map[string]int
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts:        make(map[int64]*models.Post),
		nextID:       1,
		statusByPost: make(map[int64]string),
	}
}

func (f *fakePostRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	id := f.nextID
	f.nextID++
	cp := *post
	cp.ID = id
	f.posts[id] = &cp
	return id, nil
}

func (f *fakePostRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range f.posts {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePostRepo) Update(ctx context.Context, post *models.Post) error {
	if _, ok := f.posts[post.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *post
	f.posts[post.ID] = &cp
	return nil
}

func (f *fakePostRepo) UpdatePostStatus(ctx context.Context, status string, postID int64) error {
	f.statusByPost[postID] = status
	if p, ok := f.posts[postID]; ok {
		p.Status = status
	}
	return nil
}

func (f *fakePostRepo) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	p, ok := f.posts[postID]
	return ok && p.UserID == userID, nil
}

func (f *fakePostRepo) CountByStatus(ctx context.Context, userID int64) (map[string]int, error) {
	if f.countsStatus != nil {
		return f.countsStatus, nil
	}
	counts := make(map[string]int)
	for _, p := range f.posts {
		if p.UserID == userID {
			counts[p.Status]++
		}
	}
	return counts, nil
}

func (f *fakePostRepo) CountByPlatform(ctx context.Context, userID int64) (map[string]int, error) {
	if f.countsPlat != nil {
		return f.countsPlat, nil
	}
	counts := make(map[string]int)
	for _, p := range f.posts {
		if p.UserID == userID {
			counts[p.Platform]++
		}
	}
	return counts, nil
}

func (f *fakePostRepo) ListScheduledBetween(ctx context.Context, userID int64, from, to time.Time) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range f.posts {
		if p.UserID == userID && p.Status == models.PostStatusScheduled &&
			!p.ScheduledTime.Before(from) && !p.ScheduledTime.After(to) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePostRepo) ListUsersWithScheduled(ctx context.Context, from, to time.Time) ([]int64, error) {
	seen := make(map[int64]bool)
	var out []int64
	for _, p := range f.posts {
		if p.Status == models.PostStatusScheduled && !p.ScheduledTime.Before(from) && !p.ScheduledTime.After(to) && !seen[p.UserID] {
			seen[p.UserID] = true
			out = append(out, p.UserID)
		}
	}
	return out, nil
}

func (f *fakePostRepo) Remove(ctx context.Context, id int64) error {
	delete(f.posts, id)
	return nil
}

type fakeSocialAccountRepo struct {
	accounts map[int64]*models.SocialAccount
	nextID   int64

	removed []int64
}

func newFakeSocialAccountRepo() *fakeSocialAccountRepo {
	return &fakeSocialAccountRepo{accounts: make(map[int64]*models.SocialAccount), nextID: 1}
}

func (f *fakeSocialAccountRepo) Upsert(ctx context.Context, tx *sql.Tx, sa *models.SocialAccount) (int64, error) {
	for id, existing := range f.accounts {
		if existing.UserID == sa.UserID && existing.Platform == sa.Platform {
			cp := *sa
			cp.ID = id
			f.accounts[id] = &cp
			return id, nil
		}
	}
	id := f.nextID
	f.nextID++
	cp := *sa
	cp.ID = id
	f.accounts[id] = &cp
	return id, nil
}

func (f *fakeSocialAccountRepo) GetByID(ctx context.Context, id int64) (*models.SocialAccount, error) {
	sa, ok := f.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *sa
	return &cp, nil
}

func (f *fakeSocialAccountRepo) ListInfoByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	var out []*models.SocialAccount
	for _, sa := range f.accounts {
		if sa.UserID == userID {
			cp := *sa
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeSocialAccountRepo) ListByTimeInterval(ctx context.Context, initialTime, finalTime time.Time) ([]*models.SocialAccount, error) {
	var out []*models.SocialAccount
	for _, sa := range f.accounts {
		if sa.TokenExpiresAt.Before(finalTime) {
			cp := *sa
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeSocialAccountRepo) CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error) {
	sa, ok := f.accounts[accountID]
	return ok && sa.UserID == userID, nil
}

func (f *fakeSocialAccountRepo) SetToken(ctx context.Context, userID int64, oldAccessToken string, sa *models.SocialAccount) error {
	for _, existing := range f.accounts {
		if existing.UserID == userID && existing.AccessToken == oldAccessToken {
			if sa.AccessToken != "" {
				existing.AccessToken = sa.AccessToken
			}
			if sa.RefreshToken != "" {
				existing.RefreshToken = sa.RefreshToken
			}
			existing.TokenExpiresAt = sa.TokenExpiresAt
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeSocialAccountRepo) Remove(ctx context.Context, id int64) error {
	f.removed = append(f.removed, id)
	delete(f.accounts, id)
	return nil
}

type fakeMailer struct {
	welcomes      []string
	otpCodes      []string
	otpRecipients []string
	confirmations []string
	liveTitles    []string
	reminders     []string

	failAll error
}

func (f *fakeMailer) SendWelcome(ctx context.Context, toEmail, name string) error {
	if f.failAll != nil {
		return f.failAll
	}
	f.welcomes = append(f.welcomes, toEmail)
	return nil
}

func (f *fakeMailer) SendOtp(ctx context.Context, toEmail, code string) error {
	if f.failAll != nil {
		return f.failAll
	}
	f.otpRecipients = append(f.otpRecipients, toEmail)
	f.otpCodes = append(f.otpCodes, code)
	return nil
}

func (f *fakeMailer) SendScheduleConfirmation(ctx context.Context, toEmail, title string) error {
	if f.failAll != nil {
		return f.failAll
	}
	f.confirmations = append(f.confirmations, title)
	return nil
}

func (f *fakeMailer) SendPostLive(ctx context.Context, toEmail, title string) error {
	if f.failAll != nil {
		return f.failAll
	}
	f.liveTitles = append(f.liveTitles, title)
	return nil
}

func (f *fakeMailer) SendDailyReminder(ctx context.Context, toEmail string, scheduledToday int) error {
	if f.failAll != nil {
		return f.failAll
	}
	f.reminders = append(f.reminders, toEmail)
	return nil
}
