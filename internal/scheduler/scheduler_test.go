package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unosuke/postpilot/internal/meta"
	"github.com/unosuke/postpilot/internal/models"
	"github.com/unosuke/postpilot/internal/repository"
	"github.com/unosuke/postpilot/pkg/utils"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakePostRepo struct {
	repository.PostRepository
	due           []*models.ScheduledPost
	processing    []int64
	posted        []int64
	failed        map[int64]string
	remoteMediaID map[int64]string
}

func newFakePostRepo(due ...*models.ScheduledPost) *fakePostRepo {
	return &fakePostRepo{
		due:           due,
		failed:        map[int64]string{},
		remoteMediaID: map[int64]string{},
	}
}

func (f *fakePostRepo) ListDue(ctx context.Context, now time.Time) ([]*models.ScheduledPost, error) {
	return f.due, nil
}

func (f *fakePostRepo) MarkProcessing(ctx context.Context, id int64) error {
	f.processing = append(f.processing, id)
	return nil
}

func (f *fakePostRepo) SetRemoteMediaID(ctx context.Context, id int64, remoteMediaID string) error {
	f.remoteMediaID[id] = remoteMediaID
	return nil
}

func (f *fakePostRepo) MarkPosted(ctx context.Context, id int64) error {
	f.posted = append(f.posted, id)
	return nil
}

func (f *fakePostRepo) MarkFailed(ctx context.Context, id int64, errorMessage string) error {
	f.failed[id] = errorMessage
	return nil
}

type fakeAccountRepo struct {
	repository.AccountRepository
	accounts map[int64]*models.Account
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	return f.accounts[id], nil
}

type fakeMetaClient struct {
	meta.Client
	createErr    error
	publishErr   error
	creationID   string
	createCalls  int
	publishCalls int
	gotToken     string
}

func (f *fakeMetaClient) CreateMedia(ctx context.Context, igUserID string, params meta.CreateMediaParams) (string, error) {
	f.createCalls++
	f.gotToken = params.Token
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.creationID, nil
}

func (f *fakeMetaClient) PublishMedia(ctx context.Context, igUserID, creationID, token string) (string, error) {
	f.publishCalls++
	if f.publishErr != nil {
		return "", f.publishErr
	}
	return "media-1", nil
}

type nopRecorder struct{}

func (nopRecorder) Record(ctx context.Context, level, source, eventType, message string, meta map[string]any) {
}

func encryptedToken(t *testing.T, plain string) string {
	t.Helper()
	enc, err := utils.Encrypt([]byte(plain), []byte(testSecret))
	require.NoError(t, err)
	return enc
}

func activeAccount(t *testing.T) *models.Account {
	return &models.Account{
		ID:          1,
		IGUserID:    "17840000000",
		AccessToken: encryptedToken(t, "plain-token"),
		IsActive:    true,
	}
}

func duePost(id int64) *models.ScheduledPost {
	return &models.ScheduledPost{
		ID:        id,
		AccountID: 1,
		PostType:  models.PostTypeFeed,
		MediaType: models.MediaTypeImage,
		ImageURL:  sql.NullString{String: "https://cdn/a.jpg", Valid: true},
		Status:    models.PostStatusPending,
	}
}

func TestProcessDuePostsHappyPath(t *testing.T) {
	pr := newFakePostRepo(duePost(10))
	ar := &fakeAccountRepo{accounts: map[int64]*models.Account{1: activeAccount(t)}}
	client := &fakeMetaClient{creationID: "creation-5"}

	s := New(pr, ar, client, nopRecorder{}, testSecret)
	require.NoError(t, s.ProcessDuePosts(context.Background(), time.Now()))

	assert.Equal(t, []int64{10}, pr.processing)
	assert.Equal(t, []int64{10}, pr.posted)
	assert.Equal(t, "creation-5", pr.remoteMediaID[10])
	assert.Equal(t, "plain-token", client.gotToken)
	assert.Empty(t, pr.failed)
}

func TestProcessDuePostsAccountMissing(t *testing.T) {
	pr := newFakePostRepo(duePost(10))
	ar := &fakeAccountRepo{accounts: map[int64]*models.Account{}}
	client := &fakeMetaClient{creationID: "creation-5"}

	s := New(pr, ar, client, nopRecorder{}, testSecret)
	require.NoError(t, s.ProcessDuePosts(context.Background(), time.Now()))

	assert.Equal(t, "account not found", pr.failed[10])
	assert.Zero(t, client.createCalls)
	assert.Empty(t, pr.processing)
}

func TestProcessDuePostsAccountInactive(t *testing.T) {
	account := activeAccount(t)
	account.IsActive = false
	pr := newFakePostRepo(duePost(10))
	ar := &fakeAccountRepo{accounts: map[int64]*models.Account{1: account}}
	client := &fakeMetaClient{creationID: "creation-5"}

	s := New(pr, ar, client, nopRecorder{}, testSecret)
	require.NoError(t, s.ProcessDuePosts(context.Background(), time.Now()))

	assert.Equal(t, "account is inactive", pr.failed[10])
	assert.Zero(t, client.createCalls)
}

func TestProcessDuePostsCreateMediaFails(t *testing.T) {
	pr := newFakePostRepo(duePost(10))
	ar := &fakeAccountRepo{accounts: map[int64]*models.Account{1: activeAccount(t)}}
	client := &fakeMetaClient{createErr: &meta.APIError{Op: "create_media", Status: 400, Body: "invalid image"}}

	s := New(pr, ar, client, nopRecorder{}, testSecret)
	require.NoError(t, s.ProcessDuePosts(context.Background(), time.Now()))

	assert.Contains(t, pr.failed[10], "invalid image")
	assert.Zero(t, client.publishCalls)
	assert.Empty(t, pr.remoteMediaID)
	assert.Empty(t, pr.posted)
}

func TestProcessDuePostsPublishFails(t *testing.T) {
	pr := newFakePostRepo(duePost(10))
	ar := &fakeAccountRepo{accounts: map[int64]*models.Account{1: activeAccount(t)}}
	client := &fakeMetaClient{
		creationID: "creation-5",
		publishErr: &meta.APIError{Op: "publish_media", Status: 400, Body: "media not ready"},
	}

	s := New(pr, ar, client, nopRecorder{}, testSecret)
	require.NoError(t, s.ProcessDuePosts(context.Background(), time.Now()))

	// The creation handle survives the failed publish so the operator can
	// inspect what the platform holds.
	assert.Equal(t, "creation-5", pr.remoteMediaID[10])
	assert.Contains(t, pr.failed[10], "media not ready")
	assert.Empty(t, pr.posted)
}

func TestProcessDuePostsTransportError(t *testing.T) {
	pr := newFakePostRepo(duePost(10))
	ar := &fakeAccountRepo{accounts: map[int64]*models.Account{1: activeAccount(t)}}
	client := &fakeMetaClient{createErr: errors.New("connection refused")}

	s := New(pr, ar, client, nopRecorder{}, testSecret)
	require.NoError(t, s.ProcessDuePosts(context.Background(), time.Now()))

	assert.Equal(t, "unexpected error: connection refused", pr.failed[10])
}

func TestProcessDuePostsOneFailureDoesNotBlockOthers(t *testing.T) {
	pr := newFakePostRepo(duePost(10), duePost(11))
	ar := &fakeAccountRepo{accounts: map[int64]*models.Account{1: activeAccount(t)}}

	// First post fails, then the platform recovers for the second.
	client := &recoveringClient{failFirst: &meta.APIError{Op: "create_media", Status: 500, Body: "server error"}}

	s := New(pr, ar, client, nopRecorder{}, testSecret)
	require.NoError(t, s.ProcessDuePosts(context.Background(), time.Now()))

	assert.Contains(t, pr.failed[10], "server error")
	assert.Equal(t, []int64{11}, pr.posted)
}

type recoveringClient struct {
	meta.Client
	failFirst error
	calls     int
}

func (r *recoveringClient) CreateMedia(ctx context.Context, igUserID string, params meta.CreateMediaParams) (string, error) {
	r.calls++
	if r.calls == 1 {
		return "", r.failFirst
	}
	return "creation-5", nil
}

func (r *recoveringClient) PublishMedia(ctx context.Context, igUserID, creationID, token string) (string, error) {
	return "media-1", nil
}
