package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unosuke/postpilot/internal/models"
	"github.com/unosuke/postpilot/internal/repository"
	"github.com/unosuke/postpilot/internal/transfer"
)

type fakePostRepo struct {
	repository.PostRepository
	created      *models.ScheduledPost
	statusIfOK   bool
	statusIfFrom string
	statusIfTo   string
}

func (f *fakePostRepo) Create(ctx context.Context, p *models.ScheduledPost) (int64, error) {
	f.created = p
	return 1, nil
}

func (f *fakePostRepo) UpdateStatusIf(ctx context.Context, id int64, from, to string) (bool, error) {
	f.statusIfFrom = from
	f.statusIfTo = to
	return f.statusIfOK, nil
}

type fakeAccountRepo struct {
	repository.AccountRepository
	account *models.Account
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	return f.account, nil
}

func TestValidateMedia(t *testing.T) {
	tests := []struct {
		name      string
		postType  string
		imageURL  string
		videoURL  string
		wantType  string
		wantError bool
	}{
		{"feed image", "feed", "https://cdn/a.jpg", "", models.MediaTypeImage, false},
		{"feed video", "feed", "", "https://cdn/v.mp4", models.MediaTypeVideo, false},
		{"feed no media", "feed", "", "", "", true},
		{"feed both", "feed", "https://cdn/a.jpg", "https://cdn/v.mp4", "", true},
		{"reel video", "reel", "", "https://cdn/v.mp4", models.MediaTypeVideo, false},
		{"reel no video", "reel", "https://cdn/a.jpg", "", "", true},
		{"reel with image", "reel", "https://cdn/a.jpg", "https://cdn/v.mp4", "", true},
		{"story image", "story", "https://cdn/a.jpg", "", models.MediaTypeImage, false},
		{"story video", "story", "", "https://cdn/v.mp4", models.MediaTypeVideo, false},
		{"unknown type", "carousel", "https://cdn/a.jpg", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mediaType, err := validateMedia(tt.postType, tt.imageURL, tt.videoURL)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, mediaType)
		})
	}
}

func TestCreatePost(t *testing.T) {
	pr := &fakePostRepo{}
	ar := &fakeAccountRepo{account: &models.Account{ID: 1, IsActive: true}}
	svc := NewPostService(pr, ar)

	id, err := svc.Create(context.Background(), &transfer.PostCreation{
		AccountID:   1,
		PostType:    "reel",
		VideoURL:    "https://cdn/v.mp4",
		Caption:     "hello",
		ScheduledAt: "2025-06-01T09:30",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	require.NotNil(t, pr.created)
	assert.Equal(t, models.MediaTypeVideo, pr.created.MediaType)
	assert.Equal(t, time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC), pr.created.ScheduledAt)
}

func TestCreatePostBadTime(t *testing.T) {
	svc := NewPostService(&fakePostRepo{}, &fakeAccountRepo{account: &models.Account{ID: 1}})

	_, err := svc.Create(context.Background(), &transfer.PostCreation{
		AccountID:   1,
		PostType:    "feed",
		ImageURL:    "https://cdn/a.jpg",
		ScheduledAt: "tomorrow at nine",
	})
	assert.Error(t, err)
}

func TestCreatePostUnknownAccount(t *testing.T) {
	svc := NewPostService(&fakePostRepo{}, &fakeAccountRepo{})

	_, err := svc.Create(context.Background(), &transfer.PostCreation{
		AccountID:   99,
		PostType:    "feed",
		ImageURL:    "https://cdn/a.jpg",
		ScheduledAt: "2025-06-01T09:30",
	})
	assert.Error(t, err)
}

func TestCancelPendingOnly(t *testing.T) {
	pr := &fakePostRepo{statusIfOK: true}
	svc := NewPostService(pr, &fakeAccountRepo{})

	require.NoError(t, svc.Cancel(context.Background(), 5))
	assert.Equal(t, models.PostStatusPending, pr.statusIfFrom)
	assert.Equal(t, models.PostStatusCanceled, pr.statusIfTo)
}

func TestCancelAlreadyProcessing(t *testing.T) {
	svc := NewPostService(&fakePostRepo{statusIfOK: false}, &fakeAccountRepo{})

	err := svc.Cancel(context.Background(), 5)
	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestResumeFromPaused(t *testing.T) {
	pr := &fakePostRepo{statusIfOK: true}
	svc := NewPostService(pr, &fakeAccountRepo{})

	require.NoError(t, svc.Resume(context.Background(), 5))
	assert.Equal(t, models.PostStatusPaused, pr.statusIfFrom)
	assert.Equal(t, models.PostStatusPending, pr.statusIfTo)
}
