package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/unosuke/postpilot/internal/models"
	"github.com/unosuke/postpilot/internal/repository"
	"github.com/unosuke/postpilot/internal/transfer"
)

// ErrStatusConflict is returned when a status transition is requested on a
// post that already left the expected status. Handlers map it to 409.
var ErrStatusConflict = errors.New("post is not in the expected status")

type PostService interface {
	Create(ctx context.Context, pc *transfer.PostCreation) (int64, error)
	List(ctx context.Context, accountID int64, status string) ([]*models.ScheduledPost, error)
	PostInfo(ctx context.Context, id int64) (*models.ScheduledPost, error)
	Reschedule(ctx context.Context, id int64, scheduledAt string) error
	Cancel(ctx context.Context, id int64) error
	Pause(ctx context.Context, id int64) error
	Resume(ctx context.Context, id int64) error
	Calendar(ctx context.Context, start, end time.Time, accountID int64) ([]*repository.CalendarPost, error)
}

type postService struct {
	pr repository.PostRepository
	ar repository.AccountRepository
}

func NewPostService(pr repository.PostRepository, ar repository.AccountRepository) PostService {
	return &postService{pr: pr, ar: ar}
}

func (s *postService) Create(ctx context.Context, pc *transfer.PostCreation) (int64, error) {
	var err error

	if pc == nil {
		err = errors.New("post creation data is nil")
		slog.Info(err.Error())
		return 0, err
	}

	account, err := s.ar.GetByID(ctx, pc.AccountID)
	if err != nil {
		return 0, err
	}
	if account == nil {
		err = errors.New("account doesn't exist")
		slog.Info(err.Error())
		return 0, err
	}

	scheduledAt, err := time.Parse("2006-01-02T15:04", pc.ScheduledAt)
	if err != nil {
		err = fmt.Errorf("invalid scheduled time format: %w", err)
		slog.Info(err.Error())
		return 0, err
	}

	mediaType, err := validateMedia(pc.PostType, pc.ImageURL, pc.VideoURL)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	post := models.ScheduledPost{
		AccountID:   pc.AccountID,
		PostType:    pc.PostType,
		MediaType:   mediaType,
		Caption:     pc.Caption,
		ScheduledAt: scheduledAt,
	}
	if pc.ImageURL != "" {
		post.ImageURL = sql.NullString{String: pc.ImageURL, Valid: true}
	}
	if pc.VideoURL != "" {
		post.VideoURL = sql.NullString{String: pc.VideoURL, Valid: true}
	}

	return s.pr.Create(ctx, &post)
}

// validateMedia checks the post type against the provided media URLs and
// returns the derived media type. Reels are video only; feed and story take
// one of image or video, never both.
func validateMedia(postType, imageURL, videoURL string) (string, error) {
	switch postType {
	case models.PostTypeFeed, models.PostTypeStory:
		if imageURL == "" && videoURL == "" {
			return "", errors.New("image_url or video_url is required")
		}
		if imageURL != "" && videoURL != "" {
			return "", errors.New("provide either image_url or video_url, not both")
		}
		if videoURL != "" {
			return models.MediaTypeVideo, nil
		}
		return models.MediaTypeImage, nil
	case models.PostTypeReel:
		if videoURL == "" {
			return "", errors.New("video_url is required for reels")
		}
		if imageURL != "" {
			return "", errors.New("reels cannot have an image_url")
		}
		return models.MediaTypeVideo, nil
	default:
		return "", fmt.Errorf("unknown post type: %s", postType)
	}
}

func (s *postService) List(ctx context.Context, accountID int64, status string) ([]*models.ScheduledPost, error) {
	return s.pr.List(ctx, accountID, status)
}

func (s *postService) PostInfo(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	post, err := s.pr.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		err = errors.New("post doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (s *postService) Reschedule(ctx context.Context, id int64, scheduledAt string) error {
	parsed, err := time.Parse("2006-01-02T15:04", scheduledAt)
	if err != nil {
		err = fmt.Errorf("invalid scheduled time format: %w", err)
		slog.Info(err.Error())
		return err
	}

	changed, err := s.pr.UpdateScheduleIfPending(ctx, id, parsed)
	if err != nil {
		return err
	}
	if !changed {
		return ErrStatusConflict
	}
	return nil
}

// Cancel only succeeds while the post is still pending. Once the scheduler
// has picked it up the remote calls may already be in flight.
func (s *postService) Cancel(ctx context.Context, id int64) error {
	return s.transition(ctx, id, models.PostStatusPending, models.PostStatusCanceled)
}

func (s *postService) Pause(ctx context.Context, id int64) error {
	return s.transition(ctx, id, models.PostStatusPending, models.PostStatusPaused)
}

func (s *postService) Resume(ctx context.Context, id int64) error {
	return s.transition(ctx, id, models.PostStatusPaused, models.PostStatusPending)
}

func (s *postService) transition(ctx context.Context, id int64, from, to string) error {
	changed, err := s.pr.UpdateStatusIf(ctx, id, from, to)
	if err != nil {
		return err
	}
	if !changed {
		return ErrStatusConflict
	}
	return nil
}

func (s *postService) Calendar(ctx context.Context, start, end time.Time, accountID int64) ([]*repository.CalendarPost, error) {
	return s.pr.ListCalendar(ctx, start, end, accountID)
}
