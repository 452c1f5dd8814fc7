// Package scheduler drives scheduled posts through the two-step Graph API
// publishing flow.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/unosuke/postpilot/internal/meta"
	"github.com/unosuke/postpilot/internal/models"
	"github.com/unosuke/postpilot/internal/repository"
	"github.com/unosuke/postpilot/internal/service"
	"github.com/unosuke/postpilot/pkg/utils"
)

type Scheduler struct {
	pr        repository.PostRepository
	ar        repository.AccountRepository
	client    meta.Client
	events    service.EventRecorder
	secretKey string
	now       func() time.Time
}

func New(pr repository.PostRepository, ar repository.AccountRepository, client meta.Client, events service.EventRecorder, secretKey string) *Scheduler {
	return &Scheduler{
		pr:        pr,
		ar:        ar,
		client:    client,
		events:    events,
		secretKey: secretKey,
		now:       time.Now,
	}
}

// Tick is the cron entry point.
func (s *Scheduler) Tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := s.ProcessDuePosts(ctx, s.now()); err != nil {
		slog.Info(err.Error())
	}
}

// ProcessDuePosts publishes every pending post whose time has come. One
// post failing never blocks the others; each failure lands on its own row.
func (s *Scheduler) ProcessDuePosts(ctx context.Context, now time.Time) error {
	due, err := s.pr.ListDue(ctx, now)
	if err != nil {
		return err
	}

	for _, post := range due {
		s.processPost(ctx, post)
	}
	return nil
}

func (s *Scheduler) processPost(ctx context.Context, post *models.ScheduledPost) {
	account, err := s.ar.GetByID(ctx, post.AccountID)
	if err != nil {
		s.fail(ctx, post, fmt.Sprintf("unexpected error: %s", err.Error()))
		return
	}
	if account == nil {
		s.fail(ctx, post, "account not found")
		return
	}
	if !account.IsActive {
		s.fail(ctx, post, "account is inactive")
		return
	}

	token, err := utils.Decrypt(account.AccessToken, []byte(s.secretKey))
	if err != nil {
		s.fail(ctx, post, fmt.Sprintf("unexpected error: %s", err.Error()))
		return
	}

	// The row moves to processing before any remote call so a concurrent
	// tick never publishes the same post twice.
	if err := s.pr.MarkProcessing(ctx, post.ID); err != nil {
		return
	}

	creationID, err := s.client.CreateMedia(ctx, account.IGUserID, meta.CreateMediaParams{
		PostType: post.PostType,
		ImageURL: post.ImageURL.String,
		VideoURL: post.VideoURL.String,
		Caption:  post.Caption,
		Token:    token,
	})
	if err != nil {
		s.fail(ctx, post, failureText(err))
		return
	}

	if err := s.pr.SetRemoteMediaID(ctx, post.ID, creationID); err != nil {
		s.fail(ctx, post, fmt.Sprintf("unexpected error: %s", err.Error()))
		return
	}

	mediaID, err := s.client.PublishMedia(ctx, account.IGUserID, creationID, token)
	if err != nil {
		s.fail(ctx, post, failureText(err))
		return
	}

	if err := s.pr.MarkPosted(ctx, post.ID); err != nil {
		slog.Info(err.Error())
		return
	}

	s.events.Record(ctx, models.LevelInfo, "scheduler", "post_published", "scheduled post published", map[string]any{
		"post_id":     post.ID,
		"account_id":  post.AccountID,
		"creation_id": creationID,
		"media_id":    mediaID,
	})
}

func (s *Scheduler) fail(ctx context.Context, post *models.ScheduledPost, message string) {
	if err := s.pr.MarkFailed(ctx, post.ID, message); err != nil {
		slog.Info(err.Error())
	}
	s.events.Record(ctx, models.LevelError, "scheduler", "post_failed", message, map[string]any{
		"post_id":    post.ID,
		"account_id": post.AccountID,
	})
}

// failureText keeps platform rejections verbatim so the operator sees the
// Graph API's own message; everything else is wrapped.
func failureText(err error) string {
	var apiErr *meta.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return fmt.Sprintf("unexpected error: %s", err.Error())
}
