package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unosuke/postpilot/internal/models"
	"github.com/unosuke/postpilot/internal/repository"
)

type fakeConversationRepo struct {
	repository.ConversationRepository
	conv *models.Conversation
}

func (f *fakeConversationRepo) Get(ctx context.Context, accountID int64, igUserID string) (*models.Conversation, error) {
	return f.conv, nil
}

func TestCanAutoReplyInsideWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeConversationRepo{conv: &models.Conversation{
		LastUserMessageAt: sql.NullTime{Time: now.Add(-23 * time.Hour), Valid: true},
	}}

	ok, err := NewConversationService(repo).CanAutoReply(context.Background(), 1, "user-1", now)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCanAutoReplyExactBoundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeConversationRepo{conv: &models.Conversation{
		LastUserMessageAt: sql.NullTime{Time: now.Add(-AutoReplyWindow), Valid: true},
	}}

	ok, err := NewConversationService(repo).CanAutoReply(context.Background(), 1, "user-1", now)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCanAutoReplyExpiredWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeConversationRepo{conv: &models.Conversation{
		LastUserMessageAt: sql.NullTime{Time: now.Add(-AutoReplyWindow - time.Second), Valid: true},
	}}

	ok, err := NewConversationService(repo).CanAutoReply(context.Background(), 1, "user-1", now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanAutoReplyNoConversation(t *testing.T) {
	ok, err := NewConversationService(&fakeConversationRepo{}).CanAutoReply(context.Background(), 1, "user-1", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanAutoReplyNoUserMessage(t *testing.T) {
	repo := &fakeConversationRepo{conv: &models.Conversation{}}

	ok, err := NewConversationService(repo).CanAutoReply(context.Background(), 1, "user-1", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
}
