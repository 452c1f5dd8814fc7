package service

import (
	"context"
	"time"

	"github.com/unosuke/postpilot/internal/repository"
)

// AutoReplyWindow is how long after a user's last message the platform
// allows a business account to send messages into the conversation.
const AutoReplyWindow = 24 * time.Hour

type ConversationService interface {
	RecordInbound(ctx context.Context, accountID int64, igUserID string, at time.Time) error
	RecordOutbound(ctx context.Context, accountID int64, igUserID string, at time.Time) error
	// CanAutoReply reports whether a DM auto reply is allowed right now. A
	// conversation with no recorded user message is closed.
	CanAutoReply(ctx context.Context, accountID int64, igUserID string, now time.Time) (bool, error)
}

type conversationService struct {
	cr repository.ConversationRepository
}

func NewConversationService(cr repository.ConversationRepository) ConversationService {
	return &conversationService{cr: cr}
}

func (s *conversationService) RecordInbound(ctx context.Context, accountID int64, igUserID string, at time.Time) error {
	return s.cr.UpsertInbound(ctx, accountID, igUserID, at)
}

func (s *conversationService) RecordOutbound(ctx context.Context, accountID int64, igUserID string, at time.Time) error {
	return s.cr.SetLastBotMessage(ctx, accountID, igUserID, at)
}

func (s *conversationService) CanAutoReply(ctx context.Context, accountID int64, igUserID string, now time.Time) (bool, error) {
	conv, err := s.cr.Get(ctx, accountID, igUserID)
	if err != nil {
		return false, err
	}
	if conv == nil || !conv.LastUserMessageAt.Valid {
		return false, nil
	}
	// Exactly 24 hours since the last user message still counts as inside
	// the window.
	return now.Sub(conv.LastUserMessageAt.Time) <= AutoReplyWindow, nil
}
