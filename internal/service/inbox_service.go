package service

import (
	"context"
	"time"

	"github.com/unosuke/postpilot/internal/models"
	"github.com/unosuke/postpilot/internal/repository"
)

// InboxEntry is an inbound log row projected for the inbox views, with the
// DM auto-reply window state resolved for the sender.
type InboxEntry struct {
	*models.InboundLog
	CanAutoReply bool `json:"can_auto_reply"`
}

type InboxService interface {
	Comments(ctx context.Context, accountID int64, replied *bool, limit int) ([]*InboxEntry, error)
	DMs(ctx context.Context, accountID int64, replied *bool, limit int) ([]*InboxEntry, error)
	Conversations(ctx context.Context, accountID int64) ([]*models.Conversation, error)
}

type inboxService struct {
	ir  repository.InboundRepository
	cr  repository.ConversationRepository
	cs  ConversationService
	now func() time.Time
}

func NewInboxService(ir repository.InboundRepository, cr repository.ConversationRepository, cs ConversationService) InboxService {
	return &inboxService{ir: ir, cr: cr, cs: cs, now: time.Now}
}

func (s *inboxService) Comments(ctx context.Context, accountID int64, replied *bool, limit int) ([]*InboxEntry, error) {
	logs, err := s.ir.List(ctx, models.InboundKindComment, accountID, replied, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]*InboxEntry, 0, len(logs))
	for _, l := range logs {
		// Comment replies have no messaging window.
		entries = append(entries, &InboxEntry{InboundLog: l, CanAutoReply: true})
	}
	return entries, nil
}

func (s *inboxService) DMs(ctx context.Context, accountID int64, replied *bool, limit int) ([]*InboxEntry, error) {
	logs, err := s.ir.List(ctx, models.InboundKindDM, accountID, replied, limit)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entries := make([]*InboxEntry, 0, len(logs))
	for _, l := range logs {
		open, err := s.cs.CanAutoReply(ctx, l.AccountID, l.IGUserID, now)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &InboxEntry{InboundLog: l, CanAutoReply: open})
	}
	return entries, nil
}

func (s *inboxService) Conversations(ctx context.Context, accountID int64) ([]*models.Conversation, error) {
	return s.cr.List(ctx, accountID)
}
