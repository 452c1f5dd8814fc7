package webhook

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/unosuke/postpilot/internal/meta"
	"github.com/unosuke/postpilot/internal/models"
	"github.com/unosuke/postpilot/internal/repository"
	"github.com/unosuke/postpilot/internal/rules"
	"github.com/unosuke/postpilot/internal/service"
	"github.com/unosuke/postpilot/pkg/utils"
)

// Ingestor persists inbound events and sends keyword auto replies. Every
// event lands in its log table exactly once; replies happen at most once
// per event because the dedup insert precedes the platform call.
type Ingestor struct {
	ar        repository.AccountRepository
	ir        repository.InboundRepository
	rr        repository.RuleRepository
	tr        repository.TemplateRepository
	client    meta.Client
	conv      service.ConversationService
	events    service.EventRecorder
	secretKey string
	now       func() time.Time
}

func NewIngestor(
	ar repository.AccountRepository,
	ir repository.InboundRepository,
	rr repository.RuleRepository,
	tr repository.TemplateRepository,
	client meta.Client,
	conv service.ConversationService,
	events service.EventRecorder,
	secretKey string) *Ingestor {
	return &Ingestor{
		ar:        ar,
		ir:        ir,
		rr:        rr,
		tr:        tr,
		client:    client,
		conv:      conv,
		events:    events,
		secretKey: secretKey,
		now:       time.Now,
	}
}

// HandleComment processes one inbound comment. Duplicate deliveries and
// the account's own comments are dropped silently.
func (ig *Ingestor) HandleComment(ctx context.Context, ev InboundEvent) error {
	account, err := ig.ar.GetByIGUserID(ctx, ev.AccountIGUserID)
	if err != nil {
		return err
	}
	if account == nil {
		ig.events.Record(ctx, models.LevelWarn, "webhook", "unknown_account", "comment for unknown account", map[string]any{
			"ig_user_id": ev.AccountIGUserID,
		})
		return nil
	}
	if ev.SenderID == account.IGUserID {
		return nil
	}

	entry := models.InboundLog{
		AccountID:  account.ID,
		ExternalID: ev.ExternalID,
		IGUserID:   ev.SenderID,
		Text:       ev.Text,
	}
	if ev.MediaID != "" {
		entry.MediaID = sql.NullString{String: ev.MediaID, Valid: true}
	}

	logID, err := ig.ir.Create(ctx, models.InboundKindComment, &entry)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEvent) {
			slog.Debug("duplicate comment delivery", "comment_id", ev.ExternalID)
			return nil
		}
		return err
	}

	matched, replyText, err := ig.matchRule(ctx, models.RuleKindComment, account.ID, ev.Text)
	if err != nil {
		return err
	}
	if matched == nil {
		slog.Debug("no rule matched", "comment_id", ev.ExternalID)
		return nil
	}

	if !account.IsActive {
		return nil
	}

	token, err := utils.Decrypt(account.AccessToken, []byte(ig.secretKey))
	if err != nil {
		return err
	}

	replyID, err := ig.client.ReplyToComment(ctx, ev.ExternalID, replyText, token)
	if err != nil {
		ig.events.Record(ctx, models.LevelError, "webhook", "comment_reply_failed", err.Error(), map[string]any{
			"comment_id": ev.ExternalID,
			"rule_id":    matched.ID,
		})
		return nil
	}

	if err := ig.ir.MarkReplied(ctx, models.InboundKindComment, logID, matched.ID, ig.now()); err != nil {
		return err
	}

	ig.events.Record(ctx, models.LevelInfo, "webhook", "comment_replied", "auto reply sent to comment", map[string]any{
		"comment_id": ev.ExternalID,
		"rule_id":    matched.ID,
		"reply_id":   replyID,
	})
	return nil
}

// HandleMessage processes one inbound DM. The conversation window is
// refreshed from the user's message before the reply decision, so the
// message that opens a conversation can itself be auto answered.
func (ig *Ingestor) HandleMessage(ctx context.Context, ev InboundEvent) error {
	account, err := ig.ar.GetByIGUserID(ctx, ev.AccountIGUserID)
	if err != nil {
		return err
	}
	if account == nil {
		ig.events.Record(ctx, models.LevelWarn, "webhook", "unknown_account", "message for unknown account", map[string]any{
			"ig_user_id": ev.AccountIGUserID,
		})
		return nil
	}
	if ev.SenderID == account.IGUserID {
		return nil
	}

	entry := models.InboundLog{
		AccountID:  account.ID,
		ExternalID: ev.ExternalID,
		IGUserID:   ev.SenderID,
		Direction:  models.DirectionIn,
		Text:       ev.Text,
	}
	if ev.ThreadID != "" {
		entry.ThreadID = sql.NullString{String: ev.ThreadID, Valid: true}
	}

	logID, err := ig.ir.Create(ctx, models.InboundKindDM, &entry)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEvent) {
			slog.Debug("duplicate message delivery", "message_id", ev.ExternalID)
			return nil
		}
		return err
	}

	if err := ig.conv.RecordInbound(ctx, account.ID, ev.SenderID, ev.Timestamp); err != nil {
		return err
	}

	matched, replyText, err := ig.matchRule(ctx, models.RuleKindDM, account.ID, ev.Text)
	if err != nil {
		return err
	}
	if matched == nil {
		slog.Debug("no rule matched", "message_id", ev.ExternalID)
		return nil
	}

	if !account.IsActive {
		return nil
	}

	allowed, err := ig.conv.CanAutoReply(ctx, account.ID, ev.SenderID, ig.now())
	if err != nil {
		return err
	}
	if !allowed {
		ig.events.Record(ctx, models.LevelWarn, "webhook", "dm_window_closed", "matched rule but messaging window is closed", map[string]any{
			"message_id": ev.ExternalID,
			"rule_id":    matched.ID,
		})
		return nil
	}

	token, err := utils.Decrypt(account.AccessToken, []byte(ig.secretKey))
	if err != nil {
		return err
	}

	sentID, err := ig.client.SendDirectMessage(ctx, account.IGUserID, ev.SenderID, replyText, token)
	if err != nil {
		ig.events.Record(ctx, models.LevelError, "webhook", "dm_reply_failed", err.Error(), map[string]any{
			"message_id": ev.ExternalID,
			"rule_id":    matched.ID,
		})
		return nil
	}

	sentAt := ig.now()
	if err := ig.ir.MarkReplied(ctx, models.InboundKindDM, logID, matched.ID, sentAt); err != nil {
		return err
	}
	if err := ig.conv.RecordOutbound(ctx, account.ID, ev.SenderID, sentAt); err != nil {
		return err
	}

	// The platform does not always echo a usable id for sends; fall back to
	// a generated one so the outbound row still has a unique key.
	if sentID == "" {
		generated, _ := gonanoid.New()
		sentID = "out-" + generated
	}
	outbound := models.InboundLog{
		AccountID:  account.ID,
		ExternalID: sentID,
		IGUserID:   ev.SenderID,
		ThreadID:   entry.ThreadID,
		Direction:  models.DirectionOut,
		Text:       replyText,
	}
	if _, err := ig.ir.Create(ctx, models.InboundKindDM, &outbound); err != nil {
		slog.Info(err.Error())
	}

	ig.events.Record(ctx, models.LevelInfo, "webhook", "dm_replied", "auto reply sent to direct message", map[string]any{
		"message_id": ev.ExternalID,
		"rule_id":    matched.ID,
		"sent_id":    sentID,
	})
	return nil
}

func (ig *Ingestor) matchRule(ctx context.Context, kind models.RuleKind, accountID int64, text string) (*models.ReplyRule, string, error) {
	ruleSet, err := ig.rr.ListByAccount(ctx, kind, accountID, true)
	if err != nil {
		return nil, "", err
	}

	matched := rules.Match(ruleSet, text)
	if matched == nil {
		return nil, "", nil
	}

	var tmpl *models.MessageTemplate
	if matched.TemplateID.Valid {
		tmpl, err = ig.tr.GetByID(ctx, matched.TemplateID.Int64)
		if err != nil {
			return nil, "", err
		}
	}
	return matched, rules.ReplyText(matched, tmpl), nil
}
