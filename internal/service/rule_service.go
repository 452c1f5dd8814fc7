package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/unosuke/postpilot/internal/models"
	"github.com/unosuke/postpilot/internal/repository"
	"github.com/unosuke/postpilot/internal/rules"
	"github.com/unosuke/postpilot/internal/transfer"
)

type RuleService interface {
	Create(ctx context.Context, kind models.RuleKind, rc *transfer.RuleCreation) (int64, error)
	List(ctx context.Context, kind models.RuleKind, accountID int64) ([]*models.ReplyRule, error)
	Update(ctx context.Context, kind models.RuleKind, id int64, ru *transfer.RuleUpdate) error
	Reorder(ctx context.Context, kind models.RuleKind, order *transfer.RuleOrderUpdate) error
	Remove(ctx context.Context, kind models.RuleKind, id int64) error
	// Test evaluates the account's active rules against a sample text without
	// touching the platform.
	Test(ctx context.Context, kind models.RuleKind, req *transfer.RuleTestRequest) (*transfer.RuleTestResult, error)
}

type ruleService struct {
	rr repository.RuleRepository
	tr repository.TemplateRepository
}

func NewRuleService(rr repository.RuleRepository, tr repository.TemplateRepository) RuleService {
	return &ruleService{rr: rr, tr: tr}
}

func (s *ruleService) Create(ctx context.Context, kind models.RuleKind, rc *transfer.RuleCreation) (int64, error) {
	var err error

	if rc.Keyword == "" {
		err = errors.New("keyword cannot be empty")
		slog.Info(err.Error())
		return 0, err
	}
	if rc.ReplyText == "" && rc.TemplateID == 0 {
		err = errors.New("reply_text or template_id is required")
		slog.Info(err.Error())
		return 0, err
	}

	rule := models.ReplyRule{
		AccountID: rc.AccountID,
		Keyword:   rc.Keyword,
		ReplyText: rc.ReplyText,
		Priority:  rc.Priority,
	}
	if rc.TemplateID != 0 {
		tmpl, err := s.tr.GetByID(ctx, rc.TemplateID)
		if err != nil {
			return 0, err
		}
		if tmpl == nil {
			err = errors.New("template doesn't exist")
			slog.Info(err.Error())
			return 0, err
		}
		rule.TemplateID = sql.NullInt64{Int64: rc.TemplateID, Valid: true}
	}

	return s.rr.Create(ctx, kind, &rule)
}

func (s *ruleService) List(ctx context.Context, kind models.RuleKind, accountID int64) ([]*models.ReplyRule, error) {
	return s.rr.ListByAccount(ctx, kind, accountID, false)
}

func (s *ruleService) Update(ctx context.Context, kind models.RuleKind, id int64, ru *transfer.RuleUpdate) error {
	rule, err := s.rr.GetByID(ctx, kind, id)
	if err != nil {
		return err
	}
	if rule == nil {
		err = errors.New("rule doesn't exist")
		slog.Info(err.Error())
		return err
	}

	if ru.Keyword != "" {
		rule.Keyword = ru.Keyword
	}
	if ru.ReplyText != "" {
		rule.ReplyText = ru.ReplyText
	}
	if ru.IsActive != nil {
		rule.IsActive = *ru.IsActive
	}
	if ru.TemplateID != 0 {
		rule.TemplateID = sql.NullInt64{Int64: ru.TemplateID, Valid: true}
	}
	if ru.Priority != 0 {
		rule.Priority = ru.Priority
	}

	return s.rr.Update(ctx, kind, rule)
}

// Reorder rewrites priorities so the given ids evaluate in list order,
// starting from 1.
func (s *ruleService) Reorder(ctx context.Context, kind models.RuleKind, order *transfer.RuleOrderUpdate) error {
	if len(order.RuleIDs) == 0 {
		err := errors.New("rule_ids cannot be empty")
		slog.Info(err.Error())
		return err
	}

	for i, id := range order.RuleIDs {
		if err := s.rr.SetPriority(ctx, kind, id, i+1); err != nil {
			return err
		}
	}
	return nil
}

func (s *ruleService) Remove(ctx context.Context, kind models.RuleKind, id int64) error {
	return s.rr.Remove(ctx, kind, id)
}

func (s *ruleService) Test(ctx context.Context, kind models.RuleKind, req *transfer.RuleTestRequest) (*transfer.RuleTestResult, error) {
	ruleSet, err := s.rr.ListByAccount(ctx, kind, req.AccountID, true)
	if err != nil {
		return nil, err
	}

	matched := rules.Match(ruleSet, req.Text)
	if matched == nil {
		return &transfer.RuleTestResult{Matched: false}, nil
	}

	var tmpl *models.MessageTemplate
	if matched.TemplateID.Valid {
		tmpl, err = s.tr.GetByID(ctx, matched.TemplateID.Int64)
		if err != nil {
			return nil, err
		}
	}

	return &transfer.RuleTestResult{
		Matched:   true,
		RuleID:    matched.ID,
		Keyword:   matched.Keyword,
		ReplyText: rules.ReplyText(matched, tmpl),
	}, nil
}
