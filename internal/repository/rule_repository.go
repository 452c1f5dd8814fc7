package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/unosuke/postpilot/internal/models"
)

// Comment and DM rules live in separate tables because they bind to
// different platform actions, but their shape is identical; one repository
// parameterized by kind serves both.
type RuleRepository interface {
	Create(ctx context.Context, kind models.RuleKind, rule *models.ReplyRule) (int64, error)
	GetByID(ctx context.Context, kind models.RuleKind, id int64) (*models.ReplyRule, error)
	ListByAccount(ctx context.Context, kind models.RuleKind, accountID int64, activeOnly bool) ([]*models.ReplyRule, error)
	Update(ctx context.Context, kind models.RuleKind, rule *models.ReplyRule) error
	SetPriority(ctx context.Context, kind models.RuleKind, id int64, priority int) error
	Remove(ctx context.Context, kind models.RuleKind, id int64) error
}

type ruleRepository struct {
	db *sql.DB
}

func NewRuleRepository(db *sql.DB) RuleRepository {
	return &ruleRepository{db: db}
}

func ruleTable(kind models.RuleKind) string {
	if kind == models.RuleKindDM {
		return "dm_reply_rules"
	}
	return "comment_reply_rules"
}

const ruleColumns = `id, account_id, keyword, reply_text, is_active, template_id, priority, created_at, updated_at`

func scanRule(row interface{ Scan(...any) error }) (*models.ReplyRule, error) {
	var rule models.ReplyRule
	err := row.Scan(&rule.ID, &rule.AccountID, &rule.Keyword, &rule.ReplyText,
		&rule.IsActive, &rule.TemplateID, &rule.Priority, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *ruleRepository) Create(ctx context.Context, kind models.RuleKind, rule *models.ReplyRule) (int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (account_id, keyword, reply_text, template_id, priority)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, ruleTable(kind))

	var id int64
	err := r.db.QueryRowContext(ctx, query, rule.AccountID, rule.Keyword, rule.ReplyText,
		rule.TemplateID, rule.Priority).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *ruleRepository) GetByID(ctx context.Context, kind models.RuleKind, id int64) (*models.ReplyRule, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, ruleColumns, ruleTable(kind))
	rule, err := scanRule(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return rule, nil
}

// ListByAccount returns rules in evaluation order: priority ascending, then
// creation order for ties.
func (r *ruleRepository) ListByAccount(ctx context.Context, kind models.RuleKind, accountID int64, activeOnly bool) ([]*models.ReplyRule, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE account_id = $1`, ruleColumns, ruleTable(kind))
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY priority ASC, created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var rules []*models.ReplyRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (r *ruleRepository) Update(ctx context.Context, kind models.RuleKind, rule *models.ReplyRule) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET keyword = $1,
			reply_text = $2,
			is_active = $3,
			template_id = $4,
			priority = $5,
			updated_at = $6
		WHERE id = $7
	`, ruleTable(kind))

	_, err := r.db.ExecContext(ctx, query, rule.Keyword, rule.ReplyText, rule.IsActive,
		rule.TemplateID, rule.Priority, time.Now(), rule.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *ruleRepository) SetPriority(ctx context.Context, kind models.RuleKind, id int64, priority int) error {
	query := fmt.Sprintf(`UPDATE %s SET priority = $1, updated_at = $2 WHERE id = $3`, ruleTable(kind))
	_, err := r.db.ExecContext(ctx, query, priority, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *ruleRepository) Remove(ctx context.Context, kind models.RuleKind, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, ruleTable(kind))
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
