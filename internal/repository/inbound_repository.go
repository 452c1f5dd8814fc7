package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/unosuke/postpilot/internal/models"
)

// ErrDuplicateEvent is returned when an inbound event with the same external
// id has already been recorded. The uniqueness constraint on the log table is
// the dedup boundary: two racing deliveries of the same event cannot both
// insert, whichever loses gets this error.
var ErrDuplicateEvent = errors.New("inbound event already recorded")

const uniqueViolation = "23505"

type InboundRepository interface {
	Create(ctx context.Context, kind models.InboundKind, l *models.InboundLog) (int64, error)
	List(ctx context.Context, kind models.InboundKind, accountID int64, replied *bool, limit int) ([]*models.InboundLog, error)
	MarkReplied(ctx context.Context, kind models.InboundKind, id, ruleID int64, at time.Time) error
	CountUnreplied(ctx context.Context, kind models.InboundKind) (int64, error)
}

type inboundRepository struct {
	db *sql.DB
}

func NewInboundRepository(db *sql.DB) InboundRepository {
	return &inboundRepository{db: db}
}

func inboundTable(kind models.InboundKind) string {
	if kind == models.InboundKindDM {
		return "dm_logs"
	}
	return "comment_logs"
}

func (r *inboundRepository) Create(ctx context.Context, kind models.InboundKind, l *models.InboundLog) (int64, error) {
	var query string
	var args []any

	if kind == models.InboundKindDM {
		query = `
			INSERT INTO dm_logs (account_id, message_id, ig_user_id, thread_id, direction, text)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		direction := l.Direction
		if direction == "" {
			direction = models.DirectionIn
		}
		args = []any{l.AccountID, l.ExternalID, l.IGUserID, l.ThreadID, direction, l.Text}
	} else {
		query = `
			INSERT INTO comment_logs (account_id, comment_id, ig_user_id, media_id, text)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`
		args = []any{l.AccountID, l.ExternalID, l.IGUserID, l.MediaID, l.Text}
	}

	var id int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, ErrDuplicateEvent
		}
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *inboundRepository) selectQuery(kind models.InboundKind) string {
	if kind == models.InboundKindDM {
		return `SELECT id, account_id, message_id, ig_user_id, thread_id, direction, text, replied, used_rule_id, created_at, replied_at FROM dm_logs`
	}
	return `SELECT id, account_id, comment_id, ig_user_id, media_id, text, replied, used_rule_id, created_at, replied_at FROM comment_logs`
}

func (r *inboundRepository) scan(kind models.InboundKind, row interface{ Scan(...any) error }) (*models.InboundLog, error) {
	var l models.InboundLog
	var err error
	if kind == models.InboundKindDM {
		err = row.Scan(&l.ID, &l.AccountID, &l.ExternalID, &l.IGUserID, &l.ThreadID,
			&l.Direction, &l.Text, &l.Replied, &l.UsedRuleID, &l.CreatedAt, &l.RepliedAt)
	} else {
		err = row.Scan(&l.ID, &l.AccountID, &l.ExternalID, &l.IGUserID, &l.MediaID,
			&l.Text, &l.Replied, &l.UsedRuleID, &l.CreatedAt, &l.RepliedAt)
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *inboundRepository) List(ctx context.Context, kind models.InboundKind, accountID int64, replied *bool, limit int) ([]*models.InboundLog, error) {
	query := r.selectQuery(kind) + ` WHERE 1=1`
	args := []any{}

	if kind == models.InboundKindDM {
		query += ` AND direction = 'in'`
	}
	if accountID != 0 {
		args = append(args, accountID)
		query += ` AND account_id = $1`
	}
	if replied != nil {
		args = append(args, *replied)
		if accountID != 0 {
			query += ` AND replied = $2`
		} else {
			query += ` AND replied = $1`
		}
	}
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	switch len(args) {
	case 1:
		query += ` ORDER BY created_at DESC LIMIT $1`
	case 2:
		query += ` ORDER BY created_at DESC LIMIT $2`
	default:
		query += ` ORDER BY created_at DESC LIMIT $3`
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var logs []*models.InboundLog
	for rows.Next() {
		l, err := r.scan(kind, rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// MarkReplied is the single mutation an inbound log row receives after
// creation.
func (r *inboundRepository) MarkReplied(ctx context.Context, kind models.InboundKind, id, ruleID int64, at time.Time) error {
	query := `UPDATE ` + inboundTable(kind) + ` SET replied = TRUE, used_rule_id = $1, replied_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, ruleID, at, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *inboundRepository) CountUnreplied(ctx context.Context, kind models.InboundKind) (int64, error) {
	query := `SELECT COUNT(*) FROM ` + inboundTable(kind) + ` WHERE replied = FALSE`
	if kind == models.InboundKindDM {
		query += ` AND direction = 'in'`
	}

	var count int64
	err := r.db.QueryRowContext(ctx, query).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}
