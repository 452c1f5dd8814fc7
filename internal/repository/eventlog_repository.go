package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/unosuke/postpilot/internal/models"
)

type EventLogRepository interface {
	Create(ctx context.Context, e *models.EventLog) error
	List(ctx context.Context, level, source string, limit int) ([]*models.EventLog, error)
}

type eventLogRepository struct {
	db *sql.DB
}

func NewEventLogRepository(db *sql.DB) EventLogRepository {
	return &eventLogRepository{db: db}
}

func (r *eventLogRepository) Create(ctx context.Context, e *models.EventLog) error {
	query := `
		INSERT INTO app_event_logs (level, source, event_type, message, meta)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, e.Level, e.Source, e.EventType, e.Message, e.Meta)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *eventLogRepository) List(ctx context.Context, level, source string, limit int) ([]*models.EventLog, error) {
	query := `SELECT id, level, source, event_type, message, meta, created_at FROM app_event_logs WHERE 1=1`
	args := []any{}

	if level != "" {
		args = append(args, level)
		query += ` AND level = $1`
	}
	if source != "" {
		args = append(args, source)
		if level != "" {
			query += ` AND source = $2`
		} else {
			query += ` AND source = $1`
		}
	}
	if limit <= 0 {
		limit = 200
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

	var logs []*models.EventLog
	for rows.Next() {
		var e models.EventLog
		if err := rows.Scan(&e.ID, &e.Level, &e.Source, &e.EventType, &e.Message, &e.Meta, &e.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		logs = append(logs, &e)
	}
	return logs, rows.Err()
}
