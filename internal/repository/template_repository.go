package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/unosuke/postpilot/internal/models"
)

type TemplateRepository interface {
	Create(ctx context.Context, t *models.MessageTemplate) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.MessageTemplate, error)
	List(ctx context.Context, accountID int64, kind string) ([]*models.MessageTemplate, error)
	Update(ctx context.Context, t *models.MessageTemplate) error
	Remove(ctx context.Context, id int64) error
}

type templateRepository struct {
	db *sql.DB
}

func NewTemplateRepository(db *sql.DB) TemplateRepository {
	return &templateRepository{db: db}
}

const templateColumns = `id, account_id, kind, name, body, is_active, created_at, updated_at`

func scanTemplate(row interface{ Scan(...any) error }) (*models.MessageTemplate, error) {
	var t models.MessageTemplate
	err := row.Scan(&t.ID, &t.AccountID, &t.Kind, &t.Name, &t.Body, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *templateRepository) Create(ctx context.Context, t *models.MessageTemplate) (int64, error) {
	query := `
		INSERT INTO message_templates (account_id, kind, name, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, t.AccountID, t.Kind, t.Name, t.Body).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *templateRepository) GetByID(ctx context.Context, id int64) (*models.MessageTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM message_templates WHERE id = $1`
	t, err := scanTemplate(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return t, nil
}

func (r *templateRepository) List(ctx context.Context, accountID int64, kind string) ([]*models.MessageTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM message_templates WHERE 1=1`
	args := []any{}

	if accountID != 0 {
		args = append(args, accountID)
		query += ` AND account_id = $1`
	}
	if kind != "" {
		args = append(args, kind)
		if accountID != 0 {
			query += ` AND kind = $2`
		} else {
			query += ` AND kind = $1`
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var templates []*models.MessageTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *templateRepository) Update(ctx context.Context, t *models.MessageTemplate) error {
	query := `
		UPDATE message_templates
		SET kind = $1,
			name = $2,
			body = $3,
			is_active = $4,
			updated_at = $5
		WHERE id = $6
	`
	_, err := r.db.ExecContext(ctx, query, t.Kind, t.Name, t.Body, t.IsActive, time.Now(), t.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *templateRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM message_templates WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
