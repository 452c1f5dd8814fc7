package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/unosuke/postpilot/internal/models"
)

type ConversationRepository interface {
	Get(ctx context.Context, accountID int64, igUserID string) (*models.Conversation, error)
	List(ctx context.Context, accountID int64) ([]*models.Conversation, error)
	// UpsertInbound records that the user spoke. The (account_id, ig_user_id)
	// uniqueness constraint makes this safe under concurrent webhook
	// deliveries: whichever insert loses turns into an update.
	UpsertInbound(ctx context.Context, accountID int64, igUserID string, at time.Time) error
	SetLastBotMessage(ctx context.Context, accountID int64, igUserID string, at time.Time) error
}

type conversationRepository struct {
	db *sql.DB
}

func NewConversationRepository(db *sql.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

const conversationColumns = `id, account_id, ig_user_id, last_user_message_at, last_bot_message_at, is_open, created_at, updated_at`

func scanConversation(row interface{ Scan(...any) error }) (*models.Conversation, error) {
	var c models.Conversation
	err := row.Scan(&c.ID, &c.AccountID, &c.IGUserID, &c.LastUserMessageAt,
		&c.LastBotMessageAt, &c.IsOpen, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *conversationRepository) Get(ctx context.Context, accountID int64, igUserID string) (*models.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE account_id = $1 AND ig_user_id = $2`
	c, err := scanConversation(r.db.QueryRowContext(ctx, query, accountID, igUserID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return c, nil
}

func (r *conversationRepository) List(ctx context.Context, accountID int64) ([]*models.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations`
	args := []any{}

	if accountID != 0 {
		args = append(args, accountID)
		query += ` WHERE account_id = $1`
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var conversations []*models.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

func (r *conversationRepository) UpsertInbound(ctx context.Context, accountID int64, igUserID string, at time.Time) error {
	query := `
		INSERT INTO conversations (account_id, ig_user_id, last_user_message_at, is_open)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (account_id, ig_user_id)
		DO UPDATE SET last_user_message_at = EXCLUDED.last_user_message_at,
			is_open = TRUE,
			updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, accountID, igUserID, at)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *conversationRepository) SetLastBotMessage(ctx context.Context, accountID int64, igUserID string, at time.Time) error {
	query := `UPDATE conversations SET last_bot_message_at = $1, updated_at = NOW() WHERE account_id = $2 AND ig_user_id = $3`
	_, err := r.db.ExecContext(ctx, query, at, accountID, igUserID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
