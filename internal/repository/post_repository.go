package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/unosuke/postpilot/internal/models"
)

type CalendarPost struct {
	ID          int64     `json:"id"`
	AccountName string    `json:"account_name"`
	PostType    string    `json:"post_type"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`
}

type PostRepository interface {
	Create(ctx context.Context, p *models.ScheduledPost) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error)
	List(ctx context.Context, accountID int64, status string) ([]*models.ScheduledPost, error)
	ListDue(ctx context.Context, now time.Time) ([]*models.ScheduledPost, error)
	ListCalendar(ctx context.Context, start, end time.Time, accountID int64) ([]*CalendarPost, error)
	MarkProcessing(ctx context.Context, id int64) error
	SetRemoteMediaID(ctx context.Context, id int64, remoteMediaID string) error
	MarkPosted(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errorMessage string) error
	// UpdateStatusIf moves a post from one status to another and reports
	// whether a row actually changed; administrative transitions (cancel,
	// pause, resume) use it so a post that already left the expected status
	// is rejected instead of silently overwritten.
	UpdateStatusIf(ctx context.Context, id int64, from, to string) (bool, error)
	UpdateScheduleIfPending(ctx context.Context, id int64, scheduledAt time.Time) (bool, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountPendingSince(ctx context.Context, since time.Time) (int64, error)
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, account_id, post_type, media_type, image_url, video_url, caption, scheduled_at, status, remote_media_id, error_message, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (*models.ScheduledPost, error) {
	var p models.ScheduledPost
	err := row.Scan(&p.ID, &p.AccountID, &p.PostType, &p.MediaType, &p.ImageURL, &p.VideoURL,
		&p.Caption, &p.ScheduledAt, &p.Status, &p.RemoteMediaID, &p.ErrorMessage, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) Create(ctx context.Context, p *models.ScheduledPost) (int64, error) {
	query := `
		INSERT INTO scheduled_posts (account_id, post_type, media_type, image_url, video_url, caption, scheduled_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, p.AccountID, p.PostType, p.MediaType,
		p.ImageURL, p.VideoURL, p.Caption, p.ScheduledAt, models.PostStatusPending).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	query := `SELECT ` + postColumns + ` FROM scheduled_posts WHERE id = $1`
	p, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return p, nil
}

func (r *postRepository) List(ctx context.Context, accountID int64, status string) ([]*models.ScheduledPost, error) {
	query := `SELECT ` + postColumns + ` FROM scheduled_posts WHERE 1=1`
	args := []any{}

	if accountID != 0 {
		args = append(args, accountID)
		query += ` AND account_id = $1`
	}
	if status != "" {
		args = append(args, status)
		if accountID != 0 {
			query += ` AND status = $2`
		} else {
			query += ` AND status = $1`
		}
	}
	query += ` ORDER BY scheduled_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.ScheduledPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListDue returns pending posts whose scheduled time has passed. The status
// filter makes the query safe to re-run every tick: rows already moved to
// processing, posted or failed are never selected again.
func (r *postRepository) ListDue(ctx context.Context, now time.Time) ([]*models.ScheduledPost, error) {
	query := `SELECT ` + postColumns + ` FROM scheduled_posts
		WHERE status = $1 AND scheduled_at <= $2
		ORDER BY scheduled_at ASC`
	rows, err := r.db.QueryContext(ctx, query, models.PostStatusPending, now)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.ScheduledPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *postRepository) ListCalendar(ctx context.Context, start, end time.Time, accountID int64) ([]*CalendarPost, error) {
	query := `SELECT p.id, a.name, p.post_type, p.scheduled_at, p.status
		FROM scheduled_posts p
		JOIN accounts a ON p.account_id = a.id
		WHERE p.scheduled_at >= $1 AND p.scheduled_at <= $2`
	args := []any{start, end}

	if accountID != 0 {
		args = append(args, accountID)
		query += ` AND p.account_id = $3`
	}
	query += ` ORDER BY p.scheduled_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*CalendarPost
	for rows.Next() {
		var cp CalendarPost
		if err := rows.Scan(&cp.ID, &cp.AccountName, &cp.PostType, &cp.ScheduledAt, &cp.Status); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, &cp)
	}
	return posts, rows.Err()
}

func (r *postRepository) MarkProcessing(ctx context.Context, id int64) error {
	return r.setStatus(ctx, id, models.PostStatusProcessing)
}

func (r *postRepository) MarkPosted(ctx context.Context, id int64) error {
	return r.setStatus(ctx, id, models.PostStatusPosted)
}

func (r *postRepository) setStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE scheduled_posts SET status = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) SetRemoteMediaID(ctx context.Context, id int64, remoteMediaID string) error {
	query := `UPDATE scheduled_posts SET remote_media_id = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, remoteMediaID, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) MarkFailed(ctx context.Context, id int64, errorMessage string) error {
	query := `UPDATE scheduled_posts SET status = $1, error_message = $2, updated_at = $3 WHERE id = $4`
	_, err := r.db.ExecContext(ctx, query, models.PostStatusFailed, errorMessage, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) UpdateStatusIf(ctx context.Context, id int64, from, to string) (bool, error) {
	query := `UPDATE scheduled_posts SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	result, err := r.db.ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected == 1, nil
}

func (r *postRepository) UpdateScheduleIfPending(ctx context.Context, id int64, scheduledAt time.Time) (bool, error) {
	query := `UPDATE scheduled_posts SET scheduled_at = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	result, err := r.db.ExecContext(ctx, query, scheduledAt, time.Now(), id, models.PostStatusPending)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected == 1, nil
}

func (r *postRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scheduled_posts WHERE status = $1`, status).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}

func (r *postRepository) CountPendingSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM scheduled_posts WHERE status = $1 AND scheduled_at >= $2`
	err := r.db.QueryRowContext(ctx, query, models.PostStatusPending, since).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}
