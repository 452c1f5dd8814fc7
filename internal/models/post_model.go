package models

import (
	"database/sql"
	"time"
)

type ScheduledPost struct {
	ID            int64          `db:"id" json:"id"`
	AccountID     int64          `db:"account_id" json:"account_id"`
	PostType      string         `db:"post_type" json:"post_type"`
	MediaType     string         `db:"media_type" json:"media_type"`
	ImageURL      sql.NullString `db:"image_url" json:"image_url"`
	VideoURL      sql.NullString `db:"video_url" json:"video_url"`
	Caption       string         `db:"caption" json:"caption"`
	ScheduledAt   time.Time      `db:"scheduled_at" json:"scheduled_at"`
	Status        string         `db:"status" json:"status"`
	RemoteMediaID sql.NullString `db:"remote_media_id" json:"remote_media_id"`
	ErrorMessage  sql.NullString `db:"error_message" json:"error_message"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

type MediaAsset struct {
	ID        int64     `db:"id" json:"id"`
	FileName  string    `db:"file_name" json:"file_name"`
	FileType  string    `db:"file_type" json:"file_type"`
	FileSize  int64     `db:"file_size" json:"file_size"`
	FileURL   string    `db:"file_url" json:"file_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const (
	PostStatusPending    = "pending"
	PostStatusProcessing = "processing"
	PostStatusPosted     = "posted"
	PostStatusFailed     = "failed"
	PostStatusCanceled   = "canceled"
	PostStatusPaused     = "paused"
)

const (
	PostTypeFeed  = "feed"
	PostTypeReel  = "reel"
	PostTypeStory = "story"
)

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)
