package models

import (
	"database/sql"
	"time"
)

// RuleKind selects which reply rule table (and which outbound platform
// action) a rule belongs to. Comment rules answer media comments, DM rules
// answer direct messages; the shape is identical.
type RuleKind string

const (
	RuleKindComment RuleKind = "comment"
	RuleKindDM      RuleKind = "dm"
)

type ReplyRule struct {
	ID         int64         `db:"id" json:"id"`
	AccountID  int64         `db:"account_id" json:"account_id"`
	Keyword    string        `db:"keyword" json:"keyword"`
	ReplyText  string        `db:"reply_text" json:"reply_text"`
	IsActive   bool          `db:"is_active" json:"is_active"`
	TemplateID sql.NullInt64 `db:"template_id" json:"template_id"`
	Priority   int           `db:"priority" json:"priority"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updated_at"`
}

type MessageTemplate struct {
	ID        int64     `db:"id" json:"id"`
	AccountID int64     `db:"account_id" json:"account_id"`
	Kind      string    `db:"kind" json:"kind"`
	Name      string    `db:"name" json:"name"`
	Body      string    `db:"body" json:"body"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

const (
	TemplateKindComment = "comment"
	TemplateKindDM      = "dm"
	TemplateKindCaption = "caption"
)
