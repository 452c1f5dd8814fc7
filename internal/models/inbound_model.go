package models

import (
	"database/sql"
	"time"
)

// InboundKind selects the inbound log table. The external event id is the
// platform comment id for comments and the message id for DMs; both are
// unique per kind and act as the ingestion dedup key.
type InboundKind string

const (
	InboundKindComment InboundKind = "comment"
	InboundKindDM      InboundKind = "dm"
)

type InboundLog struct {
	ID         int64          `db:"id" json:"id"`
	AccountID  int64          `db:"account_id" json:"account_id"`
	ExternalID string         `db:"external_id" json:"external_id"`
	IGUserID   string         `db:"ig_user_id" json:"ig_user_id"`
	MediaID    sql.NullString `db:"media_id" json:"media_id,omitempty"`
	ThreadID   sql.NullString `db:"thread_id" json:"thread_id,omitempty"`
	Direction  string         `db:"direction" json:"direction,omitempty"`
	Text       string         `db:"text" json:"text"`
	Replied    bool           `db:"replied" json:"replied"`
	UsedRuleID sql.NullInt64  `db:"used_rule_id" json:"used_rule_id"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	RepliedAt  sql.NullTime   `db:"replied_at" json:"replied_at"`
}

const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

type Conversation struct {
	ID                int64        `db:"id" json:"id"`
	AccountID         int64        `db:"account_id" json:"account_id"`
	IGUserID          string       `db:"ig_user_id" json:"ig_user_id"`
	LastUserMessageAt sql.NullTime `db:"last_user_message_at" json:"last_user_message_at"`
	LastBotMessageAt  sql.NullTime `db:"last_bot_message_at" json:"last_bot_message_at"`
	IsOpen            bool         `db:"is_open" json:"is_open"`
	CreatedAt         time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time    `db:"updated_at" json:"updated_at"`
}
