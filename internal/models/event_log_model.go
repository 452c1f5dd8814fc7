package models

import "time"

// EventLog is the append-only operational audit trail. Rows are written by
// the scheduler, the webhook ingestor and the jobs on every significant
// transition and are never mutated.
type EventLog struct {
	ID        int64     `db:"id" json:"id"`
	Level     string    `db:"level" json:"level"`
	Source    string    `db:"source" json:"source"`
	EventType string    `db:"event_type" json:"event_type"`
	Message   string    `db:"message" json:"message"`
	Meta      string    `db:"meta" json:"meta"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)
