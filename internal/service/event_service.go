package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/unosuke/postpilot/internal/models"
	"github.com/unosuke/postpilot/internal/repository"
)

// EventRecorder appends to the operational audit trail. Recording must never
// take a caller down with it, so failures are logged and swallowed.
type EventRecorder interface {
	Record(ctx context.Context, level, source, eventType, message string, meta map[string]any)
}

type eventRecorder struct {
	el repository.EventLogRepository
}

func NewEventRecorder(el repository.EventLogRepository) EventRecorder {
	return &eventRecorder{el: el}
}

func (s *eventRecorder) Record(ctx context.Context, level, source, eventType, message string, meta map[string]any) {
	metaJSON := "{}"
	if len(meta) > 0 {
		raw, err := json.Marshal(meta)
		if err != nil {
			slog.Info(err.Error())
		} else {
			metaJSON = string(raw)
		}
	}

	slog.Info(message, "source", source, "event_type", eventType, "level", level)

	err := s.el.Create(ctx, &models.EventLog{
		Level:     level,
		Source:    source,
		EventType: eventType,
		Message:   message,
		Meta:      metaJSON,
	})
	if err != nil {
		slog.Info(err.Error())
	}
}
