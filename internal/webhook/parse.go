// Package webhook ingests Meta webhook deliveries: comments on media and
// direct messages.
package webhook

import (
	"encoding/json"
	"fmt"
	"time"
)

// InboundEvent is one normalized comment or message pulled out of a webhook
// delivery. AccountIGUserID identifies the receiving business account,
// ExternalID is the platform's id for the comment or message.
type InboundEvent struct {
	AccountIGUserID string
	SenderID        string
	ExternalID      string
	Text            string
	MediaID         string
	ThreadID        string
	Timestamp       time.Time
}

type commentPayload struct {
	Entry []struct {
		ID      string `json:"id"`
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				ID   string `json:"id"`
				Text string `json:"text"`
				From struct {
					ID       string `json:"id"`
					Username string `json:"username"`
				} `json:"from"`
				Media struct {
					ID string `json:"id"`
				} `json:"media"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// ParseCommentEvents extracts comment events from a webhook body. Malformed
// entries produce warnings instead of failing the whole delivery; the
// platform retries on non-200 and a poison entry must not wedge the feed.
func ParseCommentEvents(body []byte) ([]InboundEvent, []string, error) {
	var payload commentPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, nil, fmt.Errorf("decode comment webhook: %w", err)
	}

	var events []InboundEvent
	var warnings []string
	for i, entry := range payload.Entry {
		if entry.ID == "" {
			warnings = append(warnings, fmt.Sprintf("entry %d: missing account id", i))
			continue
		}
		for j, change := range entry.Changes {
			if change.Field != "comments" {
				continue
			}
			if change.Value.ID == "" {
				warnings = append(warnings, fmt.Sprintf("entry %d change %d: missing comment id", i, j))
				continue
			}
			if change.Value.From.ID == "" {
				warnings = append(warnings, fmt.Sprintf("entry %d change %d: missing sender", i, j))
				continue
			}
			events = append(events, InboundEvent{
				AccountIGUserID: entry.ID,
				SenderID:        change.Value.From.ID,
				ExternalID:      change.Value.ID,
				Text:            change.Value.Text,
				MediaID:         change.Value.Media.ID,
				Timestamp:       time.Now(),
			})
		}
	}
	return events, warnings, nil
}

type messagePayload struct {
	Entry []struct {
		ID        string `json:"id"`
		Time      int64  `json:"time"`
		Messaging []struct {
			Sender struct {
				ID string `json:"id"`
			} `json:"sender"`
			Recipient struct {
				ID string `json:"id"`
			} `json:"recipient"`
			Timestamp int64 `json:"timestamp"`
			Message   struct {
				MID    string `json:"mid"`
				Text   string `json:"text"`
				IsEcho bool   `json:"is_echo"`
			} `json:"message"`
		} `json:"messaging"`
	} `json:"entry"`
}

// ParseMessageEvents extracts direct message events from a webhook body.
// Echo deliveries (the account's own outbound messages reflected back) are
// skipped.
func ParseMessageEvents(body []byte) ([]InboundEvent, []string, error) {
	var payload messagePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, nil, fmt.Errorf("decode message webhook: %w", err)
	}

	var events []InboundEvent
	var warnings []string
	for i, entry := range payload.Entry {
		if entry.ID == "" {
			warnings = append(warnings, fmt.Sprintf("entry %d: missing account id", i))
			continue
		}
		for j, msg := range entry.Messaging {
			if msg.Message.IsEcho {
				continue
			}
			if msg.Message.MID == "" {
				warnings = append(warnings, fmt.Sprintf("entry %d messaging %d: missing message id", i, j))
				continue
			}
			if msg.Sender.ID == "" {
				warnings = append(warnings, fmt.Sprintf("entry %d messaging %d: missing sender", i, j))
				continue
			}
			ts := time.Now()
			if msg.Timestamp > 0 {
				ts = time.UnixMilli(msg.Timestamp)
			}
			events = append(events, InboundEvent{
				AccountIGUserID: entry.ID,
				SenderID:        msg.Sender.ID,
				ExternalID:      msg.Message.MID,
				Text:            msg.Message.Text,
				ThreadID:        msg.Sender.ID,
				Timestamp:       ts,
			})
		}
	}
	return events, warnings, nil
}
