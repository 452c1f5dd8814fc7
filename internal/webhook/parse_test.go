package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommentEvents(t *testing.T) {
	body := []byte(`{
		"entry": [{
			"id": "17840000000",
			"changes": [{
				"field": "comments",
				"value": {
					"id": "cmt-1",
					"text": "what is the price?",
					"from": {"id": "user-5", "username": "buyer"},
					"media": {"id": "media-9"}
				}
			}]
		}]
	}`)

	events, warnings, err := ParseCommentEvents(body)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "17840000000", ev.AccountIGUserID)
	assert.Equal(t, "user-5", ev.SenderID)
	assert.Equal(t, "cmt-1", ev.ExternalID)
	assert.Equal(t, "what is the price?", ev.Text)
	assert.Equal(t, "media-9", ev.MediaID)
}

func TestParseCommentEventsSkipsOtherFields(t *testing.T) {
	body := []byte(`{
		"entry": [{
			"id": "17840000000",
			"changes": [{"field": "mentions", "value": {"id": "x"}}]
		}]
	}`)

	events, warnings, err := ParseCommentEvents(body)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Empty(t, events)
}

func TestParseCommentEventsWarnsOnMalformedEntry(t *testing.T) {
	body := []byte(`{
		"entry": [
			{"id": "", "changes": []},
			{"id": "17840000000", "changes": [
				{"field": "comments", "value": {"id": "", "from": {"id": "u"}}},
				{"field": "comments", "value": {"id": "cmt-2", "from": {"id": ""}}},
				{"field": "comments", "value": {"id": "cmt-3", "text": "hi", "from": {"id": "u"}, "media": {"id": "m"}}}
			]}
		]
	}`)

	events, warnings, err := ParseCommentEvents(body)
	require.NoError(t, err)
	assert.Len(t, warnings, 3)
	require.Len(t, events, 1)
	assert.Equal(t, "cmt-3", events[0].ExternalID)
}

func TestParseCommentEventsBadJSON(t *testing.T) {
	_, _, err := ParseCommentEvents([]byte(`{not json`))
	assert.Error(t, err)
}

func TestParseMessageEvents(t *testing.T) {
	body := []byte(`{
		"entry": [{
			"id": "17840000000",
			"time": 1717200000000,
			"messaging": [{
				"sender": {"id": "user-5"},
				"recipient": {"id": "17840000000"},
				"timestamp": 1717200000000,
				"message": {"mid": "mid.1", "text": "hello"}
			}]
		}]
	}`)

	events, warnings, err := ParseMessageEvents(body)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "17840000000", ev.AccountIGUserID)
	assert.Equal(t, "user-5", ev.SenderID)
	assert.Equal(t, "mid.1", ev.ExternalID)
	assert.Equal(t, "hello", ev.Text)
	assert.Equal(t, "user-5", ev.ThreadID)
	assert.Equal(t, int64(1717200000000), ev.Timestamp.UnixMilli())
}

func TestParseMessageEventsSkipsEchoes(t *testing.T) {
	body := []byte(`{
		"entry": [{
			"id": "17840000000",
			"messaging": [{
				"sender": {"id": "17840000000"},
				"recipient": {"id": "user-5"},
				"message": {"mid": "mid.2", "text": "our own reply", "is_echo": true}
			}]
		}]
	}`)

	events, warnings, err := ParseMessageEvents(body)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Empty(t, events)
}

func TestParseMessageEventsWarnsOnMissingMID(t *testing.T) {
	body := []byte(`{
		"entry": [{
			"id": "17840000000",
			"messaging": [{
				"sender": {"id": "user-5"},
				"message": {"mid": "", "text": "hello"}
			}]
		}]
	}`)

	events, warnings, err := ParseMessageEvents(body)
	require.NoError(t, err)
	assert.Len(t, warnings, 1)
	assert.Empty(t, events)
}
