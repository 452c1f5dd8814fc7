package meta

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMediaReel(t *testing.T) {
	var gotPath string
	var gotForm map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{}
		for k := range r.PostForm {
			gotForm[k] = r.PostForm.Get(k)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "creation-123"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	creationID, err := c.CreateMedia(context.Background(), "17840000000", CreateMediaParams{
		PostType: "reel",
		VideoURL: "https://cdn.example.com/v.mp4",
		Caption:  "new reel",
		Token:    "tok",
	})

	require.NoError(t, err)
	assert.Equal(t, "creation-123", creationID)
	assert.Equal(t, "/17840000000/media", gotPath)
	assert.Equal(t, "REELS", gotForm["media_type"])
	assert.Equal(t, "https://cdn.example.com/v.mp4", gotForm["video_url"])
	assert.Equal(t, "new reel", gotForm["caption"])
	assert.Equal(t, "tok", gotForm["access_token"])
}

func TestCreateMediaFeedImage(t *testing.T) {
	var gotForm map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{}
		for k := range r.PostForm {
			gotForm[k] = r.PostForm.Get(k)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "creation-9"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.CreateMedia(context.Background(), "1", CreateMediaParams{
		PostType: "feed",
		ImageURL: "https://cdn.example.com/a.jpg",
		Token:    "tok",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.jpg", gotForm["image_url"])
	assert.Empty(t, gotForm["media_type"])
}

func TestPublishMedia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/1/media_publish", r.URL.Path)
		assert.Equal(t, "creation-9", r.PostForm.Get("creation_id"))
		json.NewEncoder(w).Encode(map[string]string{"id": "media-77"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	mediaID, err := c.PublishMedia(context.Background(), "1", "creation-9", "tok")

	require.NoError(t, err)
	assert.Equal(t, "media-77", mediaID)
}

func TestPublishMediaAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Media ID is not available"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.PublishMedia(context.Background(), "1", "creation-9", "tok")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "publish_media", apiErr.Op)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Body, "Media ID is not available")
}

func TestSendDirectMessage(t *testing.T) {
	var gotBody map[string]map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1/messages", r.URL.Path)
		assert.Equal(t, "tok", r.URL.Query().Get("access_token"))
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		w.Write([]byte(`{"message_id":"mid.1"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	sentID, err := c.SendDirectMessage(context.Background(), "1", "user-5", "hello", "tok")

	require.NoError(t, err)
	assert.Equal(t, "mid.1", sentID)
	assert.Equal(t, "user-5", gotBody["recipient"]["id"])
	assert.Equal(t, "hello", gotBody["message"]["text"])
}

func TestReplyToComment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/cmt-1/replies", r.URL.Path)
		assert.Equal(t, "thanks!", r.PostForm.Get("message"))
		w.Write([]byte(`{"id":"reply-1"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	replyID, err := c.ReplyToComment(context.Background(), "cmt-1", "thanks!", "tok")
	require.NoError(t, err)
	assert.Equal(t, "reply-1", replyID)
}

func TestRefreshToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/refresh_access_token", r.URL.Path)
		assert.Equal(t, "ig_refresh_token", r.PostForm.Get("grant_type"))
		json.NewEncoder(w).Encode(map[string]any{"access_token": "new-tok", "expires_in": 3600})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	token, expiresAt, err := c.RefreshToken(context.Background(), "old-refresh")

	require.NoError(t, err)
	assert.Equal(t, "new-tok", token)
	assert.False(t, expiresAt.IsZero())
}
