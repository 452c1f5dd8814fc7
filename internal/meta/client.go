// Package meta talks to the Meta Graph API: media publishing, comment
// replies, direct messages and token refresh.
package meta

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// APIError carries the remote status and response body so callers can tell
// a platform rejection apart from transport failures.
type APIError struct {
	Op     string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("meta api error: %s: status %d: %s", e.Op, e.Status, e.Body)
}

type CreateMediaParams struct {
	PostType string
	ImageURL string
	VideoURL string
	Caption  string
	Token    string
}

type Client interface {
	// CreateMedia runs the first publishing step and returns the media
	// container creation id.
	CreateMedia(ctx context.Context, igUserID string, params CreateMediaParams) (string, error)
	// PublishMedia runs the second step and returns the published media id.
	PublishMedia(ctx context.Context, igUserID, creationID, token string) (string, error)
	// ReplyToComment returns the platform id of the created reply.
	ReplyToComment(ctx context.Context, commentID, text, token string) (string, error)
	// SendDirectMessage returns the platform id of the sent message.
	SendDirectMessage(ctx context.Context, igUserID, recipientID, text, token string) (string, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, time.Time, error)
}

type client struct {
	baseURL string
	// Media container creation can be slow for video; messaging calls
	// should fail fast so a stuck reply does not hold a webhook request.
	mediaClient     *http.Client
	messagingClient *http.Client
}

func NewClient(baseURL string) Client {
	return &client{
		baseURL:         baseURL,
		mediaClient:     &http.Client{Timeout: 30 * time.Second},
		messagingClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *client) CreateMedia(ctx context.Context, igUserID string, params CreateMediaParams) (string, error) {
	form := url.Values{}
	form.Set("access_token", params.Token)
	if params.Caption != "" {
		form.Set("caption", params.Caption)
	}

	switch params.PostType {
	case "reel":
		form.Set("media_type", "REELS")
		form.Set("video_url", params.VideoURL)
	case "story":
		form.Set("media_type", "STORIES")
		if params.VideoURL != "" {
			form.Set("video_url", params.VideoURL)
		} else {
			form.Set("image_url", params.ImageURL)
		}
	default:
		if params.VideoURL != "" {
			form.Set("media_type", "VIDEO")
			form.Set("video_url", params.VideoURL)
		} else {
			form.Set("image_url", params.ImageURL)
		}
	}

	endpoint := fmt.Sprintf("%s/%s/media", c.baseURL, igUserID)
	body, err := c.postForm(ctx, c.mediaClient, "create_media", endpoint, form)
	if err != nil {
		return "", err
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("create_media: decode response: %w", err)
	}
	return result.ID, nil
}

func (c *client) PublishMedia(ctx context.Context, igUserID, creationID, token string) (string, error) {
	form := url.Values{}
	form.Set("creation_id", creationID)
	form.Set("access_token", token)

	endpoint := fmt.Sprintf("%s/%s/media_publish", c.baseURL, igUserID)
	body, err := c.postForm(ctx, c.mediaClient, "publish_media", endpoint, form)
	if err != nil {
		return "", err
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("publish_media: decode response: %w", err)
	}
	return result.ID, nil
}

func (c *client) ReplyToComment(ctx context.Context, commentID, text, token string) (string, error) {
	form := url.Values{}
	form.Set("message", text)
	form.Set("access_token", token)

	endpoint := fmt.Sprintf("%s/%s/replies", c.baseURL, commentID)
	body, err := c.postForm(ctx, c.messagingClient, "reply_to_comment", endpoint, form)
	if err != nil {
		return "", err
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("reply_to_comment: decode response: %w", err)
	}
	return result.ID, nil
}

func (c *client) SendDirectMessage(ctx context.Context, igUserID, recipientID, text, token string) (string, error) {
	payload := map[string]any{
		"recipient": map[string]string{"id": recipientID},
		"message":   map[string]string{"text": text},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/%s/messages?access_token=%s", c.baseURL, igUserID, url.QueryEscape(token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.messagingClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send_direct_message: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{Op: "send_direct_message", Status: resp.StatusCode, Body: string(body)}
	}

	var result struct {
		MessageID string `json:"message_id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("send_direct_message: decode response: %w", err)
	}
	return result.MessageID, nil
}

func (c *client) RefreshToken(ctx context.Context, refreshToken string) (string, time.Time, error) {
	form := url.Values{}
	form.Set("grant_type", "ig_refresh_token")
	form.Set("access_token", refreshToken)

	endpoint := c.baseURL + "/refresh_access_token"
	body, err := c.postForm(ctx, c.messagingClient, "refresh_token", endpoint, form)
	if err != nil {
		return "", time.Time{}, err
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", time.Time{}, fmt.Errorf("refresh_token: decode response: %w", err)
	}
	return result.AccessToken, time.Now().Add(time.Duration(result.ExpiresIn) * time.Second), nil
}

func (c *client) postForm(ctx context.Context, hc *http.Client, op, endpoint string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Op: op, Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
