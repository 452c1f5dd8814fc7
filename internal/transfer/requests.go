package transfer

import "github.com/golang-jwt/jwt/v5"

type LoginRequest struct {
	Password string `json:"password"`
}

type CustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type AccountCreation struct {
	Name         string `json:"name"`
	IGUserID     string `json:"ig_user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type PostCreation struct {
	AccountID   int64  `json:"account_id"`
	PostType    string `json:"post_type"`
	ImageURL    string `json:"image_url"`
	VideoURL    string `json:"video_url"`
	Caption     string `json:"caption"`
	ScheduledAt string `json:"scheduled_at"`
}

type Reschedule struct {
	ScheduledAt string `json:"scheduled_at"`
}

type RuleCreation struct {
	AccountID  int64  `json:"account_id"`
	Keyword    string `json:"keyword"`
	ReplyText  string `json:"reply_text"`
	TemplateID int64  `json:"template_id"`
	Priority   int    `json:"priority"`
}

type RuleUpdate struct {
	Keyword    string `json:"keyword"`
	ReplyText  string `json:"reply_text"`
	IsActive   *bool  `json:"is_active"`
	TemplateID int64  `json:"template_id"`
	Priority   int    `json:"priority"`
}

// RuleOrderUpdate lists rule ids in the desired evaluation order; positions
// become priorities 1..N.
type RuleOrderUpdate struct {
	RuleIDs []int64 `json:"rule_ids"`
}

type RuleTestRequest struct {
	AccountID int64  `json:"account_id"`
	Text      string `json:"text"`
}

type RuleTestResult struct {
	Matched   bool   `json:"matched"`
	RuleID    int64  `json:"rule_id,omitempty"`
	Keyword   string `json:"keyword,omitempty"`
	ReplyText string `json:"reply_text,omitempty"`
}

type TemplateCreation struct {
	AccountID int64  `json:"account_id"`
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Body      string `json:"body"`
}

type DashboardSummary struct {
	Accounts          int64 `json:"accounts"`
	ActiveAccounts    int64 `json:"active_accounts"`
	PendingPosts      int64 `json:"pending_posts"`
	PendingToday      int64 `json:"pending_today"`
	PostedPosts       int64 `json:"posted_posts"`
	FailedPosts       int64 `json:"failed_posts"`
	UnrepliedComments int64 `json:"unreplied_comments"`
	UnrepliedDMs      int64 `json:"unreplied_dms"`
}
