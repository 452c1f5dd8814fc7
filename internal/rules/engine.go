// Package rules implements keyword matching for auto replies.
package rules

import (
	"strings"

	"github.com/unosuke/postpilot/internal/models"
)

// Match returns the first rule whose keyword appears in text, comparing
// case-insensitively. The input slice must already be in evaluation order;
// the repository returns rules sorted by priority.
func Match(ruleSet []*models.ReplyRule, text string) *models.ReplyRule {
	lowered := strings.ToLower(text)
	for _, rule := range ruleSet {
		if !rule.IsActive {
			continue
		}
		if rule.Keyword == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(rule.Keyword)) {
			return rule
		}
	}
	return nil
}

// ReplyText resolves what a matched rule should send. An active bound
// template overrides the rule's own reply text; an inactive template is
// ignored and the rule falls back to its inline text.
func ReplyText(rule *models.ReplyRule, template *models.MessageTemplate) string {
	if template != nil && template.IsActive && template.Body != "" {
		return template.Body
	}
	return rule.ReplyText
}
