package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/unosuke/postpilot/internal/models"
)

func rule(id int64, keyword, reply string, priority int) *models.ReplyRule {
	return &models.ReplyRule{
		ID:        id,
		Keyword:   keyword,
		ReplyText: reply,
		IsActive:  true,
		Priority:  priority,
	}
}

func TestMatchCaseInsensitive(t *testing.T) {
	ruleSet := []*models.ReplyRule{rule(1, "Price", "check our site", 1)}

	matched := Match(ruleSet, "what is the PRICE of this?")
	assert.NotNil(t, matched)
	assert.Equal(t, int64(1), matched.ID)
}

func TestMatchFirstInPriorityOrder(t *testing.T) {
	// The narrower keyword sits at a lower priority value and must win even
	// though the broader one also matches.
	ruleSet := []*models.ReplyRule{
		rule(1, "ありがとう", "どういたしまして", 1),
		rule(2, "あり", "ありの話ですか", 2),
	}

	matched := Match(ruleSet, "ありがとうございます")
	assert.NotNil(t, matched)
	assert.Equal(t, int64(1), matched.ID)
}

func TestMatchSkipsInactive(t *testing.T) {
	inactive := rule(1, "hello", "hi", 1)
	inactive.IsActive = false
	ruleSet := []*models.ReplyRule{inactive, rule(2, "hello", "hey there", 2)}

	matched := Match(ruleSet, "hello!")
	assert.NotNil(t, matched)
	assert.Equal(t, int64(2), matched.ID)
}

func TestMatchNoHit(t *testing.T) {
	ruleSet := []*models.ReplyRule{rule(1, "price", "check our site", 1)}

	assert.Nil(t, Match(ruleSet, "love this post"))
	assert.Nil(t, Match(nil, "anything"))
}

func TestMatchIgnoresEmptyKeyword(t *testing.T) {
	ruleSet := []*models.ReplyRule{rule(1, "", "catch all", 1)}

	assert.Nil(t, Match(ruleSet, "hello"))
}

func TestReplyTextTemplateOverrides(t *testing.T) {
	r := rule(1, "price", "inline reply", 1)
	tmpl := &models.MessageTemplate{ID: 10, Body: "template reply", IsActive: true}

	assert.Equal(t, "template reply", ReplyText(r, tmpl))
	assert.Equal(t, "inline reply", ReplyText(r, nil))
	assert.Equal(t, "inline reply", ReplyText(r, &models.MessageTemplate{IsActive: true}))
}

func TestReplyTextInactiveTemplateIgnored(t *testing.T) {
	r := rule(1, "price", "inline reply", 1)
	tmpl := &models.MessageTemplate{ID: 10, Body: "template reply", IsActive: false}

	assert.Equal(t, "inline reply", ReplyText(r, tmpl))
}
