// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"
)

// Comment is a free-text note attached to one feedback item. The reference
// is checked by lookup when the comment is created, not by a foreign key.
type Comment struct {
	ID         string    `json:"id"`
	FeedbackID string    `json:"feedbackId"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NormalizeCommentContent trims content and rejects it when empty.
func NormalizeCommentContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", Invalidf("Comment content is required.")
	}
	return content, nil
}
