package models

import (
	"fmt"
	"time"
)

type ContentType string

const (
	ContentTypeMessage ContentType = "message"
	ContentTypeImage   ContentType = "image"
	ContentTypeReport  ContentType = "report"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeMessage, ContentTypeImage, ContentTypeReport:
		return true
	}
	return false
}

// ParseContentType returns an error naming the accepted values.
func ParseContentType(s string) (ContentType, error) {
	t := ContentType(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid content_type %q: must be message, image, or report", s)
	}
	return t, nil
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q: must be high, medium, or low", s)
	}
	return p, nil
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusEscalated Status = "escalated"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusEscalated:
		return true
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid status %q: must be pending, approved, rejected, or escalated", s)
	}
	return st, nil
}

// FlaggedItem is a piece of submitted content awaiting moderation.
// Priority and AISummary are computed once at creation; Status is the only
// field that changes afterwards.
type FlaggedItem struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID     string      `gorm:"size:255;not null;index" json:"-"`
	ContentType ContentType `gorm:"size:20;not null" json:"content_type"`
	Content     string      `gorm:"type:text;not null" json:"content"`
	Priority    Priority    `gorm:"size:10;not null;index" json:"priority"`
	Status      Status      `gorm:"size:20;not null;default:'pending';index" json:"status"`
	AISummary   string      `gorm:"column:ai_summary;type:text;not null" json:"ai_summary"`
	CreatedAt   time.Time   `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null" json:"updated_at"`
}

func (FlaggedItem) TableName() string {
	return "flagged_items"
}
