package model

import (
	"time"

	"valentine-pages/internal/document"

	"gorm.io/datatypes"
)

type EntitlementStatus string

const (
	EntitlementPending  EntitlementStatus = "pending"
	EntitlementActive   EntitlementStatus = "active"
	EntitlementInactive EntitlementStatus = "inactive"
)

type PageStatus string

const (
	PagePublished   PageStatus = "published"
	PageUnpublished PageStatus = "unpublished"
)

// Entitlement is the right to publish once, keyed by the payment session.
type Entitlement struct {
	SessionID     string            `gorm:"primaryKey;size:128;not null"`
	Plan          string            `gorm:"size:32;not null"`
	Status        EntitlementStatus `gorm:"size:16;index;not null"` // pending, active, inactive
	CustomerEmail *string           `gorm:"size:255"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PendingPublish holds a draft across the payment redirect.
type PendingPublish struct {
	SessionID  string                                 `gorm:"primaryKey;size:128;not null"`
	TemplateID string                                 `gorm:"size:64;not null"`
	Plan       string                                 `gorm:"size:32;not null"`
	Document   datatypes.JSONType[document.Document] `gorm:"not null"`
	CreatedAt  time.Time
}

type Page struct {
	Slug       string                                 `gorm:"primaryKey;size:16;not null"`
	TemplateID string                                 `gorm:"size:64;index;not null"`
	Document   datatypes.JSONType[document.Document] `gorm:"not null"`
	Status     PageStatus                             `gorm:"size:16;not null"` // published, unpublished
	// NULL for free-tier pages; unique otherwise so one session yields one page.
	EntitlementSessionID *string `gorm:"size:128;uniqueIndex"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}

// DevicePublishCount backs the free-tier publish counter when Redis is off.
type DevicePublishCount struct {
	DeviceID  string `gorm:"primaryKey;size:128;not null"`
	Published int64  `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
