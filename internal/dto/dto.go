package dto

import (
	"encoding/json"
	"time"

	"valentine-pages/internal/document"
)

type CheckoutRequest struct {
	Plan        string          `json:"plan" validate:"max=32"`
	TemplateID  string          `json:"templateId" validate:"max=64"`
	DocSnapshot json.RawMessage `json:"docSnapshot"`
}

type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type CaptureRequest struct {
	SessionID string `json:"sessionId" validate:"max=255"`
}

type CaptureResponse struct {
	SessionID     string `json:"sessionId"`
	CaptureStatus string `json:"captureStatus"`
	Active        bool   `json:"active"`
}

type PublishRequest struct {
	TemplateID string          `json:"templateId" validate:"max=64"`
	Doc        json.RawMessage `json:"doc"`
	SessionID  string          `json:"sessionId" validate:"max=255"`
}

type PublishPendingRequest struct {
	SessionID string `json:"sessionId" validate:"required,max=255"`
}

type PublishResponse struct {
	Slug     string `json:"slug"`
	URL      string `json:"url"`
	Existing bool   `json:"existing,omitempty"`
}

type EntitlementResponse struct {
	Active    bool   `json:"active"`
	Plan      string `json:"plan,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

type PageResponse struct {
	Slug       string            `json:"slug"`
	TemplateID string            `json:"templateId"`
	Status     string            `json:"status"`
	Doc        document.Document `json:"doc"`
	CreatedAt  time.Time         `json:"createdAt"`
}

type ErrorResponse struct {
	ErrorKind string         `json:"errorKind"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Retryable bool           `json:"retryable,omitempty"`
}
