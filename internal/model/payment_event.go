package model

import "strings"

// PayPal webhook event types the entitlement flow reacts to.
const (
	EventCaptureCompleted = "PAYMENT.CAPTURE.COMPLETED"
	EventCapturePending   = "PAYMENT.CAPTURE.PENDING"
	EventCaptureDenied    = "PAYMENT.CAPTURE.DENIED"
	EventCaptureDeclined  = "PAYMENT.CAPTURE.DECLINED"
)

const (
	CaptureStatusCompleted = "COMPLETED"
	CaptureStatusPending   = "PENDING"
	CaptureStatusDeclined  = "DECLINED"
)

// PaymentEvent is a PayPal webhook notification as relayed to us, signed
// with the shared webhook secret.
type PaymentEvent struct {
	ID         string          `json:"id"`
	EventType  string          `json:"event_type"`
	CreateTime string          `json:"create_time"`
	Resource   PaymentResource `json:"resource"`
}

// PaymentResource is the capture the event describes.
type PaymentResource struct {
	ID                string            `json:"id"`
	Status            string            `json:"status"`
	CustomID          string            `json:"custom_id"`
	Payer             Payer             `json:"payer"`
	SupplementaryData SupplementaryData `json:"supplementary_data"`
}

type RelatedIDs struct {
	OrderID string `json:"order_id"`
}

type SupplementaryData struct {
	RelatedIDs RelatedIDs `json:"related_ids"`
}

// OrderID is the checkout session the capture belongs to.
func (r PaymentResource) OrderID() string {
	return r.SupplementaryData.RelatedIDs.OrderID
}

// Plan reads the plan from the custom id written at checkout, formatted as
// "<plan>:<templateId>".
func (r PaymentResource) Plan() string {
	plan, _, _ := strings.Cut(r.CustomID, ":")
	return plan
}

// CheckoutCustomID is the purchase unit custom id that carries plan metadata
// from checkout to the capture webhook.
func CheckoutCustomID(plan, templateID string) string {
	return plan + ":" + templateID
}
