package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"valentine-pages/internal/apperr"
	"valentine-pages/internal/catalog"
	"valentine-pages/internal/model"
	"valentine-pages/internal/repository"
	"valentine-pages/internal/webhook"

	"github.com/sirupsen/logrus"
)

type WebhookService interface {
	HandleWebhook(ctx context.Context, headers http.Header, body []byte) error
}

type webhookServiceImpl struct {
	secret           string
	tolerance        time.Duration
	now              func() time.Time
	catalog          *catalog.Catalog
	entitlementRepo  repository.EntitlementRepository
	webhookEventRepo repository.WebhookEventRepository
	logger           logrus.FieldLogger
}

func NewWebhookService(
	secret string,
	tolerance time.Duration,
	c *catalog.Catalog,
	entitlementRepo repository.EntitlementRepository,
	webhookEventRepo repository.WebhookEventRepository,
	logger logrus.FieldLogger,
) WebhookService {
	return &webhookServiceImpl{
		secret:           secret,
		tolerance:        tolerance,
		now:              time.Now,
		catalog:          c,
		entitlementRepo:  entitlementRepo,
		webhookEventRepo: webhookEventRepo,
		logger:           logger,
	}
}

func (s *webhookServiceImpl) HandleWebhook(ctx context.Context, headers http.Header, body []byte) error {
	err := webhook.Verify(headers.Get(webhook.SignatureHeader), body, s.secret, s.now(), s.tolerance)
	if err != nil {
		s.logger.WithError(err).Warn("webhook rejected")
		return apperr.Wrap(apperr.InvalidSignature, "Invalid webhook signature.", err)
	}

	var event model.PaymentEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return apperr.Wrap(apperr.InvalidBody, "Invalid webhook payload.", fmt.Errorf("decode webhook payload: %w", err))
	}

	if event.ID != "" {
		processed, err := s.webhookEventRepo.Exists(ctx, event.ID)
		if err != nil {
			return apperr.Wrap(apperr.Internal, "Failed to process webhook.", fmt.Errorf("check webhook event %s: %w", event.ID, err))
		}
		if processed {
			s.logger.WithField("eventId", event.ID).Debug("webhook already processed")
			return nil
		}
	}

	switch event.EventType {
	case model.EventCaptureCompleted, model.EventCaptureDenied, model.EventCaptureDeclined:
		if err := s.applyPaymentOutcome(ctx, &event); err != nil {
			return err
		}
	default:
		s.logger.WithField("eventType", event.EventType).Debug("webhook event ignored")
	}

	if event.ID != "" {
		if err := s.webhookEventRepo.MarkProcessed(ctx, event.ID, event.EventType); err != nil {
			return apperr.Wrap(apperr.Internal, "Failed to process webhook.", fmt.Errorf("mark webhook event %s: %w", event.ID, err))
		}
	}
	return nil
}

func (s *webhookServiceImpl) applyPaymentOutcome(ctx context.Context, event *model.PaymentEvent) error {
	resource := event.Resource
	sessionID := strings.TrimSpace(resource.OrderID())
	if sessionID == "" {
		return apperr.New(apperr.InvalidBody, "Webhook payload has no order id.")
	}
	plan := resource.Plan()
	if _, ok := s.catalog.Plan(plan); !ok {
		s.logger.WithFields(logrus.Fields{
			"eventId":   event.ID,
			"sessionId": sessionID,
			"plan":      plan,
		}).Warn("webhook for unknown plan ignored")
		return nil
	}

	entitlement := &model.Entitlement{
		SessionID: sessionID,
		Plan:      plan,
		Status:    paymentOutcome(event.EventType, resource.Status),
	}
	if resource.Payer.Email != "" {
		email := resource.Payer.Email
		entitlement.CustomerEmail = &email
	}

	changed, err := s.entitlementRepo.ApplyOutcome(ctx, entitlement)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to update entitlements.",
			fmt.Errorf("apply outcome for session %s: %w", sessionID, err))
	}

	s.logger.WithFields(logrus.Fields{
		"eventId":   event.ID,
		"sessionId": sessionID,
		"plan":      plan,
		"status":    entitlement.Status,
		"changed":   changed,
	}).Info("entitlement updated")
	return nil
}

// paymentOutcome maps a capture event to the entitlement status. A completed
// event whose capture is not COMPLETED leaves nothing to grant.
func paymentOutcome(eventType, captureStatus string) model.EntitlementStatus {
	if eventType != model.EventCaptureCompleted {
		return model.EntitlementInactive
	}
	if captureStatus == "" || captureStatus == model.CaptureStatusCompleted {
		return model.EntitlementActive
	}
	return model.EntitlementInactive
}
