package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"valentine-pages/internal/apperr"
	"valentine-pages/internal/catalog"
	"valentine-pages/internal/client"
	"valentine-pages/internal/document"
	"valentine-pages/internal/logger"
	"valentine-pages/internal/model"
	"valentine-pages/internal/policy"
	"valentine-pages/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CheckoutInput struct {
	Plan       string
	TemplateID string
	Document   []byte
}

type CheckoutResult struct {
	SessionID   string
	RedirectURL string
}

type CaptureOutput struct {
	SessionID     string
	CaptureStatus string
	// Active reports the entitlement as of now. Activation itself arrives
	// with the capture webhook, so a fresh capture usually reports false.
	Active        bool
}

type CheckoutService interface {
	Checkout(ctx context.Context, in *CheckoutInput) (*CheckoutResult, error)
	Capture(ctx context.Context, sessionID string) (*CaptureOutput, error)
}

type checkoutServiceImpl struct {
	catalog         *catalog.Catalog
	normalizer      *document.Normalizer
	policy          *policy.Engine
	provider        client.PaymentProvider
	serviceBaseUrl  string
	entitlementRepo repository.EntitlementRepository
	pendingRepo     repository.PendingPublishRepository
	logger          logrus.FieldLogger
}

func NewCheckoutService(
	c *catalog.Catalog,
	normalizer *document.Normalizer,
	policyEngine *policy.Engine,
	provider client.PaymentProvider,
	serviceBaseUrl string,
	entitlementRepo repository.EntitlementRepository,
	pendingRepo repository.PendingPublishRepository,
	logger logrus.FieldLogger,
) CheckoutService {
	return &checkoutServiceImpl{
		catalog:         c,
		normalizer:      normalizer,
		policy:          policyEngine,
		provider:        provider,
		serviceBaseUrl:  strings.TrimRight(serviceBaseUrl, "/"),
		entitlementRepo: entitlementRepo,
		pendingRepo:     pendingRepo,
		logger:          logger,
	}
}

// Checkout validates the request the same way publish will, opens a payment
// session and parks the draft until the client returns from payment.
func (s *checkoutServiceImpl) Checkout(ctx context.Context, in *CheckoutInput) (*CheckoutResult, error) {
	plan, ok := s.catalog.Plan(in.Plan)
	if !ok {
		return nil, apperr.New(apperr.InvalidPlan, "Missing or invalid plan.")
	}

	doc, err := s.normalizer.Normalize(in.TemplateID, in.Document)
	if err != nil {
		return nil, documentError(err)
	}

	// Early gate so the client can show an upsell before paying. Publish
	// evaluates it again against the stored entitlement.
	decision, _ := s.policy.Check(plan.ID, in.TemplateID, policy.CountPhotos(doc))
	if !decision.Allowed {
		return nil, policyError(decision)
	}

	session, err := s.provider.CreateCheckoutSession(ctx, &client.CheckoutSessionRequest{
		Plan:        plan.ID,
		TemplateID:  in.TemplateID,
		Amount:      plan.Price,
		Description: plan.Label + " Valentine page",
		ReturnURL:   s.serviceBaseUrl + "/publish/success",
		CancelURL:   s.serviceBaseUrl + "/pricing?canceled=1",
	})
	if err != nil {
		logger.LogError(s.logger, moduleName, "Checkout", "create checkout session", plan.ID, err)
		return nil, apperr.Wrap(apperr.CheckoutFailed, "Payment session failed.", err)
	}

	if err := s.entitlementRepo.CreatePending(ctx, session.SessionID, plan.ID); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to record checkout.",
			fmt.Errorf("create pending entitlement %s: %w", session.SessionID, err))
	}

	err = s.pendingRepo.Create(ctx, &model.PendingPublish{
		SessionID:  session.SessionID,
		TemplateID: in.TemplateID,
		Plan:       plan.ID,
		Document:   datatypes.NewJSONType(doc),
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to save pending publish.",
			fmt.Errorf("create pending publish %s: %w", session.SessionID, err))
	}

	s.logger.WithFields(logrus.Fields{
		"sessionId":  session.SessionID,
		"plan":       plan.ID,
		"templateId": in.TemplateID,
	}).Info("checkout started")

	return &CheckoutResult{
		SessionID:   session.SessionID,
		RedirectURL: session.RedirectURL,
	}, nil
}

// Capture takes the payment for a checkout the buyer approved. It is called
// when the buyer lands back on the return page and is safe to repeat.
func (s *checkoutServiceImpl) Capture(ctx context.Context, sessionID string) (*CaptureOutput, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, apperr.New(apperr.InvalidBody, "Missing session id.")
	}

	entitlement, err := s.entitlementRepo.FindBySessionID(ctx, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "We could not find this checkout.")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to load checkout.",
			fmt.Errorf("find entitlement %s: %w", sessionID, err))
	}
	if entitlement.Status == model.EntitlementActive {
		return &CaptureOutput{
			SessionID:     sessionID,
			CaptureStatus: model.CaptureStatusCompleted,
			Active:        true,
		}, nil
	}

	captured, err := s.provider.CaptureOrder(ctx, sessionID)
	if err != nil {
		logger.LogError(s.logger, moduleName, "Capture", "capture order", sessionID, err)
		return nil, apperr.Wrap(apperr.CheckoutFailed, "Payment capture failed.", err)
	}

	s.logger.WithFields(logrus.Fields{
		"sessionId": sessionID,
		"plan":      entitlement.Plan,
		"status":    captured.Status,
		"captureId": captured.CaptureID,
	}).Info("checkout captured")

	return &CaptureOutput{
		SessionID:     sessionID,
		CaptureStatus: captured.Status,
	}, nil
}
