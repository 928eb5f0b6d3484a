package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"valentine-pages/internal/apperr"
	"valentine-pages/internal/document"
	"valentine-pages/internal/lock"
	"valentine-pages/internal/logger"
	"valentine-pages/internal/model"
	"valentine-pages/internal/policy"
	"valentine-pages/internal/quota"
	"valentine-pages/internal/repository"
	"valentine-pages/internal/slug"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const moduleName = "service"

// errSessionPublished means a concurrent request already wrote the page for
// this session.
var errSessionPublished = errors.New("page already published for session")

type PublishInput struct {
	TemplateID string
	Document   []byte
	SessionID  string
	DeviceID   string
}

type PublishResult struct {
	Slug string
	URL  string
	// Existing is set when the session had already produced a page.
	Existing bool
}

type PublishOptions struct {
	// RequireEntitlement selects the paid flow. When false, publishing is
	// free and bounded by FreeDeviceLimit publishes per device.
	RequireEntitlement bool
	FreePlan           string
	FreeDeviceLimit    int64
}

type PublishService interface {
	Publish(ctx context.Context, in *PublishInput) (*PublishResult, error)
	PublishPending(ctx context.Context, sessionID string) (*PublishResult, error)
}

type publishServiceImpl struct {
	opts            PublishOptions
	normalizer      *document.Normalizer
	policy          *policy.Engine
	allocator       *slug.Allocator
	entitlementRepo repository.EntitlementRepository
	pageRepo        repository.PageRepository
	pendingRepo     repository.PendingPublishRepository
	counter         quota.Counter
	locker          lock.Locker
	logger          logrus.FieldLogger
}

func NewPublishService(
	opts PublishOptions,
	normalizer *document.Normalizer,
	policyEngine *policy.Engine,
	allocator *slug.Allocator,
	entitlementRepo repository.EntitlementRepository,
	pageRepo repository.PageRepository,
	pendingRepo repository.PendingPublishRepository,
	counter quota.Counter,
	locker lock.Locker,
	logger logrus.FieldLogger,
) PublishService {
	return &publishServiceImpl{
		opts:            opts,
		normalizer:      normalizer,
		policy:          policyEngine,
		allocator:       allocator,
		entitlementRepo: entitlementRepo,
		pageRepo:        pageRepo,
		pendingRepo:     pendingRepo,
		counter:         counter,
		locker:          locker,
		logger:          logger,
	}
}

func SharePath(pageSlug string) string {
	return "/v/" + pageSlug
}

func (s *publishServiceImpl) Publish(ctx context.Context, in *PublishInput) (*PublishResult, error) {
	doc, err := s.normalizer.Normalize(in.TemplateID, in.Document)
	if err != nil {
		return nil, documentError(err)
	}

	if !s.opts.RequireEntitlement {
		return s.publishFree(ctx, in.TemplateID, doc, in.DeviceID)
	}
	return s.publishEntitled(ctx, in.TemplateID, doc, in.SessionID)
}

// PublishPending publishes the draft stored at checkout for sessionID. It is
// what the client calls when it comes back from the payment page.
func (s *publishServiceImpl) PublishPending(ctx context.Context, sessionID string) (*PublishResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, paymentRequired()
	}

	pending, err := s.pendingRepo.FindBySessionID(ctx, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// the draft is deleted once published; a reload lands here
		existing, findErr := s.findSessionPage(ctx, sessionID)
		if findErr != nil {
			return nil, findErr
		}
		if existing != nil {
			return existing, nil
		}
		return nil, apperr.New(apperr.NotFound, "We could not find your draft. Try publishing again from the builder.")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to load draft.", fmt.Errorf("find pending publish %s: %w", sessionID, err))
	}

	raw, err := json.Marshal(pending.Document.Data())
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to load draft.", fmt.Errorf("encode pending document: %w", err))
	}
	doc, err := s.normalizer.Normalize(pending.TemplateID, raw)
	if err != nil {
		return nil, documentError(err)
	}

	return s.publishEntitled(ctx, pending.TemplateID, doc, sessionID)
}

func (s *publishServiceImpl) publishEntitled(ctx context.Context, templateID string, doc document.Document, sessionID string) (*PublishResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, paymentRequired()
	}

	entitlement, err := s.entitlementRepo.FindActive(ctx, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, paymentRequired()
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to verify payment.", fmt.Errorf("find active entitlement %s: %w", sessionID, err))
	}

	release, err := s.locker.Acquire(ctx, "publish:"+sessionID)
	if err != nil {
		return nil, apperr.Wrap(apperr.PublishFailed, "Publish is already in progress, try again.", err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			logger.LogError(s.logger, moduleName, "publishEntitled", "release lock", sessionID, err)
		}
	}()

	existing, err := s.findSessionPage(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.consumePending(ctx, sessionID)
		return existing, nil
	}

	if err := s.checkPolicy(entitlement.Plan, templateID, doc); err != nil {
		return nil, err
	}

	pageSlug, err := s.allocator.Allocate(ctx, s.pageWriter(templateID, doc, &sessionID))
	if errors.Is(err, errSessionPublished) {
		existing, findErr := s.findSessionPage(ctx, sessionID)
		if findErr != nil {
			return nil, findErr
		}
		if existing != nil {
			s.consumePending(ctx, sessionID)
			return existing, nil
		}
	}
	if err != nil {
		return nil, s.allocationError(err, sessionID)
	}

	s.logger.WithFields(logrus.Fields{
		"slug":       pageSlug,
		"templateId": templateID,
		"plan":       entitlement.Plan,
		"sessionId":  sessionID,
	}).Info("page published")

	s.consumePending(ctx, sessionID)

	return &PublishResult{Slug: pageSlug, URL: SharePath(pageSlug)}, nil
}

func (s *publishServiceImpl) publishFree(ctx context.Context, templateID string, doc document.Document, deviceID string) (result *PublishResult, err error) {
	if s.opts.FreeDeviceLimit > 0 && deviceID != "" {
		reserved, reserveErr := s.counter.Reserve(ctx, deviceID, s.opts.FreeDeviceLimit)
		if reserveErr != nil {
			return nil, apperr.Wrap(apperr.Internal, "Failed to check publish limit.", reserveErr)
		}
		if !reserved {
			return nil, apperr.New(apperr.PublishLimitReached, "You have reached the free publish limit on this device.").
				WithDetails(map[string]any{"limit": s.opts.FreeDeviceLimit})
		}
		defer func() {
			if err == nil {
				return
			}
			// the slot goes back even when the request was canceled
			if releaseErr := s.counter.Release(context.WithoutCancel(ctx), deviceID); releaseErr != nil {
				logger.LogError(s.logger, moduleName, "publishFree", "release device slot", deviceID, releaseErr)
			}
		}()
	}

	if err := s.checkPolicy(s.opts.FreePlan, templateID, doc); err != nil {
		return nil, err
	}

	pageSlug, err := s.allocator.Allocate(ctx, s.pageWriter(templateID, doc, nil))
	if err != nil {
		return nil, s.allocationError(err, "")
	}

	s.logger.WithFields(logrus.Fields{
		"slug":       pageSlug,
		"templateId": templateID,
	}).Info("page published")

	return &PublishResult{Slug: pageSlug, URL: SharePath(pageSlug)}, nil
}

func (s *publishServiceImpl) checkPolicy(planID, templateID string, doc document.Document) error {
	decision, ok := s.policy.Check(planID, templateID, policy.CountPhotos(doc))
	if !ok {
		return apperr.Wrap(apperr.Internal, "Unknown plan.", fmt.Errorf("plan %q is not in the catalog", planID))
	}
	if !decision.Allowed {
		return policyError(decision)
	}
	return nil
}

// pageWriter inserts the page under a candidate slug. A duplicate key is a
// slug collision unless the session already has a page, in which case the
// allocator must stop instead of retrying.
func (s *publishServiceImpl) pageWriter(templateID string, doc document.Document, sessionID *string) slug.WriteFunc {
	return func(ctx context.Context, candidate string) error {
		err := s.pageRepo.Create(ctx, &model.Page{
			Slug:                 candidate,
			TemplateID:           templateID,
			Document:             datatypes.NewJSONType(doc),
			Status:               model.PagePublished,
			EntitlementSessionID: sessionID,
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("insert page %s: %w", candidate, err)
		}
		if sessionID == nil {
			return slug.ErrConflict
		}

		_, findErr := s.pageRepo.FindBySessionID(ctx, *sessionID)
		switch {
		case findErr == nil:
			return errSessionPublished
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			return slug.ErrConflict
		default:
			return fmt.Errorf("find page for session %s: %w", *sessionID, findErr)
		}
	}
}

func (s *publishServiceImpl) allocationError(err error, sessionID string) error {
	logger.LogError(s.logger, moduleName, "allocate", "publish page", sessionID, err)
	if errors.Is(err, slug.ErrAllocationFailed) {
		return apperr.Wrap(apperr.PublishFailed, "Unable to generate a unique link. Please try again.", err)
	}
	return apperr.Wrap(apperr.PublishFailed, "Publish failed.", err)
}

func (s *publishServiceImpl) findSessionPage(ctx context.Context, sessionID string) (*PublishResult, error) {
	page, err := s.pageRepo.FindBySessionID(ctx, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.PublishFailed, "Publish failed.", fmt.Errorf("find page for session %s: %w", sessionID, err))
	}
	return &PublishResult{Slug: page.Slug, URL: SharePath(page.Slug), Existing: true}, nil
}

func (s *publishServiceImpl) consumePending(ctx context.Context, sessionID string) {
	if err := s.pendingRepo.Delete(ctx, sessionID); err != nil {
		logger.LogError(s.logger, moduleName, "consumePending", "delete pending publish", sessionID, err)
	}
}
