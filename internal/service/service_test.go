package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"valentine-pages/internal/apperr"
	"valentine-pages/internal/catalog"
	"valentine-pages/internal/document"
	"valentine-pages/internal/lock"
	"valentine-pages/internal/model"
	"valentine-pages/internal/policy"
	"valentine-pages/internal/quota"
	"valentine-pages/internal/repository"
	"valentine-pages/internal/slug"
	"valentine-pages/internal/testutil"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm"
)

type fixture struct {
	db           *gorm.DB
	catalog      *catalog.Catalog
	normalizer   *document.Normalizer
	policy       *policy.Engine
	entitlements repository.EntitlementRepository
	pages        repository.PageRepository
	pending      repository.PendingPublishRepository
	events       repository.WebhookEventRepository
	devices      repository.DeviceCountRepository
	logger       *logrus.Logger
	logs         *test.Hook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.OpenDB(t)
	cat := catalog.Default()
	log, hook := test.NewNullLogger()

	return &fixture{
		db:           db,
		catalog:      cat,
		normalizer:   document.NewNormalizer(cat),
		policy:       policy.NewEngine(cat),
		entitlements: repository.NewEntitlementRepository(db),
		pages:        repository.NewPageRepository(db),
		pending:      repository.NewPendingPublishRepository(db),
		events:       repository.NewWebhookEventRepository(db),
		devices:      repository.NewDeviceCountRepository(db),
		logger:       log,
		logs:         hook,
	}
}

func (f *fixture) publishService(opts PublishOptions, allocator *slug.Allocator) PublishService {
	if allocator == nil {
		allocator = slug.NewAllocator(slug.Random)
	}
	return NewPublishService(
		opts,
		f.normalizer, f.policy, allocator,
		f.entitlements, f.pages, f.pending,
		quota.NewStoreCounter(f.devices),
		lock.NewNoopLocker(),
		f.logger,
	)
}

func (f *fixture) activate(t *testing.T, sessionID, plan string) {
	t.Helper()
	_, err := f.entitlements.ApplyOutcome(context.Background(), &model.Entitlement{
		SessionID: sessionID,
		Plan:      plan,
		Status:    model.EntitlementActive,
	})
	if err != nil {
		t.Fatalf("activate %s: %v", sessionID, err)
	}
}

func (f *fixture) pageCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&model.Page{}).Count(&n).Error; err != nil {
		t.Fatalf("count pages: %v", err)
	}
	return n
}

var paid = PublishOptions{RequireEntitlement: true, FreePlan: catalog.PlanNormal}

func docJSON(t *testing.T, title string, photoCount int) []byte {
	t.Helper()
	photos := make([]map[string]any, photoCount)
	for i := range photos {
		photos[i] = map[string]any{"src": fmt.Sprintf("https://cdn.example.com/%d.jpg", i), "order": i}
	}
	b, err := json.Marshal(map[string]any{
		"title":   title,
		"moments": []string{"first date"},
		"photos":  photos,
	})
	if err != nil {
		t.Fatalf("marshal doc: %v", err)
	}
	return b
}

func requireKind(t *testing.T, err error, kind apperr.Kind) *apperr.Error {
	t.Helper()
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("err = %v, want %s", err, kind)
	}
	if appErr.Kind != kind {
		t.Fatalf("kind = %s (%v), want %s", appErr.Kind, err, kind)
	}
	return appErr
}

// failingEntitlementRepo fails the test on any call.
type failingEntitlementRepo struct {
	t *testing.T
}

func (r failingEntitlementRepo) CreatePending(context.Context, string, string) error {
	r.t.Fatal("unexpected CreatePending")
	return nil
}

func (r failingEntitlementRepo) ApplyOutcome(context.Context, *model.Entitlement) (bool, error) {
	r.t.Fatal("unexpected ApplyOutcome")
	return false, nil
}

func (r failingEntitlementRepo) FindActive(context.Context, string) (*model.Entitlement, error) {
	r.t.Fatal("unexpected FindActive")
	return nil, nil
}

func (r failingEntitlementRepo) FindBySessionID(context.Context, string) (*model.Entitlement, error) {
	r.t.Fatal("unexpected FindBySessionID")
	return nil, nil
}
