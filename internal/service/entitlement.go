package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"valentine-pages/internal/apperr"
	"valentine-pages/internal/model"
	"valentine-pages/internal/repository"

	"gorm.io/gorm"
)

type EntitlementStatus struct {
	Active    bool
	Plan      string
	SessionID string
}

type EntitlementService interface {
	GetEntitlement(ctx context.Context, sessionID string) (*EntitlementStatus, error)
}

type entitlementServiceImpl struct {
	entitlementRepo repository.EntitlementRepository
}

func NewEntitlementService(entitlementRepo repository.EntitlementRepository) EntitlementService {
	return &entitlementServiceImpl{
		entitlementRepo: entitlementRepo,
	}
}

func (s *entitlementServiceImpl) GetEntitlement(ctx context.Context, sessionID string) (*EntitlementStatus, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return &EntitlementStatus{}, nil
	}

	entitlement, err := s.entitlementRepo.FindBySessionID(ctx, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &EntitlementStatus{}, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to load entitlement.",
			fmt.Errorf("find entitlement %s: %w", sessionID, err))
	}
	if entitlement.Status != model.EntitlementActive {
		return &EntitlementStatus{}, nil
	}

	return &EntitlementStatus{
		Active:    true,
		Plan:      entitlement.Plan,
		SessionID: entitlement.SessionID,
	}, nil
}
