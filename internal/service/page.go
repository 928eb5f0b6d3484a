package service

import (
	"context"
	"errors"
	"fmt"

	"valentine-pages/internal/apperr"
	"valentine-pages/internal/model"
	"valentine-pages/internal/repository"

	"gorm.io/gorm"
)

type PageService interface {
	GetPage(ctx context.Context, slug string) (*model.Page, error)
}

type pageServiceImpl struct {
	pageRepo repository.PageRepository
}

func NewPageService(pageRepo repository.PageRepository) PageService {
	return &pageServiceImpl{
		pageRepo: pageRepo,
	}
}

func (s *pageServiceImpl) GetPage(ctx context.Context, slug string) (*model.Page, error) {
	page, err := s.pageRepo.FindBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "Page not found.")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to load page.", fmt.Errorf("find page %s: %w", slug, err))
	}
	return page, nil
}
