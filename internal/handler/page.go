package handler

import (
	"net/http"

	"valentine-pages/internal/dto"
	"valentine-pages/internal/service"

	"github.com/labstack/echo/v4"
)

type PageHandler struct {
	pageService service.PageService
}

func NewPageHandler(pageService service.PageService) *PageHandler {
	return &PageHandler{
		pageService: pageService,
	}
}

func (h *PageHandler) GetPage(c echo.Context) error {
	ctx := c.Request().Context()

	page, err := h.pageService.GetPage(ctx, c.Param("slug"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.PageResponse{
		Slug:       page.Slug,
		TemplateID: page.TemplateID,
		Status:     string(page.Status),
		Doc:        page.Document.Data(),
		CreatedAt:  page.CreatedAt,
	})
}
