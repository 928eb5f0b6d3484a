package handler

import (
	"net/http"

	"valentine-pages/internal/dto"
	"valentine-pages/internal/middleware"
	"valentine-pages/internal/service"

	"github.com/labstack/echo/v4"
)

type PublishHandler struct {
	publishService service.PublishService
}

func NewPublishHandler(publishService service.PublishService) *PublishHandler {
	return &PublishHandler{
		publishService: publishService,
	}
}

func (h *PublishHandler) Publish(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PublishRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.publishService.Publish(ctx, &service.PublishInput{
		TemplateID: req.TemplateID,
		Document:   req.Doc,
		SessionID:  req.SessionID,
		DeviceID:   middleware.DeviceID(c),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toPublishResponse(result))
}

func (h *PublishHandler) PublishPending(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PublishPendingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.publishService.PublishPending(ctx, req.SessionID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toPublishResponse(result))
}

func toPublishResponse(result *service.PublishResult) *dto.PublishResponse {
	return &dto.PublishResponse{
		Slug:     result.Slug,
		URL:      result.URL,
		Existing: result.Existing,
	}
}
