package handler

import (
	"fmt"
	"io"
	"net/http"

	"valentine-pages/internal/apperr"
	"valentine-pages/internal/service"

	"github.com/labstack/echo/v4"
)

type WebhookHandler struct {
	webhookService service.WebhookService
}

func NewWebhookHandler(webhookService service.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

// PaymentWebhook needs the raw body: the signature covers its exact bytes.
func (h *WebhookHandler) PaymentWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apperr.Wrap(apperr.InvalidBody, "Invalid webhook body.", err)
	}

	err = h.webhookService.HandleWebhook(ctx, c.Request().Header, body)
	if err != nil {
		return fmt.Errorf("handle webhook: %w", err)
	}

	return c.JSON(http.StatusOK, map[string]bool{
		"received": true,
	})
}
