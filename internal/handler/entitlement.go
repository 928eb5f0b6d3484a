package handler

import (
	"net/http"

	"valentine-pages/internal/dto"
	"valentine-pages/internal/service"

	"github.com/labstack/echo/v4"
)

type EntitlementHandler struct {
	entitlementService service.EntitlementService
}

func NewEntitlementHandler(entitlementService service.EntitlementService) *EntitlementHandler {
	return &EntitlementHandler{
		entitlementService: entitlementService,
	}
}

func (h *EntitlementHandler) GetEntitlement(c echo.Context) error {
	ctx := c.Request().Context()

	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		sessionID = c.QueryParam("sessionId")
	}

	status, err := h.entitlementService.GetEntitlement(ctx, sessionID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.EntitlementResponse{
		Active:    status.Active,
		Plan:      status.Plan,
		SessionID: status.SessionID,
	})
}
