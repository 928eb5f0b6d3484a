package handler

import (
	"net/http"

	"valentine-pages/internal/dto"
	"valentine-pages/internal/service"

	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

func (h *CheckoutHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Plan == "" {
		// older clients send the plan as a query parameter
		req.Plan = c.QueryParam("plan")
	}

	result, err := h.checkoutService.Checkout(ctx, &service.CheckoutInput{
		Plan:       req.Plan,
		TemplateID: req.TemplateID,
		Document:   req.DocSnapshot,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.CheckoutResponse{
		SessionID: result.SessionID,
		URL:       result.RedirectURL,
	})
}

// Capture is hit from the payment return page. PayPal appends the order id
// as the token query parameter.
func (h *CheckoutHandler) Capture(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CaptureRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.SessionID == "" {
		req.SessionID = c.QueryParam("token")
	}

	result, err := h.checkoutService.Capture(ctx, req.SessionID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.CaptureResponse{
		SessionID:     result.SessionID,
		CaptureStatus: result.CaptureStatus,
		Active:        result.Active,
	})
}
