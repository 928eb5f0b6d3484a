package service

import (
	"errors"
	"fmt"

	"valentine-pages/internal/apperr"
	"valentine-pages/internal/document"
	"valentine-pages/internal/policy"
)

func documentError(err error) error {
	var verr *document.ValidationError
	if !errors.As(err, &verr) {
		return apperr.Wrap(apperr.Internal, "Failed to read document.", err)
	}
	if verr.Kind == document.ErrUnknownTemplate {
		return apperr.New(apperr.InvalidTemplate, verr.Message)
	}
	return apperr.New(apperr.InvalidDocument, verr.Message).WithDetails(map[string]any{
		"field": string(verr.Kind),
	})
}

func policyError(decision policy.Decision) error {
	details := map[string]any{
		"photoCount": decision.PhotoCount,
		"maxPhotos":  decision.MaxPhotos,
	}
	if decision.NeededPlan != "" {
		details["neededPlan"] = decision.NeededPlan
	}

	if decision.Reason == policy.TemplateNotPermitted {
		message := "This template is not available on your plan."
		if decision.NeededPlan != "" {
			message = fmt.Sprintf("This template requires the %s plan.", decision.NeededPlan)
		}
		return apperr.New(apperr.TemplateNotPermitted, message).WithDetails(details)
	}

	return apperr.New(apperr.UpgradeRequired,
		fmt.Sprintf("This plan allows up to %d photos.", decision.MaxPhotos)).WithDetails(details)
}

func paymentRequired() error {
	return apperr.New(apperr.PaymentRequired, "Payment required to publish.")
}
