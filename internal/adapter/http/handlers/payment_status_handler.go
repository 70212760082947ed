package handlers

import (
	"errors"
	"log"
	"net/http"

	response "vidaqr/internal/adapter/http/dto/response"
	"vidaqr/internal/usecase"
	"vidaqr/internal/usecase/interfaces"
	"vidaqr/pkg"

	"github.com/gin-gonic/gin"
)

// PaymentStatusHandler exposes the direct validation path: the frontend polls
// it after checkout instead of waiting for the webhook.

type PaymentStatusHandler struct {
	usecase usecase.IPaymentValidationUseCase
}

func NewPaymentStatusHandler(uc usecase.IPaymentValidationUseCase) *PaymentStatusHandler {
	return &PaymentStatusHandler{usecase: uc}
}

// GetPaymentStatus godoc
// @Summary      Validate a payment against the provider
// @Description  Fetches the provider's current view of the payment and applies it locally. Never materializes a deferred profile.
// @Tags         payments
// @Produce      json
// @Param        id   path      string  true  "Local payment id"
// @Success      200  {object}  response.PaymentStatusResponse
// @Failure      400  {object}  pkg.HTTPError
// @Failure      404  {object}  pkg.HTTPError
// @Failure      409  {object}  pkg.HTTPError
// @Router       /v1/payments/{id}/status [get]
func (h *PaymentStatusHandler) GetPaymentStatus(c *gin.Context) {
	paymentID := c.Param("id")
	log.Printf("[payment][handler] status start payment_id=%s", paymentID)

	res, err := h.usecase.ValidatePayment(c.Request.Context(), paymentID)
	if err != nil {
		log.Printf("[payment][handler] status failed payment_id=%s err=%v", paymentID, err)
		appErr := mapPaymentStatusError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[payment][handler] status success payment_id=%s status=%s", res.PaymentID, res.Status)

	c.JSON(http.StatusOK, response.FromValidationResult(res))
}

func mapPaymentStatusError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidPaymentID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound)
	case errors.Is(err, interfaces.ErrProviderPaymentNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found at the provider", http.StatusNotFound)
	case errors.Is(err, usecase.ErrPaymentNotSubmitted):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_SUBMITTED", "Payment was never submitted to the provider", http.StatusConflict)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
