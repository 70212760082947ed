package handlers

import (
	"errors"
	"log"
	"net/http"

	request "vidaqr/internal/adapter/http/dto/request"
	response "vidaqr/internal/adapter/http/dto/response"
	"vidaqr/internal/domain/entities"
	"vidaqr/internal/usecase"
	"vidaqr/pkg"

	"github.com/gin-gonic/gin"
)

// CheckoutHandler handles HTTP requests for new checkouts.

type CheckoutHandler struct {
	usecase usecase.ICheckoutUseCase
}

func NewCheckoutHandler(uc usecase.ICheckoutUseCase) *CheckoutHandler {
	return &CheckoutHandler{usecase: uc}
}

// CreateCheckout godoc
// @Summary      Create a checkout
// @Description  Submits a payment for a new emergency profile. The profile is only persisted after the provider confirms the charge.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        checkout  body      request.CheckoutRequest  true  "Checkout payload"
// @Success      201       {object}  response.CheckoutResponse
// @Failure      400       {object}  pkg.HTTPError
// @Failure      500       {object}  pkg.HTTPError
// @Router       /v1/checkout [post]
func (h *CheckoutHandler) CreateCheckout(c *gin.Context) {
	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[checkout][handler] invalid payload err=%v", err)
		appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[checkout][handler] create start plan=%s method=%s", req.Plan, req.PaymentMethod)

	res, err := h.usecase.CreateCheckout(c.Request.Context(), req.ToCommand())
	if err != nil {
		log.Printf("[checkout][handler] create failed err=%v", err)
		appErr := mapCheckoutError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[checkout][handler] create success payment_id=%s profile_id=%s status=%s", res.Payment.ID, res.ProfileID, res.Payment.Status)

	c.JSON(http.StatusCreated, response.FromCheckoutResult(res))
}

func mapCheckoutError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidProfileInput):
		return pkg.NewDomainErrorSimple("INVALID_PROFILE", "Profile fields are missing or invalid", http.StatusBadRequest)
	case errors.Is(err, entities.ErrInvalidPlan):
		return pkg.NewDomainErrorSimple("INVALID_PLAN", "Unknown subscription plan", http.StatusBadRequest)
	case errors.Is(err, entities.ErrInvalidPaymentMethod):
		return pkg.NewDomainErrorSimple("INVALID_PAYMENT_METHOD", "Unsupported payment method", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrMissingCardToken):
		return pkg.NewDomainErrorSimple("MISSING_CARD_TOKEN", "Card payments require a card token", http.StatusBadRequest)
	case errors.Is(err, entities.ErrInvalidAmount):
		return pkg.NewDomainErrorSimple("INVALID_AMOUNT", "Amount does not match any plan price", http.StatusBadRequest)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
