package handlers

import (
	"errors"
	"log"
	"net/http"

	request "vidaqr/internal/adapter/http/dto/request"
	response "vidaqr/internal/adapter/http/dto/response"
	"vidaqr/internal/domain/entities"
	"vidaqr/internal/usecase"
	"vidaqr/internal/usecase/interfaces"
	"vidaqr/pkg"

	"github.com/gin-gonic/gin"
)

// ISignatureVerifier authenticates a webhook delivery before any processing.
type ISignatureVerifier interface {
	Verify(dataID, xSignature, xRequestID string) bool
}

// WebhookHandler handles Mercado Pago payment notifications.

type WebhookHandler struct {
	usecase  usecase.IWebhookUseCase
	verifier ISignatureVerifier
}

func NewWebhookHandler(uc usecase.IWebhookUseCase, verifier ISignatureVerifier) *WebhookHandler {
	return &WebhookHandler{usecase: uc, verifier: verifier}
}

// HandleNotification godoc
// @Summary      Process a payment notification
// @Description  Reconciles local payment state against the provider. Deliveries are idempotent; redeliveries and out-of-order events are acknowledged without side effects.
// @Tags         webhook
// @Accept       json
// @Produce      json
// @Param        x-signature   header    string                   true  "Provider HMAC signature"
// @Param        x-request-id  header    string                   true  "Provider request id"
// @Param        event         body      request.WebhookRequest   true  "Notification envelope"
// @Success      200           {object}  response.WebhookResponse
// @Failure      400           {object}  pkg.HTTPError
// @Failure      404           {object}  pkg.HTTPError
// @Failure      422           {object}  pkg.HTTPError
// @Router       /v1/payments/webhook [post]
func (h *WebhookHandler) HandleNotification(c *gin.Context) {
	var req request.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[webhook][handler] invalid payload err=%v", err)
		appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	dataID := req.DataID()
	if dataID == "" {
		dataID = c.Query("data.id")
	}

	// Authentication comes first: a delivery that fails the signature check
	// must not touch the gateway or the database, and the rejection stays
	// opaque about which part failed.
	if !h.verifier.Verify(dataID, c.GetHeader("x-signature"), c.GetHeader("x-request-id")) {
		log.Printf("[webhook][handler] signature rejected data_id=%s", dataID)
		appErr := pkg.NewDomainErrorSimple("INVALID_SIGNATURE", "Invalid webhook signature", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[webhook][handler] notification start type=%s action=%s data_id=%s", req.Type, req.Action, dataID)

	event := req.ToEvent()
	event.DataID = dataID

	res, err := h.usecase.ProcessEvent(c.Request.Context(), event)
	if err != nil {
		log.Printf("[webhook][handler] notification failed data_id=%s err=%v", dataID, err)
		appErr := mapWebhookError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[webhook][handler] notification done data_id=%s payment_id=%s status=%s detail=%s", dataID, res.PaymentID, res.Status, res.Detail)

	c.JSON(http.StatusOK, response.FromWebhookResult(res))
}

func mapWebhookError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidWebhookEvent):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, interfaces.ErrProviderPaymentNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found at the provider", http.StatusNotFound)
	case errors.Is(err, usecase.ErrProfileInfoMissing),
		errors.Is(err, entities.ErrUnsupportedPayloadVersion),
		errors.Is(err, entities.ErrInvalidProfilePayload),
		entities.IsInvalidTransition(err):
		return pkg.NewDomainError("UNPROCESSABLE_EVENT", "Event cannot be applied to the current state", err, http.StatusUnprocessableEntity)
	case errors.Is(err, interfaces.ErrPaymentConflict):
		// Retriable: the provider redelivers on non-2xx and the next attempt
		// re-runs the idempotency check against the winner's state.
		return pkg.NewDomainError("PAYMENT_CONFLICT", "Payment was updated concurrently", err, http.StatusConflict)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
