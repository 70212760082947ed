package routes

import (
	"vidaqr/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathCheckout = "/checkout"
	PathPayments = "/payments"
	PathProfiles = "/profiles"
)

func addVidaQRRoutes(
	rg *gin.RouterGroup,
	checkoutHandler *handlers.CheckoutHandler,
	webhookHandler *handlers.WebhookHandler,
	statusHandler *handlers.PaymentStatusHandler,
	profileHandler *handlers.ProfileHandler,
) {
	rg.POST(PathCheckout, checkoutHandler.CreateCheckout)

	payments := rg.Group(PathPayments)
	{
		payments.POST("/webhook", webhookHandler.HandleNotification)
		payments.GET("/:id/status", statusHandler.GetPaymentStatus)
	}

	profiles := rg.Group(PathProfiles)
	{
		profiles.GET("/:id", profileHandler.GetProfile)
	}
}
