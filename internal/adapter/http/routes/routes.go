package routes

import (
	"context"
	"log"
	"strconv"
	"time"

	_ "vidaqr/docs" // This will be auto-generated
	"vidaqr/internal/adapter/http/handlers"
	repository "vidaqr/internal/adapter/persistence/repository"
	"vidaqr/internal/config"
	"vidaqr/internal/infrastructure/database"
	"vidaqr/internal/infrastructure/payments"
	"vidaqr/internal/infrastructure/qrcode"
	"vidaqr/internal/usecase"
	"vidaqr/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

// Run will start the server
func Run(cfg *config.Config) {
	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes(cfg)

	err := router.Run(":" + strconv.Itoa(cfg.Port))
	if err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes(cfg *config.Config) {
	ddb := database.ConnectDynamoDB()

	paymentRepo := repository.NewPaymentDynamoRepository(ddb, cfg.PaymentsTable)
	profileRepo := repository.NewProfileDynamoRepository(ddb, cfg.ProfilesTable)
	subscriptionRepo := repository.NewSubscriptionDynamoRepository(ddb, cfg.SubscriptionsTable)

	var paymentGateway interfaces.IPaymentGateway
	mpGateway, err := payments.NewMercadoPagoGateway(cfg.MercadoPagoAccessToken)
	if err != nil {
		log.Printf("Mercado Pago gateway not configured: %v", err)
	} else {
		paymentGateway = mpGateway
	}

	qrService := qrcode.NewEmergencyQRService(cfg.PublicBaseURL)
	verifier := payments.NewSignatureVerifier(cfg.WebhookSecret)

	checkoutUseCase := usecase.NewCheckoutUseCase(paymentRepo, paymentGateway)
	webhookUseCase := usecase.NewWebhookUseCase(paymentRepo, profileRepo, subscriptionRepo, paymentGateway, qrService)
	validationUseCase := usecase.NewPaymentValidationUseCase(paymentRepo, profileRepo, paymentGateway, qrService)
	profileUseCase := usecase.NewProfileUseCase(profileRepo, subscriptionRepo)

	expirationUseCase := usecase.NewExpirationUseCase(paymentRepo)
	go runExpirationSweeper(expirationUseCase)

	checkoutHandler := handlers.NewCheckoutHandler(checkoutUseCase)
	webhookHandler := handlers.NewWebhookHandler(webhookUseCase, verifier)
	statusHandler := handlers.NewPaymentStatusHandler(validationUseCase)
	profileHandler := handlers.NewProfileHandler(profileUseCase)

	// Rotas publicas
	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addVidaQRRoutes(v1, checkoutHandler, webhookHandler, statusHandler, profileHandler)
}

// runExpirationSweeper cancels pending payments that outlived their window.
// Cancellations lost to a concurrent webhook are skipped, so running this
// alongside live traffic is safe.
func runExpirationSweeper(uc usecase.IExpirationUseCase) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		n, err := uc.CancelExpiredPayments(context.Background())
		if err != nil {
			log.Printf("[payment][sweeper] sweep failed err=%v", err)
			continue
		}
		if n > 0 {
			log.Printf("[payment][sweeper] expired payments cancelled count=%d", n)
		}
	}
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}
