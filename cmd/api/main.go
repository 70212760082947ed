package main

import (
	_ "vidaqr/docs"
	"vidaqr/internal/adapter/http/routes"
	"vidaqr/internal/config"

	_ "github.com/joho/godotenv/autoload"
)

// @title           VidaQR API
// @version         1.0
// @description     Emergency medical profiles activated by Mercado Pago payments, backed by DynamoDB.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

func main() {
	routes.Run(config.Load())
}
