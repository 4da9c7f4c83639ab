package main

import (
	"log"

	"github.com/CUknot/dorm_backend/apiclient"
	"github.com/CUknot/dorm_backend/config"
	"github.com/CUknot/dorm_backend/controllers"
	"github.com/CUknot/dorm_backend/database"
	"github.com/CUknot/dorm_backend/docs"
	"github.com/CUknot/dorm_backend/middleware"
	"github.com/CUknot/dorm_backend/utils"
	"github.com/CUknot/dorm_backend/web"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Dormitory Sleepover API
// @version         1.0
// @description     API Server for dormitory sleepover pass requests
// @host            localhost:8080
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	utils.SetJWTSecret(cfg.JWTSecret, cfg.TokenTTL)
	if err := utils.RegisterValidators(); err != nil {
		log.Fatalf("Failed to register validators: %v", err)
	}

	// Initialize database
	database.Connect(cfg)
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if err := database.SeedAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	// Set up Swagger info
	docs.SwaggerInfo.Title = "Dormitory Sleepover API"
	docs.SwaggerInfo.Description = "API Server for dormitory sleepover pass requests"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:" + cfg.Port
	docs.SwaggerInfo.BasePath = "/"
	docs.SwaggerInfo.Schemes = []string{"http"}

	router := gin.Default()
	router.Use(middleware.CORS())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	controllers.RegisterRoutes(router)

	// Pages call back into the JSON API above
	pages := web.NewManager(apiclient.New(cfg.APIBaseURL), cfg.RedirectDelay)
	pages.RegisterRoutes(router)

	log.Printf("Server running on port %s", cfg.Port)
	log.Printf("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
