package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/triptally/triptally-api/config"
	"github.com/triptally/triptally-api/middleware"
	"github.com/triptally/triptally-api/migration"
	"github.com/triptally/triptally-api/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := config.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := migration.MigrateLegacyDestinations(db); err != nil {
		log.Fatalf("Failed to migrate legacy destinations: %v", err)
	}

	router := gin.Default()

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:5173"
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.RateLimiter())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	svc := routes.NewServices(db)

	api := router.Group("/api/v1")
	routes.SetupAuthRoutes(api, db)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	routes.SetupTripRoutes(protected, svc)
	routes.SetupUserRoutes(protected, db, svc)
	routes.SetupAssistRoutes(protected, svc)

	// WebSocket upgrades cannot carry an Authorization header from browsers,
	// so the route sits outside the middleware group and HandleWS validates
	// the token from the query string itself.
	router.GET("/ws/trips/:id", svc.WS.HandleWS)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("TripTally API listening on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
