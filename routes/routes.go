package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/triptally/triptally-api/handlers"
	"github.com/triptally/triptally-api/repository"
	"github.com/triptally/triptally-api/services"
)

// Services bundles the shared service instances wired once in main and
// handed to every route group.
type Services struct {
	Trips       repository.TripRepository
	Expenses    repository.ExpenseRepository
	Categorizer *services.CategorizerService
	Countries   *services.CountryService
	Rates       *services.RateService
	WS          *handlers.WSHandler
}

// NewServices wires the default production stack on top of the database.
func NewServices(db *sql.DB) *Services {
	ai := services.NewAICategorizer()
	trips := repository.NewTripRepository(db)

	return &Services{
		Trips:       trips,
		Expenses:    repository.NewExpenseRepository(db),
		Categorizer: services.NewCategorizerService(repository.NewLabelMappingCache(db), ai),
		Countries:   services.NewCountryService(ai),
		Rates:       services.NewRateService(ai),
		WS:          handlers.NewWSHandler(trips),
	}
}

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db}

	rg.POST("/auth/signup", authHandler.Signup)
	rg.POST("/auth/login", authHandler.Login)
	rg.POST("/auth/refresh", authHandler.Refresh)
	rg.POST("/auth/logout", authHandler.Logout)
}

// SetupTripRoutes sets up protected trip, expense and analytics routes.
func SetupTripRoutes(rg *gin.RouterGroup, svc *Services) {
	tripHandler := &handlers.TripHandler{
		Trips:     svc.Trips,
		Expenses:  svc.Expenses,
		Countries: svc.Countries,
		WS:        svc.WS,
	}
	expenseHandler := &handlers.ExpenseHandler{
		Trips:       svc.Trips,
		Expenses:    svc.Expenses,
		Categorizer: svc.Categorizer,
		Rates:       svc.Rates,
		WS:          svc.WS,
	}
	summaryHandler := &handlers.SummaryHandler{
		Trips:    svc.Trips,
		Expenses: svc.Expenses,
	}

	rg.GET("/trips", tripHandler.ListTrips)
	rg.POST("/trips", tripHandler.CreateTrip)
	rg.GET("/trips/:id", tripHandler.GetTrip)
	rg.PUT("/trips/:id", tripHandler.UpdateTrip)
	rg.DELETE("/trips/:id", tripHandler.DeleteTrip)
	rg.PUT("/trips/:id/cash", tripHandler.UpdateCash)

	rg.GET("/trips/:id/expenses", expenseHandler.ListExpenses)
	rg.POST("/trips/:id/expenses", expenseHandler.CreateExpense)
	rg.GET("/trips/:id/expenses/:expenseId", expenseHandler.GetExpense)
	rg.PUT("/trips/:id/expenses/:expenseId", expenseHandler.UpdateExpense)
	rg.DELETE("/trips/:id/expenses/:expenseId", expenseHandler.DeleteExpense)

	rg.GET("/trips/:id/summary", summaryHandler.GetTripSummary)
	rg.GET("/analytics/summaries", summaryHandler.ListSummaries)
	rg.GET("/analytics/comparison", summaryHandler.CompareTrips)
}

// SetupUserRoutes sets up protected user account routes.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB, svc *Services) {
	userHandler := &handlers.UserHandler{
		DB:       db,
		Trips:    svc.Trips,
		Expenses: svc.Expenses,
	}

	rg.GET("/user/profile", userHandler.GetProfile)
	rg.PUT("/user/profile", userHandler.UpdateProfile)
	rg.POST("/user/password", userHandler.ChangePassword)
	rg.POST("/user/2fa/setup", userHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", userHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", userHandler.DisableTOTP)
	rg.DELETE("/user/account", userHandler.DeleteAccount)
	rg.GET("/user/export", userHandler.ExportUserData)
}

// SetupAssistRoutes sets up protected helper lookups.
func SetupAssistRoutes(rg *gin.RouterGroup, svc *Services) {
	assistHandler := &handlers.AssistHandler{
		Categorizer: svc.Categorizer,
		Countries:   svc.Countries,
		Rates:       svc.Rates,
	}

	rg.POST("/assist/categorize", assistHandler.Categorize)
	rg.POST("/assist/country", assistHandler.DetectCountry)
	rg.GET("/assist/rate", assistHandler.GetRate)
}
