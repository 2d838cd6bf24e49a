package main

import (
	"fmt"
	"net/http"
	"os"

	"flotilla/internal/config"
	"flotilla/internal/database"
	"flotilla/internal/handlers"
	"flotilla/internal/logger"
	"flotilla/internal/middleware"
	"flotilla/internal/models"
	"flotilla/internal/services"
	"flotilla/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "flotilla/internal/docs" // Import swagger docs
)

// @title           Flotilla API
// @version         1.0
// @description     Flotilla is a fleet investment management API for tracking vehicles, investors, and per-investor financial performance, with CSV and PDF report exports.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	vehicleService := services.NewVehicleService(db)
	recordService := services.NewFinancialRecordService(db)
	maintenanceService := services.NewMaintenanceService(db)
	documentService := services.NewDocumentService(db)
	reportService := services.NewReportService(db)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	investorHandler := handlers.NewInvestorHandler(userService, auditService)
	vehicleHandler := handlers.NewVehicleHandler(vehicleService, auditService)
	recordHandler := handlers.NewFinancialRecordHandler(recordService, auditService)
	maintenanceHandler := handlers.NewMaintenanceHandler(maintenanceService, auditService)
	documentHandler := handlers.NewDocumentHandler(documentService, auditService)
	reportHandler := handlers.NewReportHandler(reportService, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Admin-only management routes
	admin := protected.Group("/")
	admin.Use(middleware.RequireRole(models.UserRoleAdmin))

	// Investor routes
	investors := admin.Group("/investors")
	investors.POST("", investorHandler.CreateInvestor)
	investors.GET("", investorHandler.ListInvestors)
	investors.GET("/:id", investorHandler.GetInvestor)
	investors.PUT("/:id", investorHandler.UpdateInvestor)
	investors.DELETE("/:id", investorHandler.DeactivateInvestor)

	// Vehicle routes
	protected.GET("/vehicles", vehicleHandler.ListVehicles)
	protected.GET("/vehicles/:id", vehicleHandler.GetVehicle)
	vehicles := admin.Group("/vehicles")
	vehicles.POST("", vehicleHandler.CreateVehicle)
	vehicles.PUT("/:id", vehicleHandler.UpdateVehicle)
	vehicles.DELETE("/:id", vehicleHandler.DeleteVehicle)
	vehicles.POST("/:id/assign", vehicleHandler.AssignInvestor)
	vehicles.POST("/:id/unassign", vehicleHandler.UnassignInvestor)

	// Maintenance routes
	protected.GET("/vehicles/:id/maintenance", maintenanceHandler.GetVehicleMaintenance)
	vehicles.POST("/:id/maintenance", maintenanceHandler.CreateMaintenance)
	maintenance := admin.Group("/maintenance")
	maintenance.PUT("/:id/status", maintenanceHandler.UpdateMaintenanceStatus)
	maintenance.DELETE("/:id", maintenanceHandler.DeleteMaintenance)

	// Financial record routes
	records := admin.Group("/records")
	records.POST("", recordHandler.CreateRecord)
	records.GET("", recordHandler.ListRecords)
	records.GET("/:id", recordHandler.GetRecord)
	records.PUT("/:id", recordHandler.UpdateRecord)
	records.DELETE("/:id", recordHandler.DeleteRecord)

	// Document routes
	documents := admin.Group("/documents")
	documents.POST("", documentHandler.CreateDocument)
	documents.GET("", documentHandler.ListDocuments)
	documents.DELETE("/:id", documentHandler.DeleteDocument)

	// Report routes. The fleet-wide summary is admin only; the
	// per-investor endpoints also allow investors to view their own.
	admin.GET("/reports/investors", reportHandler.GetFinancialSummaries)
	reportsGroup := protected.Group("/reports/investors")
	reportsGroup.GET("/:id", reportHandler.GetInvestorSummary)
	reportsGroup.GET("/:id/monthly", reportHandler.GetMonthlyFinancials)
	reportsGroup.GET("/:id/export/csv", reportHandler.ExportCSV)
	reportsGroup.GET("/:id/export/pdf", reportHandler.ExportPDF)

	log.Infof("Starting Flotilla backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
