package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"flotilla/internal/handlers"
	"flotilla/internal/logger"
	"flotilla/internal/middleware"
	"flotilla/internal/models"
	"flotilla/internal/services"
	"flotilla/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Vehicle{},
		&models.FinancialRecord{},
		&models.MaintenanceRecord{},
		&models.Document{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	vehicleService := services.NewVehicleService(db)
	recordService := services.NewFinancialRecordService(db)
	maintenanceService := services.NewMaintenanceService(db)
	documentService := services.NewDocumentService(db)
	reportService := services.NewReportService(db)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	investorHandler := handlers.NewInvestorHandler(userService, auditService)
	vehicleHandler := handlers.NewVehicleHandler(vehicleService, auditService)
	recordHandler := handlers.NewFinancialRecordHandler(recordService, auditService)
	maintenanceHandler := handlers.NewMaintenanceHandler(maintenanceService, auditService)
	documentHandler := handlers.NewDocumentHandler(documentService, auditService)
	reportHandler := handlers.NewReportHandler(reportService, auditService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	admin := protected.Group("/")
	admin.Use(middleware.RequireRole(models.UserRoleAdmin))

	investors := admin.Group("/investors")
	investors.POST("", investorHandler.CreateInvestor)
	investors.GET("", investorHandler.ListInvestors)
	investors.GET("/:id", investorHandler.GetInvestor)
	investors.PUT("/:id", investorHandler.UpdateInvestor)
	investors.DELETE("/:id", investorHandler.DeactivateInvestor)

	protected.GET("/vehicles", vehicleHandler.ListVehicles)
	protected.GET("/vehicles/:id", vehicleHandler.GetVehicle)
	vehicles := admin.Group("/vehicles")
	vehicles.POST("", vehicleHandler.CreateVehicle)
	vehicles.PUT("/:id", vehicleHandler.UpdateVehicle)
	vehicles.DELETE("/:id", vehicleHandler.DeleteVehicle)
	vehicles.POST("/:id/assign", vehicleHandler.AssignInvestor)
	vehicles.POST("/:id/unassign", vehicleHandler.UnassignInvestor)

	protected.GET("/vehicles/:id/maintenance", maintenanceHandler.GetVehicleMaintenance)
	vehicles.POST("/:id/maintenance", maintenanceHandler.CreateMaintenance)
	maintenance := admin.Group("/maintenance")
	maintenance.PUT("/:id/status", maintenanceHandler.UpdateMaintenanceStatus)
	maintenance.DELETE("/:id", maintenanceHandler.DeleteMaintenance)

	records := admin.Group("/records")
	records.POST("", recordHandler.CreateRecord)
	records.GET("", recordHandler.ListRecords)
	records.GET("/:id", recordHandler.GetRecord)
	records.PUT("/:id", recordHandler.UpdateRecord)
	records.DELETE("/:id", recordHandler.DeleteRecord)

	documents := admin.Group("/documents")
	documents.POST("", documentHandler.CreateDocument)
	documents.GET("", documentHandler.ListDocuments)
	documents.DELETE("/:id", documentHandler.DeleteDocument)

	admin.GET("/reports/investors", reportHandler.GetFinancialSummaries)
	reportsGroup := protected.Group("/reports/investors")
	reportsGroup.GET("/:id", reportHandler.GetInvestorSummary)
	reportsGroup.GET("/:id/monthly", reportHandler.GetMonthlyFinancials)
	reportsGroup.GET("/:id/export/csv", reportHandler.ExportCSV)
	reportsGroup.GET("/:id/export/pdf", reportHandler.ExportPDF)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerAdmin registers an admin account and returns its tokens and user ID.
func (app *testApp) registerAdmin(t *testing.T, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"full_name":"Fleet Admin"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// createInvestor creates an investor account via the admin API and returns its ID.
func (app *testApp) createInvestor(t *testing.T, adminToken, email, fullName string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":"password123","full_name":%q}`, email, fullName)
	rec := app.request("POST", "/api/v1/investors", body, adminToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create investor failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	investor := result["investor"].(map[string]interface{})
	return investor["id"].(string)
}

// createVehicle creates a vehicle via the admin API and returns its ID.
func (app *testApp) createVehicle(t *testing.T, adminToken, make, model, plate string) string {
	t.Helper()
	body := fmt.Sprintf(`{"make":%q,"model":%q,"year":2022,"license_plate":%q}`, make, model, plate)
	rec := app.request("POST", "/api/v1/vehicles", body, adminToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create vehicle failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	vehicle := result["vehicle"].(map[string]interface{})
	return vehicle["id"].(string)
}

// assignVehicle assigns a vehicle to an investor via the admin API.
func (app *testApp) assignVehicle(t *testing.T, adminToken, vehicleID, investorID string) {
	t.Helper()
	body := fmt.Sprintf(`{"investor_id":%q}`, investorID)
	rec := app.request("POST", "/api/v1/vehicles/"+vehicleID+"/assign", body, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("assign vehicle failed: %d %s", rec.Code, rec.Body.String())
	}
}

// createRecord creates a financial record via the admin API and returns its ID.
func (app *testApp) createRecord(t *testing.T, adminToken, vehicleID, recordType, amount, date string) string {
	t.Helper()
	body := fmt.Sprintf(`{"vehicle_id":%q,"type":%q,"category":"rental","amount":%q,"date":%q,"description":"Integration record"}`,
		vehicleID, recordType, amount, date)
	rec := app.request("POST", "/api/v1/records", body, adminToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create record failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	record := result["record"].(map[string]interface{})
	return record["id"].(string)
}
