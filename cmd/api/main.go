package main

import (
	"context"
	"log"
	"time"

	_ "hrms/api/swagger" // swagger docs
	"hrms/internal/config"
	"hrms/internal/database"
	"hrms/internal/handler"
	"hrms/internal/middleware"
	"hrms/internal/repository"
	"hrms/internal/service"
	"hrms/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           HRMS API
// @version         1.0
// @description     Multi-company HR management backend: sessions, employees, leaves, payroll, attendance.
// @host            localhost:8080
// @BasePath        /api
func main() {
	cfg := config.Load()

	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	deductionRepo := repository.NewDeductionRepository(db)
	violationRepo := repository.NewViolationRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	payrollRepo := repository.NewPayrollRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	txManager := repository.NewTransactionManager(db)

	auditService := service.NewAuditService(db)
	authService := service.NewAuthService(userRepo, tokenRepo, txManager, auditService)
	userService := service.NewUserService(userRepo, companyRepo)
	companyService := service.NewCompanyService(companyRepo)
	employeeService := service.NewEmployeeService(employeeRepo, txManager, auditService)
	notificationService := service.NewNotificationService(notificationRepo, employeeRepo, userRepo, wsHub)
	leaveService := service.NewLeaveService(leaveRepo, employeeRepo, notificationService, txManager, auditService, wsHub)
	deductionService := service.NewDeductionService(deductionRepo, employeeRepo, txManager, auditService)
	violationService := service.NewViolationService(violationRepo, employeeRepo, txManager, auditService)
	assetService := service.NewAssetService(assetRepo, employeeRepo, txManager, auditService)
	payrollService := service.NewPayrollService(payrollRepo, employeeRepo, deductionRepo, notificationService, txManager, auditService)
	attendanceService := service.NewAttendanceService(attendanceRepo, employeeRepo)
	documentService := service.NewDocumentService(documentRepo, employeeRepo)
	statisticsService := service.NewStatisticsService(employeeRepo, leaveRepo, assetRepo, notificationRepo)

	authMw := middleware.NewAuth(tokenRepo, authService)

	// Sweep expired blacklist and refresh-token rows hourly.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := tokenRepo.PurgeExpired(context.Background(), time.Now()); err != nil {
				log.Println("token purge failed:", err)
			}
		}
	}()

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService, authMw)
	userHandler := handler.NewUserHandler(userService, authMw)
	companyHandler := handler.NewCompanyHandler(companyService, authMw)
	employeeHandler := handler.NewEmployeeHandler(employeeService, authMw)
	leaveHandler := handler.NewLeaveHandler(leaveService, authMw)
	deductionHandler := handler.NewDeductionHandler(deductionService, authMw)
	violationHandler := handler.NewViolationHandler(violationService, authMw)
	assetHandler := handler.NewAssetHandler(assetService, authMw)
	payrollHandler := handler.NewPayrollHandler(payrollService, authMw)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService, authMw)
	documentHandler := handler.NewDocumentHandler(documentService, authMw)
	notificationHandler := handler.NewNotificationHandler(notificationService, authMw)
	auditHandler := handler.NewAuditHandler(auditService, authMw)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService, authMw)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept", "Accept-Language"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, tokenRepo, c, middleware.AccessCookieName())
	})

	// Register API Routes. Sanitization runs before validation on every
	// /api route.
	api := router.Group("/api", middleware.SanitizeInput())
	authHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)
	companyHandler.RegisterRoutes(api)
	employeeHandler.RegisterRoutes(api)
	leaveHandler.RegisterRoutes(api)
	deductionHandler.RegisterRoutes(api)
	violationHandler.RegisterRoutes(api)
	assetHandler.RegisterRoutes(api)
	payrollHandler.RegisterRoutes(api)
	attendanceHandler.RegisterRoutes(api)
	documentHandler.RegisterRoutes(api)
	notificationHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)
	statisticsHandler.RegisterRoutes(api)

	log.Printf("Server listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
