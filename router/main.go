package router

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gmpi-ec/gmpi-backend/config"
	"github.com/gmpi-ec/gmpi-backend/database"
	auth_handlers "github.com/gmpi-ec/gmpi-backend/handlers/auth"
	infrastructure_handlers "github.com/gmpi-ec/gmpi-backend/handlers/infrastructure"
	institution_handlers "github.com/gmpi-ec/gmpi-backend/handlers/institution"
	maintenance_handlers "github.com/gmpi-ec/gmpi-backend/handlers/maintenance"
	report_handlers "github.com/gmpi-ec/gmpi-backend/handlers/report"
	upload_handlers "github.com/gmpi-ec/gmpi-backend/handlers/upload"
	"github.com/gmpi-ec/gmpi-backend/model"
	"github.com/gmpi-ec/gmpi-backend/services"
	"github.com/gmpi-ec/gmpi-backend/utils/auth"
	"github.com/gmpi-ec/gmpi-backend/utils/cache"
	"github.com/gmpi-ec/gmpi-backend/utils/filevalidation"
	"github.com/gmpi-ec/gmpi-backend/utils/middleware"
	"github.com/gmpi-ec/gmpi-backend/utils/response"
	"github.com/gmpi-ec/gmpi-backend/utils/storage"
	"github.com/gmpi-ec/gmpi-backend/utils/validation"
)

// SetupRoutes wires every handler onto the Fiber app. Reads on domain data
// are public; mutations require a valid token and deletes require the
// admin role.
func SetupRoutes(app *fiber.App, store database.Storage, env *config.EnviornmentVariable) {
	if env.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: env.JWT_SECRET,
		Expiry: time.Duration(env.JWT_EXPIRES_HOURS) * time.Hour,
		Issuer: env.JWT_ISSUER,
	})

	db := store.GetDB()

	redisCache, err := cache.NewRedisCache(env.REDIS_URL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	fileStore, err := storage.NewLocalStore(env.UPLOAD_DIR)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	validator := validation.NewValidator()
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, validator, env.BCRYPT_ROUNDS, bruteForceProtection)
	institutionHandler := institution_handlers.NewInstitutionHandler(db, validator)
	infrastructureHandler := infrastructure_handlers.NewInfrastructureHandler(db, validator)
	maintenanceHandler := maintenance_handlers.NewMaintenanceHandler(db, validator)

	reportService := services.NewReportService(db)
	reportHandler := report_handlers.NewReportHandler(reportService)

	uploadHandler := upload_handlers.NewUploadHandler(db, fileStore, filevalidation.Config{
		AllowedTypes: env.UPLOAD_ALLOWED_TYPES,
		MaxSize:      env.UPLOAD_MAX_SIZE,
	})

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    env.ALLOWED_ORIGINS,
		RateLimitRequests: env.RATE_LIMIT_MAX,
		RateLimitWindow:   time.Duration(env.RATE_LIMIT_WINDOW) * time.Minute,
	})

	app.Get("/api/health", func(c *fiber.Ctx) error {
		if err := store.HealthCheck(); err != nil {
			return response.Error(c, fiber.StatusServiceUnavailable, "Base de datos no disponible")
		}
		return response.SuccessWithMessage(c, "GMPI Backend funcionando correctamente", fiber.Map{
			"timestamp": time.Now().UTC(),
		})
	})

	api := app.Group("/api")
	requireAuth := authMiddleware.Required()
	requireAdmin := authMiddleware.RequireRole(model.RoleAdmin)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckLocked(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}
	authGroup.Get("/profile", requireAuth, authHandler.GetProfile)
	authGroup.Put("/profile", requireAuth, authHandler.UpdateProfile)
	authGroup.Post("/refresh", requireAuth, authHandler.RefreshToken)

	institutions := api.Group("/institutions")
	institutions.Get("/", institutionHandler.ListInstitutions)
	institutions.Get("/stats/summary", institutionHandler.GetSummaryStats)
	institutions.Get("/:id", institutionHandler.GetInstitution)
	institutions.Post("/", requireAuth, institutionHandler.CreateInstitution)
	institutions.Put("/:id", requireAuth, institutionHandler.UpdateInstitution)
	institutions.Delete("/:id", requireAuth, requireAdmin, institutionHandler.DeleteInstitution)

	infrastructures := api.Group("/infrastructure")
	infrastructures.Get("/", infrastructureHandler.ListInfrastructures)
	infrastructures.Get("/:id", infrastructureHandler.GetInfrastructure)
	infrastructures.Post("/", requireAuth, infrastructureHandler.CreateInfrastructure)
	infrastructures.Put("/:id", requireAuth, infrastructureHandler.UpdateInfrastructure)
	infrastructures.Delete("/:id", requireAuth, requireAdmin, infrastructureHandler.DeleteInfrastructure)

	maintenance := api.Group("/maintenance")
	maintenance.Get("/", maintenanceHandler.ListMaintenance)
	maintenance.Get("/stats/dashboard", maintenanceHandler.GetDashboardStats)
	maintenance.Get("/:id", maintenanceHandler.GetMaintenance)
	maintenance.Post("/", requireAuth, maintenanceHandler.CreateMaintenance)
	maintenance.Put("/:id", requireAuth, maintenanceHandler.UpdateMaintenance)
	maintenance.Post("/:id/complete", requireAuth, maintenanceHandler.CompleteMaintenance)
	maintenance.Delete("/:id", requireAuth, requireAdmin, maintenanceHandler.DeleteMaintenance)

	reports := api.Group("/reports")
	reports.Get("/dashboard", reportHandler.GetDashboard)
	reports.Get("/maintenance", reportHandler.GetMaintenanceReport)
	reports.Get("/institutions", reportHandler.GetInstitutionReport)
	reports.Get("/upcoming-maintenance", reportHandler.GetUpcomingMaintenance)
	reports.Get("/cost-analysis", reportHandler.GetCostAnalysis)

	uploads := api.Group("/upload")
	uploads.Get("/files/:filename", uploadHandler.ServeFile)
	uploads.Get("/attachments/:table/:id", uploadHandler.ListAttachments)
	uploads.Post("/", requireAuth, uploadHandler.UploadFile)
	uploads.Post("/multiple", requireAuth, uploadHandler.UploadMultiple)
	uploads.Delete("/attachments/:id", requireAuth, requireAdmin, uploadHandler.DeleteAttachment)

	// Unknown API paths get a JSON 404; everything else falls through to the
	// frontend below.
	api.Use(func(c *fiber.Ctx) error {
		return response.NotFound(c, "Endpoint no encontrado")
	})

	app.Static("/", env.FRONTEND_DIR)
	app.Get("*", func(c *fiber.Ctx) error {
		return c.SendFile(env.FRONTEND_DIR + "/index.html")
	})
}
