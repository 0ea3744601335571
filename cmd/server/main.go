package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/surveyhq/survey-management-api/internal/config"
	"github.com/surveyhq/survey-management-api/internal/constants"
	"github.com/surveyhq/survey-management-api/internal/database"
	"github.com/surveyhq/survey-management-api/internal/handlers"
	"github.com/surveyhq/survey-management-api/internal/mailer"
	"github.com/surveyhq/survey-management-api/internal/middleware"
	"github.com/surveyhq/survey-management-api/internal/repository"
	"github.com/surveyhq/survey-management-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	logger, err := zap.NewProduction()
	if cfg.GinMode != "release" {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		logger.Fatal("Failed to create Redis store", zap.Error(err))
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	db := database.GetDB()

	// Repositories
	orgRepo := repository.NewOrganizationRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	surveyRepo := repository.NewSurveyRepository(db)
	responseRepo := repository.NewResponseRepository(db)

	// Mailer
	mail := mailer.NewSMTPMailer(cfg, logger)

	// Services
	authService := services.NewAuthService(employeeRepo, adminRepo)
	surveyService := services.NewSurveyService(surveyRepo, questionRepo, employeeRepo, responseRepo, mail, cfg.BaseURL, logger)
	responseService := services.NewResponseService(surveyRepo, responseRepo, mail, cfg.BaseURL, logger)
	adminService := services.NewAdminService(orgRepo, employeeRepo, questionRepo)

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	employeeHandler := handlers.NewEmployeeHandler(surveyService, responseService)
	orgAdminHandler := handlers.NewOrganizationAdminHandler(orgRepo, adminService)
	employeeAdminHandler := handlers.NewEmployeeAdminHandler(employeeRepo, adminService)
	questionAdminHandler := handlers.NewQuestionAdminHandler(questionRepo, adminService, aiService)
	surveyAdminHandler := handlers.NewSurveyAdminHandler(surveyRepo, questionRepo, employeeRepo, surveyService)
	responseAdminHandler := handlers.NewResponseAdminHandler(responseRepo)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Survey Management API is running",
		})
	})

	// Employee surface
	r.GET("/", authHandler.Gateway)
	r.POST("/login/", authHandler.Login)
	r.POST("/logout/", authHandler.Logout)

	employee := r.Group("/")
	employee.Use(middleware.RequireEmployeeAuth())
	{
		employee.GET("/me/", authHandler.Me)
		employee.POST("/password/", authHandler.ChangePassword)
		employee.GET("/employee/", employeeHandler.Dashboard)
		employee.GET("/que_list/:survey_id", employeeHandler.QuestionList)
		employee.POST("/save/:survey_id", employeeHandler.Save)
	}

	// Admin console surface
	r.POST("/admin/login/", authHandler.AdminLogin)

	admin := r.Group("/admin/api")
	admin.Use(middleware.RequireAdminAuth())
	{
		orgs := admin.Group("/organizations")
		{
			orgs.GET("", orgAdminHandler.List)
			orgs.GET("/:id", orgAdminHandler.Get)
			orgs.PATCH("/:id", orgAdminHandler.Update)
			orgs.POST("", middleware.RequireSuperuser(), orgAdminHandler.Create)
			orgs.POST("/:id/archive", middleware.RequireSuperuser(), orgAdminHandler.Archive)
			orgs.POST("/:id/restore", middleware.RequireSuperuser(), orgAdminHandler.Restore)
		}

		employees := admin.Group("/employees")
		{
			employees.GET("", employeeAdminHandler.List)
			employees.POST("", employeeAdminHandler.Create)
			employees.GET("/:id", employeeAdminHandler.Get)
			employees.PATCH("/:id", employeeAdminHandler.Update)
			employees.DELETE("/:id", employeeAdminHandler.Delete)
		}

		questions := admin.Group("/questions")
		{
			questions.GET("", questionAdminHandler.List)
			questions.POST("", questionAdminHandler.Create)
			questions.POST("/suggest", questionAdminHandler.Suggest)
			questions.GET("/:id", questionAdminHandler.Get)
			questions.PATCH("/:id", questionAdminHandler.Update)
			questions.DELETE("/:id", questionAdminHandler.Delete)
		}

		surveys := admin.Group("/surveys")
		{
			surveys.GET("", surveyAdminHandler.List)
			surveys.POST("", surveyAdminHandler.Create)
			surveys.GET("/options", surveyAdminHandler.Options)
			surveys.GET("/:id", surveyAdminHandler.Get)
			surveys.PATCH("/:id", surveyAdminHandler.Update)
			surveys.DELETE("/:id", surveyAdminHandler.Delete)
		}

		responses := admin.Group("/responses")
		{
			responses.GET("", responseAdminHandler.List)
			responses.POST("", responseAdminHandler.Reject)
			responses.PATCH("/:id", responseAdminHandler.Reject)
			responses.DELETE("/:id", responseAdminHandler.Reject)
		}
	}

	// Start server
	logger.Info("Server starting", zap.String("addr", ":8080"))
	if err := r.Run(":8080"); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
