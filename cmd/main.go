package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopsetu/checklist/config"
	"github.com/shopsetu/checklist/database"
	adminctrl "github.com/shopsetu/checklist/internal/controller/admin"
	"github.com/shopsetu/checklist/internal/controller/middleware"
	userctrl "github.com/shopsetu/checklist/internal/controller/user"
	"github.com/shopsetu/checklist/internal/logger"
	"github.com/shopsetu/checklist/internal/model"
	"github.com/shopsetu/checklist/internal/repository"
	"github.com/shopsetu/checklist/internal/service"
	"github.com/shopsetu/checklist/internal/storage"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Shop Setup Checklist API
// @version 1.0
// @description Survey/checklist intake backend: authenticated users submit multi-question form responses with photo/video attachments; administrators review, edit and delete submissions.
// @host localhost:5000
// @BasePath /api
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // *gorm.DB
			storage.NewMinioStorage,
			NewGinEngine,
		),

		// Repositories layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewSubmissionRepository,
		),

		// Services layer
		fx.Provide(
			service.NewTextNormalizerService,
			service.NewAuthService,
			service.NewFormIntakeService,
			service.NewResponseService,
		),

		// API controllers layer
		fx.Provide(
			userctrl.NewAuthController,
			userctrl.NewFormController,
			adminctrl.NewResponseAdminController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Set-Cookie", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages the server
// lifecycle through fx hooks.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authService service.AuthService,
	authCtrl *userctrl.AuthController,
	formCtrl *userctrl.FormController,
	adminCtrl *adminctrl.ResponseAdminController,
) {
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/register", authCtrl.Register)
		authGroup.POST("/login", authCtrl.Login)
		authGroup.POST("/send-otp", authCtrl.SendOTP)
		authGroup.POST("/verify-otp", authCtrl.VerifyOTP)
		authGroup.POST("/reset-password", authCtrl.ResetPassword)
		authGroup.POST("/logout", authCtrl.Logout)
		authGroup.GET("/session", authCtrl.Session)
	}

	formGroup := router.Group("/api/form")
	formGroup.Use(middleware.RequireSession(authService))
	{
		formGroup.POST("/submit", formCtrl.Submit)
		formGroup.GET("/responses", formCtrl.GetResponses)
		formGroup.GET("/translations", formCtrl.GetTranslations)
		formGroup.PUT("/response/:id", adminCtrl.UpdateResponse)
		formGroup.DELETE("/response/:id", adminCtrl.DeleteResponse)
		formGroup.DELETE("/user/:id", adminCtrl.DeleteUser)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Checklist API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Submission{},
		&model.AnswerRecord{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
