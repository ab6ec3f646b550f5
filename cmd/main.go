package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/sk800/ai-interview/config"
	"github.com/sk800/ai-interview/database"
	_ "github.com/sk800/ai-interview/docs" // Swagger docs - auto-generated
	authctrl "github.com/sk800/ai-interview/internal/controller/auth"
	interviewctrl "github.com/sk800/ai-interview/internal/controller/interview"
	"github.com/sk800/ai-interview/internal/logger"
	"github.com/sk800/ai-interview/internal/middleware"
	"github.com/sk800/ai-interview/internal/model"
	"github.com/sk800/ai-interview/internal/proctor"
	"github.com/sk800/ai-interview/internal/repository"
	"github.com/sk800/ai-interview/internal/service"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title AI Interview API
// @version 1.0
// @description Remote proctored AI interview platform with identity verification and AI-scored answers.
// @contact.name API Support
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Repositories Layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewSampleRepository,
			repository.NewInterviewRepository,
			repository.NewQuestionRepository,
			repository.NewAnswerRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewGeminiClient,
			service.NewTokenService,
			service.NewAuthService,
			service.NewFaceVerificationService,
			service.NewVoiceVerificationService,
			service.NewSampleService,
			service.NewQuestionService,
			service.NewEvaluationService,
			service.NewVerdictService,
			func(cfg *config.Config) proctor.Policy {
				return proctor.NewPolicy(cfg.Proctor.AlertCeiling, cfg.Proctor.FaceDebounce)
			},
			service.NewProctorService,
			service.NewInterviewService,
		),

		// API Controllers Layer
		fx.Provide(
			authctrl.NewAuthController,
			interviewctrl.NewInterviewController,
		),

		// Invokers - Functions that are executed by Fx
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
	gin.SetMode(gin.DebugMode)

	r := gin.New()

	// Custom logger using Zerolog for Gin
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

	// CORS Configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI
	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	tokens service.TokenService,
	authCtrl *authctrl.AuthController,
	interviewCtrl *interviewctrl.InterviewController,
) {
	api := router.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/register", authCtrl.Register)
		authGroup.POST("/login", authCtrl.Login)

		// All candidate endpoints require a bearer token.
		candidateGroup := api.Group("")
		candidateGroup.Use(middleware.RequireAuth(tokens))
		{
			candidateGroup.POST("/samples", interviewCtrl.UploadSamples)

			candidateGroup.POST("/interviews", interviewCtrl.StartInterview)
			candidateGroup.GET("/interviews/:interview_id/question", interviewCtrl.GetQuestion)
			candidateGroup.POST("/interviews/:interview_id/answer", interviewCtrl.SubmitAnswer)
			candidateGroup.GET("/interviews/:interview_id/summary", interviewCtrl.Summary)

			candidateGroup.POST("/interviews/:interview_id/verify", interviewCtrl.VerifyIdentity)
			candidateGroup.POST("/interviews/:interview_id/terminate", interviewCtrl.Terminate)
		}
	}

	// HTTP Server Setup and Lifecycle
	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("AI Interview API server starting on port %s", cfg.Server.Port)
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
		&model.Sample{},
		&model.Interview{},
		&model.Question{},
		&model.Answer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
