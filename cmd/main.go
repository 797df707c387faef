package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/studydeck/config"
	"github.com/lshigami/studydeck/database"
	_ "github.com/lshigami/studydeck/docs" // Swagger docs
	deckctrl "github.com/lshigami/studydeck/internal/controller/deck"
	quizctrl "github.com/lshigami/studydeck/internal/controller/quiz"
	"github.com/lshigami/studydeck/internal/logger"
	"github.com/lshigami/studydeck/internal/middleware"
	"github.com/lshigami/studydeck/internal/repository"
	"github.com/lshigami/studydeck/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Study Deck Quiz API
// @version 1.0
// @description Study-deck gateway: decks, flashcards and AI-generated multiple-choice quizzes that grow with the deck.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.NopLogger,

		// Core
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			database.NewRedisClient,
			NewGinEngine,
		),

		// Repositories
		fx.Provide(
			repository.NewDeckRepository,
			repository.NewQuizRepository,
			repository.NewQuizClaimRepository,
		),

		// Services
		fx.Provide(
			service.NewGeminiService,
			service.NewQuizService,
			service.NewDeckService,
		),

		// Controllers
		fx.Provide(
			deckctrl.NewDeckController,
			quizctrl.NewQuizController,
		),

		fx.Invoke(logger.Configure),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(closeOnStop),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Failed to stop application cleanly")
	}
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)

	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	deckCtrl *deckctrl.DeckController,
	quizCtrl *quizctrl.QuizController,
) {
	api := router.Group("/api/v1", middleware.Auth(cfg))
	{
		api.POST("/decks", deckCtrl.CreateDeck)
		api.GET("/decks/:deck_id", deckCtrl.GetDeck)
		api.POST("/decks/:deck_id/flashcards", deckCtrl.AddFlashcards)

		api.POST("/decks/:deck_id/quizzes", quizCtrl.GenerateQuiz)
		api.GET("/quizzes/:quiz_id", quizCtrl.GetQuiz)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Study deck API server starting on port %s", cfg.Server.Port)
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
	if err := database.Migrate(db); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

// closeOnStop releases the connection pools. fx stops hooks in reverse
// order, so registering it before the server closes pools after shutdown.
func closeOnStop(lc fx.Lifecycle, db *gorm.DB, rdb *redis.Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if rdb != nil {
				if err := rdb.Close(); err != nil {
					log.Warn().Err(err).Msg("Failed to close redis client")
				}
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
}
