package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"ads-insights-assistant/config"
	_ "ads-insights-assistant/docs"
	"ads-insights-assistant/internal/controller"
	"ads-insights-assistant/internal/insights"
	"ads-insights-assistant/internal/kafka"
	"ads-insights-assistant/internal/llm"
	"ads-insights-assistant/internal/scheduler"
	"ads-insights-assistant/internal/service"
	"ads-insights-assistant/internal/store"
)

// @title           Ads Insights Assistant API
// @version         1.0
// @description     Fetches ad performance reports into per-session tables and answers natural language questions about them.

// @host      localhost:8080
// @BasePath  /
// @schemes   http https

// @tag.name         sessions
// @tag.description  Report fetching and dataset display

// @tag.name         query
// @tag.description  Questions answered from the dataset summary

// @tag.name         health
// @tag.description  API health check operations

func main() {
	app := fx.New(
		// Core Dependencies
		fx.Provide(
			NewConfig,
		),
		// Infrastructure Dependencies
		fx.Provide(
			NewGinEngine,
			insights.NewReportFetcher,
			llm.NewChatModel,
			store.NewInMemorySessionStore,
			kafka.NewKafkaQueryEventProducer,
			service.NewAnalysisService,
			service.NewSessionService,
			service.NewQueryService,
			controller.NewSessionController,
			controller.NewQueryController,
		),
		fx.Invoke(
			ConfigureLogger,
			RegisterAPIRoutes,
			RegisterScheduler,
		),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second) // Timeout for startup
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}
	<-app.Done()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 30*time.Second) // Timeout for graceful shutdown
	defer cancelStop()
	log.Info().Msg("Shutting down application...")
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown due to error or timeout")
	}
	log.Info().Msg("Exiting.")
}

func NewConfig() (*config.Config, error) {
	return config.NewConfig()
}

func ConfigureLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Logging.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func RegisterAPIRoutes(
	lifecycle fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	sessionController *controller.SessionController,
	queryController *controller.QueryController,
) {
	controller.RegisterHealthRoutes(router)
	controller.RegisterSessionRoutes(router, sessionController)
	controller.RegisterQueryRoutes(router, queryController)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Starting HTTP server on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error().Err(err).Msg("HTTP server ListenAndServe error")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Shutting down HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}

// --- Invoker Functions ---

func RegisterScheduler(lc fx.Lifecycle, cfg *config.Config, sessionSvc service.SessionService) error {
	_, err := scheduler.NewScheduler(lc, cfg, sessionSvc)
	return err
}
