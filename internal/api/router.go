package api

import (
	"time"

	"cooking-assistant/internal/api/handlers/command"
	"cooking-assistant/internal/api/handlers/health"
	recipeHandler "cooking-assistant/internal/api/handlers/recipe"
	"cooking-assistant/internal/api/middleware"
	"cooking-assistant/internal/core/recipe"
	"cooking-assistant/internal/infrastructure/config"
	"cooking-assistant/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 路由需要的服務
type Dependencies struct {
	Store     recipe.Store
	Assistant command.Processor
	AIOnline  bool
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg.App.Version, deps.Store, deps.AIOnline)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	// API 路由組
	api := router.Group("/api")
	{
		recipes := recipeHandler.NewHandler(deps.Store)
		api.GET("/recipe/:id", recipes.GetRecipe)
		api.GET("/recipes", recipes.ListRecipes)
		api.GET("/recipes_by_category", recipes.ListByCategory)

		commandChain := []gin.HandlerFunc{}
		if cfg.RateLimit.Enabled {
			commandChain = append(commandChain, middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware())
		}
		if cfg.DedupWindow > 0 {
			commandChain = append(commandChain, middleware.NewDeduplicator(cfg.DedupWindow).Middleware())
		}
		commandChain = append(commandChain, command.NewHandler(deps.Assistant).ProcessCommand)
		api.POST("/process_command", commandChain...)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("ai_online", deps.AIOnline),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}
