package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cooking-assistant/internal/api"
	"cooking-assistant/internal/core/ai/cache"
	"cooking-assistant/internal/core/ai/service"
	"cooking-assistant/internal/core/assistant"
	"cooking-assistant/internal/core/nlu"
	"cooking-assistant/internal/core/recipe"
	"cooking-assistant/internal/infrastructure/config"
	"cooking-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.Log.Level, common.LogFileConfig{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("storage", cfg.Storage.Driver),
		zap.String("tagger", cfg.NLU.Tagger),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("openai_key", common.MaskSecret(cfg.OpenAI.APIKey)),
		zap.String("openrouter_key", common.MaskSecret(cfg.OpenRouter.APIKey)),
	)

	ctx := context.Background()

	// 食譜儲存
	store, err := newStore(ctx, cfg)
	if err != nil {
		common.LogFatal("Failed to initialize recipe store", zap.Error(err))
	}
	defer store.Close()

	if cfg.Storage.Seed {
		if err := seedStore(ctx, cfg, store); err != nil {
			common.LogFatal("Failed to seed recipes", zap.Error(err))
		}
	}

	// 意圖判斷
	tagger, err := newTagger(cfg)
	if err != nil {
		common.LogFatal("Failed to initialize tagger", zap.Error(err))
	}

	// 生成式備援與快取
	answerCache, err := newCache(ctx, cfg)
	if err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}
	if answerCache != nil {
		defer answerCache.Close()
	}

	fallback := service.NewFromConfig(cfg, answerCache)
	helper := assistant.New(store, assistant.NewClassifier(tagger), fallback)

	router := api.SetupRouter(cfg, api.Dependencies{
		Store:     store,
		Assistant: helper,
		AIOnline:  !fallback.Offline(),
	})

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("啟動應用",
			zap.Int("port", cfg.Server.Port),
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}

// newStore 依設定建立食譜儲存
func newStore(ctx context.Context, cfg *config.Config) (recipe.Store, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		return recipe.NewSQLStore(ctx, cfg.Storage.DSN)
	default:
		return recipe.NewMemoryStore(), nil
	}
}

// seedStore 匯入內建或指定檔案的食譜
func seedStore(ctx context.Context, cfg *config.Config, store recipe.Store) error {
	var (
		recipes []common.Recipe
		err     error
	)
	if cfg.Storage.SeedFile != "" {
		recipes, err = recipe.LoadSeedFile(cfg.Storage.SeedFile)
	} else {
		recipes, err = recipe.LoadSeedData()
	}
	if err != nil {
		return err
	}

	report, err := recipe.Seed(ctx, store, recipes)
	if err != nil {
		return err
	}
	common.LogInfo("食譜匯入完成",
		zap.Int("inserted", report.Inserted),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)
	return nil
}

// newTagger 依設定選擇標註器
func newTagger(cfg *config.Config) (nlu.Tagger, error) {
	g := nlu.DefaultGazetteer()
	if cfg.NLU.Tagger == config.TaggerLexicon {
		return nlu.NewLexiconTagger(g), nil
	}
	return nlu.NewProseTagger(g)
}

// newCache 依設定建立備援回答快取，停用時回傳 nil
func newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if !cfg.Cache.Enabled {
		common.LogInfo("Cache disabled")
		return nil, nil
	}
	if cfg.Cache.Backend == config.CacheRedis {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return cache.NewRedis(pingCtx, cfg.Cache)
	}
	return cache.NewManager(cfg.Cache), nil
}
