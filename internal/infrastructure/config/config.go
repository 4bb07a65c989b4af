package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 儲存後端
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// AI 提供者
const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderNone       = "none"
)

// 快取後端
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// 標註器
const (
	TaggerProse   = "prose"
	TaggerLexicon = "lexicon"
)

// Config 應用配置
type Config struct {
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	Storage     StorageConfig    `mapstructure:"storage"`
	NLU         NLUConfig        `mapstructure:"nlu"`
	AI          AIConfig         `mapstructure:"ai"`
	OpenAI      OpenAIConfig     `mapstructure:"openai"`
	OpenRouter  OpenRouterConfig `mapstructure:"openrouter"`
	Cache       CacheConfig      `mapstructure:"cache"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	Log         LogConfig        `mapstructure:"log"`
	DedupWindow time.Duration    `mapstructure:"dedup_window"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// StorageConfig 食譜儲存設定
type StorageConfig struct {
	Driver   string `mapstructure:"driver"`
	DSN      string `mapstructure:"dsn"`
	SeedFile string `mapstructure:"seed_file"`
	Seed     bool   `mapstructure:"seed"`
}

// NLUConfig 語意解析設定
type NLUConfig struct {
	Tagger string `mapstructure:"tagger"`
}

// AIConfig 生成式備援設定
type AIConfig struct {
	Provider    string        `mapstructure:"provider"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Temperature float32       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
}

// OpenAIConfig OpenAI 配置
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// OpenRouterConfig OpenRouter 配置
type OpenRouterConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Backend         string        `mapstructure:"backend"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Redis           RedisConfig   `mapstructure:"redis"`
}

// RedisConfig Redis 連線設定
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

// LogConfig 日誌設定
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// envBindings 設定鍵與環境變數的對應
var envBindings = map[string]string{
	"server.port":          "PORT",
	"storage.driver":       "STORAGE_DRIVER",
	"storage.dsn":          "DATABASE_URL",
	"storage.seed_file":    "SEED_FILE",
	"nlu.tagger":           "NLU_TAGGER",
	"ai.provider":          "AI_PROVIDER",
	"ai.timeout":           "AI_TIMEOUT",
	"ai.max_tokens":        "MODEL_MAX_TOKENS",
	"openai.api_key":       "OPENAI_API_KEY",
	"openai.model":         "OPENAI_MODEL",
	"openai.base_url":      "OPENAI_BASE_URL",
	"openrouter.api_key":   "OPENROUTER_API_KEY",
	"openrouter.model":     "OPENROUTER_MODEL",
	"cache.enabled":        "CACHE_ENABLED",
	"cache.backend":        "CACHE_BACKEND",
	"cache.redis.addr":     "REDIS_ADDR",
	"cache.redis.password": "REDIS_PASSWORD",
	"rate_limit.enabled":   "RATE_LIMIT_ENABLED",
	"dedup_window":         "DEDUP_WINDOW",
	"log.level":            "LOG_LEVEL",
	"log.file":             "LOG_FILE",
}

// LoadConfig 載入設定，.env 檔案不存在時忽略
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return Load(viper.New())
}

// Load 使用指定的 viper 實例解析設定
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	normalize(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "cooking-assistant")

	// 伺服器設定
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "30s")
	v.SetDefault("server.max_body_bytes", 1<<20)

	// 儲存設定
	v.SetDefault("storage.driver", StorageMemory)
	v.SetDefault("storage.seed", true)

	// 語意解析設定
	v.SetDefault("nlu.tagger", TaggerProse)

	// 生成式備援設定
	v.SetDefault("ai.provider", ProviderOpenAI)
	v.SetDefault("ai.timeout", "15s")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.max_tokens", 150)
	v.SetDefault("openai.model", "gpt-3.5-turbo")
	v.SetDefault("openrouter.model", "openai/gpt-3.5-turbo")
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", CacheMemory)
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.cleanup_interval", "10m")
	v.SetDefault("cache.redis.addr", "localhost:6379")

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rps", 5)
	v.SetDefault("rate_limit.burst", 10)

	// 日誌設定
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 14)

	v.SetDefault("dedup_window", "1s")
}

// normalize 統一大小寫與空白
func normalize(config *Config) {
	config.Storage.Driver = strings.ToLower(strings.TrimSpace(config.Storage.Driver))
	config.AI.Provider = strings.ToLower(strings.TrimSpace(config.AI.Provider))
	config.Cache.Backend = strings.ToLower(strings.TrimSpace(config.Cache.Backend))
	config.NLU.Tagger = strings.ToLower(strings.TrimSpace(config.NLU.Tagger))
	config.OpenAI.APIKey = strings.TrimSpace(config.OpenAI.APIKey)
	config.OpenRouter.APIKey = strings.TrimSpace(config.OpenRouter.APIKey)
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}

	switch config.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if config.Storage.DSN == "" {
			return fmt.Errorf("storage dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	switch config.NLU.Tagger {
	case TaggerProse, TaggerLexicon:
	default:
		return fmt.Errorf("unknown nlu tagger %q", config.NLU.Tagger)
	}

	switch config.AI.Provider {
	case ProviderOpenAI, ProviderOpenRouter, ProviderNone:
	default:
		return fmt.Errorf("unknown ai provider %q", config.AI.Provider)
	}
	if config.AI.Timeout <= 0 {
		return fmt.Errorf("invalid ai timeout")
	}
	if config.AI.MaxTokens <= 0 {
		return fmt.Errorf("invalid ai max tokens")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		switch config.Cache.Backend {
		case CacheMemory:
			if config.Cache.MaxSize <= 0 {
				return fmt.Errorf("invalid cache max size")
			}
			if config.Cache.CleanupInterval <= 0 {
				return fmt.Errorf("invalid cache cleanup interval")
			}
		case CacheRedis:
			if config.Cache.Redis.Addr == "" {
				return fmt.Errorf("redis addr is required")
			}
		default:
			return fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
	}

	if config.RateLimit.Enabled && (config.RateLimit.RPS <= 0 || config.RateLimit.Burst <= 0) {
		return fmt.Errorf("invalid rate limit")
	}

	return nil
}

// HasAICredentials 是否具備目前 AI 提供者的金鑰
func (c *Config) HasAICredentials() bool {
	switch c.AI.Provider {
	case ProviderOpenAI:
		return c.OpenAI.APIKey != ""
	case ProviderOpenRouter:
		return c.OpenRouter.APIKey != ""
	default:
		return false
	}
}
