package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database       DatabaseConfig
	Redis          RedisConfig
	CORS           CORSConfig
	Log            LogConfig
	Search         SearchConfig
	Recommendation RecommendationConfig
	Taxonomy       TaxonomyConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SearchConfig tunes catalog search paging and store timeouts.
type SearchConfig struct {
	MinPageSize  int
	MaxPageSize  int
	DefaultSize  int
	StoreTimeout time.Duration
}

// RecommendationConfig tunes the affinity/popularity ranking knobs.
type RecommendationConfig struct {
	TopCategories int
	TopProviders  int
	DefaultLimit  int
	MaxLimit      int
	StoreTimeout  time.Duration
	CacheTTL      time.Duration
	CacheEnabled  bool
}

// TaxonomyConfig controls caching of category/tag/provider reference data.
type TaxonomyConfig struct {
	CacheTTL     time.Duration
	CacheEnabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Search = SearchConfig{
		MinPageSize:  v.GetInt("SEARCH_MIN_PAGE_SIZE"),
		MaxPageSize:  v.GetInt("SEARCH_MAX_PAGE_SIZE"),
		DefaultSize:  v.GetInt("SEARCH_DEFAULT_PAGE_SIZE"),
		StoreTimeout: parseDuration(v.GetString("SEARCH_STORE_TIMEOUT"), 5*time.Second),
	}

	cfg.Recommendation = RecommendationConfig{
		TopCategories: v.GetInt("RECOMMENDATION_TOP_CATEGORIES"),
		TopProviders:  v.GetInt("RECOMMENDATION_TOP_PROVIDERS"),
		DefaultLimit:  v.GetInt("RECOMMENDATION_DEFAULT_LIMIT"),
		MaxLimit:      v.GetInt("RECOMMENDATION_MAX_LIMIT"),
		StoreTimeout:  parseDuration(v.GetString("RECOMMENDATION_STORE_TIMEOUT"), 5*time.Second),
		CacheTTL:      parseDuration(v.GetString("RECOMMENDATION_CACHE_TTL"), 5*time.Minute),
		CacheEnabled:  v.GetBool("RECOMMENDATION_CACHE_ENABLED"),
	}

	cfg.Taxonomy = TaxonomyConfig{
		CacheTTL:     parseDuration(v.GetString("TAXONOMY_CACHE_TTL"), 30*time.Minute),
		CacheEnabled: v.GetBool("TAXONOMY_CACHE_ENABLED"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "mediahost")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SEARCH_MIN_PAGE_SIZE", 5)
	v.SetDefault("SEARCH_MAX_PAGE_SIZE", 50)
	v.SetDefault("SEARCH_DEFAULT_PAGE_SIZE", 10)
	v.SetDefault("SEARCH_STORE_TIMEOUT", "5s")

	v.SetDefault("RECOMMENDATION_TOP_CATEGORIES", 3)
	v.SetDefault("RECOMMENDATION_TOP_PROVIDERS", 2)
	v.SetDefault("RECOMMENDATION_DEFAULT_LIMIT", 5)
	v.SetDefault("RECOMMENDATION_MAX_LIMIT", 50)
	v.SetDefault("RECOMMENDATION_STORE_TIMEOUT", "5s")
	v.SetDefault("RECOMMENDATION_CACHE_TTL", "5m")
	v.SetDefault("RECOMMENDATION_CACHE_ENABLED", false)

	v.SetDefault("TAXONOMY_CACHE_TTL", "30m")
	v.SetDefault("TAXONOMY_CACHE_ENABLED", false)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
