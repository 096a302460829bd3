package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends selectable through STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds application configuration.
type Config struct {
	Port           string
	IsProduction   bool
	StoreBackend   string
	StorageTimeout time.Duration

	// Postgres
	DatabaseURL    string
	EnableDBCheck  bool // apply pending migrations at startup
	MigrationsPath string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Auth
	JWTSecret string
	JWTIssuer string

	// HTTP
	RateLimit          string // ulule limiter format, e.g. "120-M"
	CORSAllowedOrigins []string

	// Ledger
	CommunityDailyBonus int64
	GlobalDailyBonus    int64
	DailyCooldown       time.Duration
	LeaderboardMaxLimit int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("STORE_BACKEND", BackendMemory)
	v.SetDefault("STORAGE_TIMEOUT", "3s")
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("JWT_ISSUER", "guild-economy")
	v.SetDefault("RATE_LIMIT", "120-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("COMMUNITY_DAILY_BONUS", 1000)
	v.SetDefault("GLOBAL_DAILY_BONUS", 500)
	v.SetDefault("DAILY_COOLDOWN", "24h")
	v.SetDefault("LEADERBOARD_MAX_LIMIT", 100)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:                v.GetString("PORT"),
		IsProduction:        v.GetBool("IS_PRODUCTION"),
		StoreBackend:        strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND"))),
		DatabaseURL:         v.GetString("PGSQL_URL"),
		EnableDBCheck:       v.GetBool("ENABLE_DB_CHECK"),
		MigrationsPath:      v.GetString("MIGRATIONS_PATH"),
		RedisAddr:           v.GetString("REDIS_ADDR"),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		RedisDB:             v.GetInt("REDIS_DB"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		JWTIssuer:           v.GetString("JWT_ISSUER"),
		RateLimit:           v.GetString("RATE_LIMIT"),
		CommunityDailyBonus: v.GetInt64("COMMUNITY_DAILY_BONUS"),
		GlobalDailyBonus:    v.GetInt64("GLOBAL_DAILY_BONUS"),
		LeaderboardMaxLimit: v.GetInt("LEADERBOARD_MAX_LIMIT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StoreBackend {
	case BackendMemory:
		log.Println("Warning: STORE_BACKEND=memory, balances are lost on restart.")
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORE_BACKEND=%s", BackendPostgres)
		}
	case BackendRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when STORE_BACKEND=%s", BackendRedis)
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	var err error
	if cfg.StorageTimeout, err = parsePositiveDuration(v, "STORAGE_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.DailyCooldown, err = parsePositiveDuration(v, "DAILY_COOLDOWN"); err != nil {
		return nil, err
	}

	if cfg.CommunityDailyBonus <= 0 || cfg.GlobalDailyBonus <= 0 {
		return nil, fmt.Errorf("daily bonuses must be positive (community=%d, global=%d)", cfg.CommunityDailyBonus, cfg.GlobalDailyBonus)
	}
	if cfg.LeaderboardMaxLimit <= 0 {
		return nil, fmt.Errorf("LEADERBOARD_MAX_LIMIT must be positive, got %d", cfg.LeaderboardMaxLimit)
	}

	if v.GetString("JWT_SECRET") == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}

func parsePositiveDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s (%q): %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, raw)
	}
	return d, nil
}
