package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Geocoder GeocoderConfig
	Cache    CacheConfig
	Feed     FeedConfig
}

type ServerConfig struct {
	Port           string
	Environment    string
	RequestTimeout time.Duration
	AllowedOrigins []string
	MetricsEnabled bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// AuthConfig 驗證外部身分服務簽發的 access token
type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

type StorageConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type GeocoderConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// CacheConfig 查詢快取：StaleTTL 過後視為過期，RefreshInterval 為背景重新整理週期
type CacheConfig struct {
	StaleTTL        time.Duration
	RefreshInterval time.Duration
	RetryBackoff    time.Duration
}

// FeedConfig 變更通知的傳輸方式：memory 或 redis
type FeedConfig struct {
	Driver     string
	ConsumerID string
}

var AppConfig *Config

func LoadConfig() *Config {
	env := getEnv("GO_ENV", "development")
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	AppConfig = &Config{
		Server:   GetServerConfig(),
		Database: GetDatabaseConfig(),
		Redis:    GetRedisConfig(),
		Auth:     GetAuthConfig(),
		Storage:  GetStorageConfig(),
		Geocoder: GetGeocoderConfig(),
		Cache:    GetCacheConfig(),
		Feed:     GetFeedConfig(),
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // 測試 DB 用 5433 port
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	testRedisConfig := RedisConfig{
		Host:     "localhost",
		Port:     "6380", // 測試 Redis 用 6380 port
		Password: "",
		DB:       1,
	}

	return &Config{
		Server: ServerConfig{
			Port:           "8081",
			Environment:    "test",
			RequestTimeout: 5 * time.Second,
		},
		Database: *testConfig,
		Redis:    testRedisConfig,
		Auth: AuthConfig{
			JWTSecret: "test-secret",
		},
		Cache: CacheConfig{
			StaleTTL:        time.Minute,
			RefreshInterval: time.Minute,
			RetryBackoff:    10 * time.Millisecond,
		},
		Feed: FeedConfig{
			Driver: "memory",
		},
	}
}

func GetServerConfig() ServerConfig {
	return ServerConfig{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("GO_ENV", "development"),
		RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", "15s"),
		AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		MetricsEnabled: getEnvAsBool("ENABLE_METRICS", true),
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() RedisConfig {
	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvAsInt("REDIS_DB", 0),
	}
}

func GetAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret: getEnv("JWT_SECRET", ""),
		Issuer:    getEnv("JWT_ISSUER", ""),
	}
}

func GetStorageConfig() StorageConfig {
	return StorageConfig{
		CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
	}
}

func GetGeocoderConfig() GeocoderConfig {
	return GeocoderConfig{
		BaseURL:   getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		UserAgent: getEnv("GEOCODER_USER_AGENT", "EventEase App"),
		Timeout:   getEnvAsDuration("GEOCODER_TIMEOUT", "10s"),
	}
}

func GetCacheConfig() CacheConfig {
	return CacheConfig{
		StaleTTL:        getEnvAsDuration("CACHE_STALE_TTL", "5m"),
		RefreshInterval: getEnvAsDuration("CACHE_REFRESH_INTERVAL", "10m"),
		RetryBackoff:    getEnvAsDuration("FETCH_RETRY_BACKOFF", "1s"),
	}
}

func GetFeedConfig() FeedConfig {
	return FeedConfig{
		Driver:     getEnv("FEED_DRIVER", "redis"),
		ConsumerID: getEnv("FEED_CONSUMER_ID", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Warning: invalid int for %s: %q, using %d", key, value, fallback)
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvAsDuration(key, fallback string) time.Duration {
	value := getEnv(key, fallback)
	d, err := time.ParseDuration(value)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func getEnvAsSlice(key, fallback string) []string {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
