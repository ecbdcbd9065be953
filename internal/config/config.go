package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Auth      AuthConfig
	Media     MediaConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	StaticDir      string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	Schema       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

type AuthConfig struct {
	Provider  string // "firebase" or "hmac"
	ProjectID string
	JWKSURL   string
	Secret    string
	Timeout   time.Duration
}

type MediaConfig struct {
	CloudName         string
	APIKey            string
	APISecret         string
	Folder            string
	Timeout           time.Duration
	DeleteConcurrency int
	MaxUploadBytes    int64
}

// IsProduction reports whether the server runs with production settings.
func (c ServerConfig) IsProduction() bool {
	return c.Env == "production"
}

// DSN builds the pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s&search_path=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode, c.Schema)
}

// Addr returns host:port for the redis client.
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("STATIC_DIR", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 25)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_REQUESTS", 30)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("AUTH_PROVIDER", "firebase")
	v.SetDefault("AUTH_TIMEOUT_SECONDS", 10)
	v.SetDefault("FIREBASE_JWKS_URL", "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com")
	v.SetDefault("MEDIA_FOLDER", "buymesho")
	v.SetDefault("MEDIA_TIMEOUT_SECONDS", 30)
	v.SetDefault("MEDIA_DELETE_CONCURRENCY", 4)
	v.SetDefault("MEDIA_MAX_UPLOAD_BYTES", 10<<20)
}

func Load() *Config {
	// Values already present in the environment win over .env.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not read .env file: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Env:            v.GetString("SERVER_ENV"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			StaticDir:      v.GetString("STATIC_DIR"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Database:     v.GetString("DB_DATABASE"),
			Schema:       v.GetString("DB_SCHEMA"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Enabled:  v.GetBool("RATE_LIMIT_ENABLED"),
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   time.Duration(v.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
		},
		Auth: AuthConfig{
			Provider:  strings.ToLower(v.GetString("AUTH_PROVIDER")),
			ProjectID: v.GetString("FIREBASE_PROJECT_ID"),
			JWKSURL:   v.GetString("FIREBASE_JWKS_URL"),
			Secret:    v.GetString("AUTH_HMAC_SECRET"),
			Timeout:   time.Duration(v.GetInt("AUTH_TIMEOUT_SECONDS")) * time.Second,
		},
		Media: MediaConfig{
			CloudName:         v.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:            v.GetString("CLOUDINARY_API_KEY"),
			APISecret:         v.GetString("CLOUDINARY_API_SECRET"),
			Folder:            v.GetString("MEDIA_FOLDER"),
			Timeout:           time.Duration(v.GetInt("MEDIA_TIMEOUT_SECONDS")) * time.Second,
			DeleteConcurrency: v.GetInt("MEDIA_DELETE_CONCURRENCY"),
			MaxUploadBytes:    v.GetInt64("MEDIA_MAX_UPLOAD_BYTES"),
		},
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
