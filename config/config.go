package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Scheduler SchedulerConfig
	Invoice   InvoiceConfig
	S3        S3Config
	CORS      CORSConfig
}

type ServerConfig struct {
	Port        string
	Environment string // development, production
	LogLevel    string // debug, info, warn, error
}

// DatabaseConfig selects the gorm dialector. URL wins over the discrete fields when set.
type DatabaseConfig struct {
	Driver             string // mysql or postgres
	URL                string
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
	AutoMigrate        bool
	Seed               bool
}

// RedisConfig is optional. An empty Addr keeps the change feed and token revocations in memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

type AuthConfig struct {
	JWTSecret       string
	TokenTTL        time.Duration
	BcryptCost      int
	LoginRatePerMin int
	LoginBurst      int
	OwnerUsername   string
	OwnerPassword   string
}

type SchedulerConfig struct {
	Enabled     bool
	Spec        string // robfig/cron spec for the overdue sweep
	AlertWindow time.Duration
}

type InvoiceConfig struct {
	DefaultHSNSAC string
}

// S3Config enables the rendered-invoice archive when Bucket is set.
type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Driver:             strings.ToLower(getEnv("DB_DRIVER", "mysql")),
			URL:                firstEnv("MYSQL_URL", "DATABASE_URL"),
			Host:               getEnv("DB_HOST", "127.0.0.1"),
			Port:               getEnv("DB_PORT", ""),
			User:               getEnv("DB_USER", "root"),
			Password:           getEnv("DB_PASS", ""),
			Name:               getEnv("DB_NAME", "hotel_frontdesk"),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    getEnvAsDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
			AutoMigrate:        getEnvAsBool("DB_AUTO_MIGRATE", true),
			Seed:               getEnvAsBool("DB_SEED", true),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Channel:  getEnv("REDIS_CHANNEL", "frontdesk:changes"),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("JWT_SECRET", ""),
			TokenTTL:        getEnvAsDuration("JWT_TOKEN_TTL", 12*time.Hour),
			BcryptCost:      getEnvAsInt("BCRYPT_COST", 10),
			LoginRatePerMin: getEnvAsInt("LOGIN_RATE_PER_MIN", 10),
			LoginBurst:      getEnvAsInt("LOGIN_BURST", 5),
			OwnerUsername:   getEnv("OWNER_USERNAME", "admin@hotel.local"),
			OwnerPassword:   getEnv("OWNER_PASSWORD", ""),
		},
		Scheduler: SchedulerConfig{
			Enabled:     getEnvAsBool("AUTO_CHECKOUT_ENABLED", true),
			Spec:        getEnv("AUTO_CHECKOUT_SPEC", "@every 60s"),
			AlertWindow: getEnvAsDuration("CHECKOUT_ALERT_WINDOW", 5*time.Minute),
		},
		Invoice: InvoiceConfig{
			DefaultHSNSAC: getEnv("DEFAULT_HSN_SAC", "996311"),
		},
		S3: S3Config{
			Bucket:          getEnv("S3_BUCKET", ""),
			Region:          getEnv("AWS_REGION", "ap-south-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Prefix:          getEnv("S3_INVOICE_PREFIX", "invoices"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("invalid DB_DRIVER: %s (must be 'mysql' or 'postgres')", c.Database.Driver)
	}
	if c.Auth.JWTSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET is required")
		}
		log.Println("⚠️  JWT_SECRET not set; using an insecure development secret")
		c.Auth.JWTSecret = "dev-only-secret"
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TOKEN_TTL must be positive")
	}
	if c.Scheduler.AlertWindow <= 0 {
		return fmt.Errorf("CHECKOUT_ALERT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

func getEnv(key string, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := getEnv(k, ""); v != "" {
			return v
		}
	}
	return ""
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("Invalid duration for %s, using default: %s", key, defaultValue)
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
