package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DefaultSessionSecret is only acceptable outside production
const DefaultSessionSecret = "res_ms_development_session_secret"

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration
type Config struct {
	GoEnv    string
	Port     string
	LogLevel string

	DBDriver       string
	DatabaseURL    string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBMaxOpenConns int

	SessionSecret string
	SessionTTL    time.Duration
	AllowedOrigin string

	PublicDir     string
	ViewsDir      string
	PublicBaseURL string

	ImageStorage       string
	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	RedisAddr     string
	RedisPassword string
	MenuCacheTTL  time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	AdminName     string
	AdminEmail    string
	AdminPassword string
}

var current *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Info().Msg("No .env file found, using system environment variables")
		}
	} else {
		log.Info().Str("file", envFile).Msg("Loaded configuration")
	}

	cfg := &Config{
		GoEnv:    getEnv("GO_ENV", "development"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DBHost:         getEnv("DB_HOST", ""),
		DBPort:         getEnv("DB_PORT", ""),
		DBUser:         getEnv("DB_USER", ""),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "res_ms"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),

		SessionSecret: getEnv("SESSION_SECRET", DefaultSessionSecret),
		SessionTTL:    getEnvDuration("SESSION_TTL", 24*time.Hour),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", ""),

		PublicDir:     getEnv("PUBLIC_DIR", "public"),
		ViewsDir:      getEnv("VIEWS_DIR", "views"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),

		ImageStorage:       strings.ToLower(getEnv("IMAGE_STORAGE", "local")),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:        getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		MenuCacheTTL:  getEnvDuration("MENU_CACHE_TTL", 5*time.Minute),

		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "order-events"),

		AdminName:     getEnv("ADMIN_NAME", "Administrator"),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	SetConfig(cfg)
	return cfg, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverMySQL:
		if c.DatabaseURL == "" && (c.DBHost == "" || c.DBUser == "") {
			return fmt.Errorf("DATABASE_URL or DB_HOST and DB_USER are required for driver %q", c.DBDriver)
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.ImageStorage {
	case "local":
	case "s3":
		if c.AWSS3Bucket == "" {
			return fmt.Errorf("AWS_S3_BUCKET is required when IMAGE_STORAGE=s3")
		}
	default:
		return fmt.Errorf("unsupported IMAGE_STORAGE %q", c.ImageStorage)
	}

	if c.IsProduction() && c.SessionSecret == DefaultSessionSecret {
		return fmt.Errorf("SESSION_SECRET must be set to a strong value in production")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// GetDatabaseURL returns the DSN for the configured driver, composing one
// from the DB_* parts when DATABASE_URL is not set
func (c *Config) GetDatabaseURL() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	switch c.DBDriver {
	case DriverMySQL:
		port := c.DBPort
		if port == "" {
			port = "3306"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.DBUser, c.DBPassword, c.DBHost, port, c.DBName)
	case DriverSQLite:
		return c.DBName + ".db"
	default:
		port := c.DBPort
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			c.DBHost, port, c.DBUser, c.DBPassword, c.DBName)
	}
}

// GetConfig returns the configuration loaded by Load
func GetConfig() *Config {
	return current
}

// SetConfig replaces the active configuration (primarily for testing)
func SetConfig(cfg *Config) {
	current = cfg
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
