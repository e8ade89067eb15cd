package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string

	// Payment gateway
	GatewayBaseURL string
	GatewayTimeout time.Duration

	// Bulk pipeline tuning
	BulkBatchSize       int
	GatewayCallInterval time.Duration
	TaskStaleThreshold  time.Duration

	// Inbound HTTP rate limit, in ulule/limiter format (e.g. "100-M")
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("GATEWAY_BASE_URL", "http://localhost:9090")
	viper.SetDefault("GATEWAY_TIMEOUT", "30s")
	viper.SetDefault("BULK_BATCH_SIZE", 10)
	viper.SetDefault("GATEWAY_CALL_INTERVAL", "3s")
	viper.SetDefault("TASK_STALE_THRESHOLD", "10m")
	viper.SetDefault("RATE_LIMIT", "100-M")

	// Environment variables override defaults and .env values.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	gatewayBaseURL := viper.GetString("GATEWAY_BASE_URL")
	if gatewayBaseURL == "" {
		log.Println("Warning: GATEWAY_BASE_URL not set. Payment gateway calls will fail.")
	}

	gatewayTimeout, err := time.ParseDuration(viper.GetString("GATEWAY_TIMEOUT"))
	if err != nil || gatewayTimeout <= 0 {
		gatewayTimeout = 30 * time.Second
		log.Printf("Warning: Invalid GATEWAY_TIMEOUT. Defaulting to %s.\n", gatewayTimeout)
	}

	batchSize := viper.GetInt("BULK_BATCH_SIZE")
	if batchSize <= 0 {
		batchSize = 10
		log.Printf("Warning: Invalid BULK_BATCH_SIZE. Defaulting to %d.\n", batchSize)
	}

	callInterval, err := time.ParseDuration(viper.GetString("GATEWAY_CALL_INTERVAL"))
	if err != nil || callInterval <= 0 {
		callInterval = 3 * time.Second
		log.Printf("Warning: Invalid GATEWAY_CALL_INTERVAL. Defaulting to %s.\n", callInterval)
	}

	staleThreshold, err := time.ParseDuration(viper.GetString("TASK_STALE_THRESHOLD"))
	if err != nil || staleThreshold <= 0 {
		staleThreshold = 10 * time.Minute
		log.Printf("Warning: Invalid TASK_STALE_THRESHOLD. Defaulting to %s.\n", staleThreshold)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.JWTSecret = jwtSecret
	cfg.GatewayBaseURL = gatewayBaseURL
	cfg.GatewayTimeout = gatewayTimeout
	cfg.BulkBatchSize = batchSize
	cfg.GatewayCallInterval = callInterval
	cfg.TaskStaleThreshold = staleThreshold
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
