package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	StoreDriver       string `mapstructure:"STORE_DRIVER"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSOrigins       string `mapstructure:"CORS_ORIGINS"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`
	RedisLockDB   int    `mapstructure:"REDIS_LOCK_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Payment verifier.
	VerifierMode         string        `mapstructure:"VERIFIER_MODE"`
	VerifierURL          string        `mapstructure:"VERIFIER_URL"`
	VerifierAPIKey       string        `mapstructure:"VERIFIER_API_KEY"`
	VerifierTimeout      time.Duration `mapstructure:"VERIFIER_TIMEOUT"`
	VerifierRetries      int           `mapstructure:"VERIFIER_RETRIES"`
	SimulatedSettleAfter time.Duration `mapstructure:"SIMULATED_SETTLE_AFTER"`

	// Settlement. PendingExpiry of zero keeps inconclusive transactions PENDING
	// indefinitely; when set, an unpaid transaction past the window is marked
	// FAILED. ExpirySweepSpec is a cron spec or "@every <duration>"; empty
	// disables the sweep.
	SettlementEffect  string        `mapstructure:"SETTLEMENT_EFFECT"`
	PendingExpiry     time.Duration `mapstructure:"PENDING_EXPIRY"`
	SettlementLockTTL time.Duration `mapstructure:"SETTLEMENT_LOCK_TTL"`
	ExpirySweepSpec   string        `mapstructure:"EXPIRY_SWEEP_SPEC"`
	ExpirySweepBatch  int           `mapstructure:"EXPIRY_SWEEP_BATCH"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := AppConfig.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "investplan")
	v.SetDefault("STORE_DRIVER", "mongo")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_AUTH_DB", 1)
	v.SetDefault("REDIS_LOCK_DB", 3)
	v.SetDefault("REDIS_QUEUE_DB", 4)
	v.SetDefault("VERIFIER_MODE", "simulated")
	v.SetDefault("VERIFIER_URL", "")
	v.SetDefault("VERIFIER_API_KEY", "")
	v.SetDefault("VERIFIER_TIMEOUT", "5s")
	v.SetDefault("VERIFIER_RETRIES", 2)
	v.SetDefault("SIMULATED_SETTLE_AFTER", "10s")
	v.SetDefault("SETTLEMENT_EFFECT", "credit")
	v.SetDefault("PENDING_EXPIRY", "0s")
	v.SetDefault("SETTLEMENT_LOCK_TTL", "10s")
	v.SetDefault("EXPIRY_SWEEP_SPEC", "@every 1m")
	v.SetDefault("EXPIRY_SWEEP_BATCH", 100)
}

// Validate rejects configurations the process cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET must be set")
	}
	switch c.StoreDriver {
	case "mongo", "memory":
	default:
		return errors.New("STORE_DRIVER must be mongo or memory")
	}
	switch c.VerifierMode {
	case "simulated":
	case "http":
		if c.VerifierURL == "" {
			return errors.New("VERIFIER_URL is required when VERIFIER_MODE=http")
		}
	default:
		return errors.New("VERIFIER_MODE must be http or simulated")
	}
	switch c.SettlementEffect {
	case "credit", "activate", "both":
	default:
		return errors.New("SETTLEMENT_EFFECT must be credit, activate or both")
	}
	if c.PendingExpiry < 0 {
		return errors.New("PENDING_EXPIRY must not be negative")
	}
	if c.ExpirySweepSpec != "" {
		if _, err := cron.ParseStandard(c.ExpirySweepSpec); err != nil {
			return fmt.Errorf("invalid EXPIRY_SWEEP_SPEC %q: %w", c.ExpirySweepSpec, err)
		}
	}
	return nil
}

// AllowedOrigins splits CORS_ORIGINS into a list.
func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
