package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (DB connection, secrets)
// - default: Values common across all environments (timezone, timeouts, policy tiers)
// -----------------------------------------------------------------------------

type Config struct {
	Ops     OpsConfig
	DB      DBConfig
	Redis   RedisConfig
	Log     LogConfig
	Booking BookingConfig
	Stripe  StripeConfig
}

type OpsConfig struct {
	Port string `envconfig:"OPS_PORT" default:"9090"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type BookingConfig struct {
	HoldTTL              time.Duration `envconfig:"BOOKING_HOLD_TTL" default:"15m"`
	SweepCron            string        `envconfig:"BOOKING_SWEEP_CRON" default:"@every 1m"`
	SweepRate            float64       `envconfig:"BOOKING_SWEEP_RATE" default:"50"`
	SweepBatchSize       uint64        `envconfig:"BOOKING_SWEEP_BATCH_SIZE" default:"200"`
	MaxConflictRetries   int           `envconfig:"BOOKING_MAX_CONFLICT_RETRIES" default:"3"`
	RefundPolicyTier     string        `envconfig:"BOOKING_REFUND_POLICY_TIER" default:"default"`
	HeatmapCacheTTL      time.Duration `envconfig:"BOOKING_HEATMAP_CACHE_TTL" default:"2m"`
	GuestBookingsEnabled bool          `envconfig:"BOOKING_GUEST_BOOKINGS_ENABLED" default:"false"`
}

type StripeConfig struct {
	SecretKey string `envconfig:"STRIPE_SECRET_KEY"`
}

// Validate rejects booking settings that would stall the sweep or disable holds.
func (c BookingConfig) Validate() error {
	switch {
	case c.HoldTTL <= 0:
		return errors.New("BOOKING_HOLD_TTL must be positive")
	case c.SweepRate <= 0:
		return errors.New("BOOKING_SWEEP_RATE must be positive")
	case c.SweepBatchSize == 0:
		return errors.New("BOOKING_SWEEP_BATCH_SIZE must be positive")
	case c.MaxConflictRetries < 0:
		return errors.New("BOOKING_MAX_CONFLICT_RETRIES must not be negative")
	case c.SweepCron == "":
		return errors.New("BOOKING_SWEEP_CRON is required")
	}
	return nil
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

// LoadConfig reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig() (Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Booking.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid booking config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Ops: OpsConfig{
			Port: "9099", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 10,
		},
		Redis: RedisConfig{
			Addr: "localhost:16379",
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		Booking: BookingConfig{
			HoldTTL:            15 * time.Minute,
			SweepCron:          "@every 1m",
			SweepRate:          1000,
			SweepBatchSize:     100,
			MaxConflictRetries: 3,
			RefundPolicyTier:   "default",
			HeatmapCacheTTL:    time.Minute,
		},
	}
}
