package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port            string
	Environment     string
	LogLevel        string
	FrontendOrigins []string

	SupabaseURL     string
	SupabaseAnonKey string
	MongoDBURI      string
	MongoDBPassword string
	MongoDBName     string
	RedisURL        string
	CatalogCacheTTL time.Duration

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	Hosthub  HosthubConfig
	Payments PaymentConfig
	SMTP     SMTPConfig
	AI       AIConfig

	// AdminEmails are granted the admin role even without the app_metadata claim.
	AdminEmails []string

	ReconcileInterval    time.Duration
	ReconcileMaxAttempts int
}

type HosthubConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// SimulatedOccupancy is the probability a day is reported occupied in simulation mode.
	SimulatedOccupancy float64
	SimulationSeed     int64
}

type PaymentConfig struct {
	StripePublicKey string
	SimulatedDelay  time.Duration
	DeclineSuffix   string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type AIConfig struct {
	APIKey     string
	ChatModel  string
	AdminModel string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:            getEnvWithDefault("PORT", "8080"),
		Environment:     getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:        getEnvWithDefault("LOG_LEVEL", "info"),
		FrontendOrigins: splitList(getEnvWithDefault("FRONTEND_ORIGINS", "http://localhost:3000")),
		SupabaseURL:     os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey: os.Getenv("SUPABASE_URL_ANON_KEY"),
		MongoDBURI:      os.Getenv("MONGODB_URI"),
		MongoDBPassword: os.Getenv("MONGODB_PASSWORD"),
		MongoDBName:     getEnvWithDefault("MONGODB_NAME", "tower15"),
		RedisURL:        os.Getenv("REDIS_URL"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		Hosthub: HosthubConfig{
			BaseURL: getEnvWithDefault("HOSTHUB_BASE_URL", "https://api.hosthub.com/v1"),
			APIKey:  os.Getenv("HOSTHUB_API_KEY"),
		},
		Payments: PaymentConfig{
			StripePublicKey: os.Getenv("STRIPE_PUBLIC_KEY"),
			DeclineSuffix:   getEnvWithDefault("PAYMENT_DECLINE_SUFFIX", "0002"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     getEnvWithDefault("SMTP_FROM", "reservations@tower15.gr"),
		},
		AI: AIConfig{
			APIKey:     os.Getenv("GEMINI_API_KEY"),
			ChatModel:  getEnvWithDefault("GEMINI_CHAT_MODEL", "gemini-3-flash-preview"),
			AdminModel: getEnvWithDefault("GEMINI_ADMIN_MODEL", "gemini-3-pro-preview"),
		},
		AdminEmails: splitList(os.Getenv("ADMIN_EMAILS")),
	}

	var err error
	if cfg.CatalogCacheTTL, err = getDuration("CATALOG_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Hosthub.Timeout, err = getDuration("HOSTHUB_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.Payments.SimulatedDelay, err = getDuration("PAYMENT_SIMULATED_DELAY", 0); err != nil {
		return nil, err
	}
	if cfg.ReconcileInterval, err = getDuration("RECONCILE_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SMTP.Port, err = getInt("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	if cfg.ReconcileMaxAttempts, err = getInt("RECONCILE_MAX_ATTEMPTS", 10); err != nil {
		return nil, err
	}
	seed, err := getInt("HOSTHUB_SIMULATION_SEED", 0)
	if err != nil {
		return nil, err
	}
	cfg.Hosthub.SimulationSeed = int64(seed)
	if cfg.Hosthub.SimulatedOccupancy, err = getFloat("HOSTHUB_SIMULATED_OCCUPANCY", 0.1); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields every entrypoint needs.
func (c *Config) Validate() error {
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseAnonKey == "" {
		return fmt.Errorf("SUPABASE_URL_ANON_KEY is required")
	}
	if c.MongoDBURI == "" {
		return fmt.Errorf("MONGODB_URI is required")
	}
	if c.Hosthub.SimulatedOccupancy < 0 || c.Hosthub.SimulatedOccupancy > 1 {
		return fmt.Errorf("HOSTHUB_SIMULATED_OCCUPANCY must be between 0 and 1")
	}
	if c.ReconcileMaxAttempts <= 0 {
		return fmt.Errorf("RECONCILE_MAX_ATTEMPTS must be > 0")
	}
	return nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %v", key, v, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %v", key, v, err)
	}
	return n, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q: %v", key, v, err)
	}
	return f, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsAdminEmail(email string) bool {
	for _, e := range c.AdminEmails {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}
