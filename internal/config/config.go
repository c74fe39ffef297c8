package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// MinSecretBytes is the shortest accepted HMAC key
const MinSecretBytes = 32

// Validator strategies
const (
	StrategyLocal     = "local"
	StrategyDelegated = "delegated"
)

// DriverMemory keeps every record in process memory. Dev mode only.
const DriverMemory = "memory"

// Config holds all configuration for a service. It is built once in main and
// passed down explicitly.
type Config struct {
	AppMode   string
	Port      string
	Database  DatabaseConfig
	JWT       JWTConfig
	Cookie    CookieConfig
	Validator ValidatorConfig
	Seed      SeedConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// InMemory reports whether repositories are served from process memory
func (d DatabaseConfig) InMemory() bool {
	return d.Driver == DriverMemory
}

// JWTConfig holds token signing configuration
type JWTConfig struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// String keeps the secret out of logs
func (j JWTConfig) String() string {
	return fmt.Sprintf("{Secret:[REDACTED] Issuer:%s AccessTTL:%s RefreshTTL:%s}", j.Issuer, j.AccessTTL, j.RefreshTTL)
}

// GoString keeps the secret out of %#v output
func (j JWTConfig) GoString() string {
	return j.String()
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// ValidatorConfig selects how a consuming service resolves tokens
type ValidatorConfig struct {
	Strategy      string
	IssuerURL     string
	HealthURL     string
	Timeout       time.Duration
	ProbeSchedule string
}

// SeedConfig describes the optional bootstrap administrator
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		logrus.Debug(".env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	jwtCfg, err := loadJWTConfig()
	if err != nil {
		return nil, err
	}

	validatorCfg, err := loadValidatorConfig()
	if err != nil {
		return nil, err
	}

	dbCfg := loadDatabaseConfig(appMode)
	if dbCfg.InMemory() && appMode != "dev" {
		return nil, fmt.Errorf("DB_DRIVER '%s' is only allowed with APP_MODE=dev", DriverMemory)
	}

	return &Config{
		AppMode:   appMode,
		Port:      getEnv("PORT", ""),
		Database:  dbCfg,
		JWT:       jwtCfg,
		Cookie:    loadCookieConfig(appMode),
		Validator: validatorCfg,
		Seed: SeedConfig{
			AdminEmail:    getEnv("SEED_ADMIN_EMAIL", ""),
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
		},
	}, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	driver := strings.ToLower(getEnv("DB_DRIVER", "mysql"))
	defaultPort := "3306"
	if driver == "postgres" {
		defaultPort = "5432"
	}

	return DatabaseConfig{
		Driver:   driver,
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", defaultPort),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "unicampus"),
		SSLMode:  getEnv(prefix+"DB_SSLMODE", "disable"),
	}
}

// loadJWTConfig decodes the shared secret. An absent secret is not an error
// here; components that sign or verify locally refuse to start without one.
func loadJWTConfig() (JWTConfig, error) {
	cfg := JWTConfig{
		Issuer:     getEnv("JWT_ISSUER", "unicampus-identity"),
		AccessTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTTL: getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
	}

	raw := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if raw == "" {
		return cfg, nil
	}
	secret, err := DecodeSecret(raw)
	if err != nil {
		return cfg, err
	}
	cfg.Secret = secret
	return cfg, nil
}

// DecodeSecret decodes a base64 (standard or URL alphabet) HMAC key
func DecodeSecret(raw string) ([]byte, error) {
	var (
		secret []byte
		err    error
	)
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if secret, err = enc.DecodeString(raw); err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("JWT_SECRET is not valid base64: %w", err)
	}
	if len(secret) < MinSecretBytes {
		return nil, fmt.Errorf("JWT_SECRET must decode to at least %d bytes, got %d", MinSecretBytes, len(secret))
	}
	return secret, nil
}

func loadValidatorConfig() (ValidatorConfig, error) {
	cfg := ValidatorConfig{
		Strategy:      strings.ToLower(getEnv("AUTH_STRATEGY", StrategyLocal)),
		IssuerURL:     strings.TrimRight(getEnv("ISSUER_URL", "http://localhost:8081/api/v1"), "/"),
		HealthURL:     getEnv("ISSUER_HEALTH_URL", "http://localhost:8081/health"),
		Timeout:       getEnvDuration("ISSUER_TIMEOUT", 10*time.Second),
		ProbeSchedule: getEnv("ISSUER_PROBE_SCHEDULE", "@every 1m"),
	}
	if cfg.Strategy != StrategyLocal && cfg.Strategy != StrategyDelegated {
		return cfg, fmt.Errorf("invalid AUTH_STRATEGY: '%s' (must be '%s' or '%s')", cfg.Strategy, StrategyLocal, StrategyDelegated)
	}
	return cfg, nil
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("15m") or KEY_SECONDS
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// ListenPort returns PORT, or fallback when it is unset
func (c *Config) ListenPort(fallback string) string {
	if c.Port == "" {
		return fallback
	}
	return c.Port
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://portal.unicampus.edu"
	}
	return origins
}
