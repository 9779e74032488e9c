package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	DatabaseURL      string
	RedisURL         string
	JWTSecret        string
	TokenTTL         time.Duration
	ImpersonationTTL time.Duration
	GraceMax         float64
	ReportCacheTTL   time.Duration
	CORSOrigins      string
	SeedAdminUserID  string
	SeedAdminPass    string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("JCR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Junior College Result API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("jwt.token_ttl", "24h")
	v.SetDefault("jwt.impersonation_ttl", "2h")
	v.SetDefault("grace_max", 15.0)
	v.SetDefault("report.cache_ttl", "5m")
	v.SetDefault("cors.origins", "http://localhost:3000")

	tokenTTL, err := time.ParseDuration(v.GetString("jwt.token_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid token ttl: %w", err)
	}

	impersonationTTL, err := time.ParseDuration(v.GetString("jwt.impersonation_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid impersonation ttl: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("report.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid report cache ttl: %w", err)
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		DatabaseURL:      v.GetString("database.url"),
		RedisURL:         v.GetString("redis.url"),
		JWTSecret:        v.GetString("jwt.secret"),
		TokenTTL:         tokenTTL,
		ImpersonationTTL: impersonationTTL,
		GraceMax:         v.GetFloat64("grace_max"),
		ReportCacheTTL:   cacheTTL,
		CORSOrigins:      v.GetString("cors.origins"),
		SeedAdminUserID:  v.GetString("seed.admin_userid"),
		SeedAdminPass:    v.GetString("seed.admin_password"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.GraceMax < 0 {
		cfg.GraceMax = 15
	}

	return cfg, nil
}
