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
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	JWTSecret              string
	EventChannelBase       string
	DashboardCacheTTL      time.Duration
	ToxicityFlagThreshold  float64
	ModerationFailOpen     bool
	AIProvider             string
	AIRequestTimeout       time.Duration
	OpenAIAPIKey           string
	PerspectiveAPIKey      string
	PerspectiveAPIURL      string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
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
	v.SetEnvPrefix("AGORA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Agora API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("events.channel_base", "agora")
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("moderation.flag_threshold", 0.7)
	v.SetDefault("moderation.fail_open", true)
	v.SetDefault("ai.provider", "perspective")
	v.SetDefault("ai.request_timeout_ms", 10000)
	v.SetDefault("perspective.api_url", "https://commentanalyzer.googleapis.com/v1alpha1/comments:analyze")
	v.SetDefault("cloudinary.folder", "agora/avatars")

	ttlString := v.GetString("dashboard.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	timeoutMs := v.GetInt("ai.request_timeout_ms")
	if timeoutMs <= 0 {
		timeoutMs = 10000
	}

	threshold := v.GetFloat64("moderation.flag_threshold")
	if threshold <= 0 || threshold >= 1 {
		return Config{}, fmt.Errorf("moderation flag threshold must be in (0,1), got %v", threshold)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		EventChannelBase:       v.GetString("events.channel_base"),
		DashboardCacheTTL:      ttl,
		ToxicityFlagThreshold:  threshold,
		ModerationFailOpen:     v.GetBool("moderation.fail_open"),
		AIProvider:             strings.ToLower(v.GetString("ai.provider")),
		AIRequestTimeout:       time.Duration(timeoutMs) * time.Millisecond,
		OpenAIAPIKey:           v.GetString("openai_api_key"),
		PerspectiveAPIKey:      v.GetString("perspective.api_key"),
		PerspectiveAPIURL:      v.GetString("perspective.api_url"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}
