// Package config provides application configuration with multi-source
// priority: environment variables over config file over defaults.
//
// Sensitive fields (access tokens, storage keys) are masked in MarshalJSON;
// when adding a new secret field, update MarshalJSON too.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config stores the reelforge service configuration.
type Config struct {
	// HTTP server
	Addr        string   `mapstructure:"addr" json:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins"`
	TrustProxy  bool     `mapstructure:"trust_proxy" json:"trust_proxy"`
	RateBurst   int      `mapstructure:"rate_burst" json:"rate_burst"`

	// AI provider
	TextModel   string  `mapstructure:"text_model" json:"text_model"`
	ImageModel  string  `mapstructure:"image_model" json:"image_model"`
	Temperature float32 `mapstructure:"temperature" json:"temperature"`

	// Artifact storage
	StorageBucket     string `mapstructure:"storage_bucket" json:"storage_bucket"`
	StorageRegion     string `mapstructure:"storage_region" json:"storage_region"`
	StorageEndpoint   string `mapstructure:"storage_endpoint" json:"storage_endpoint"`
	StoragePublicHost string `mapstructure:"storage_public_host" json:"storage_public_host"`
	StorageAccessKey  string `mapstructure:"storage_access_key" json:"storage_access_key"` // SENSITIVE: masked in MarshalJSON
	StorageSecretKey  string `mapstructure:"storage_secret_key" json:"storage_secret_key"` // SENSITIVE: masked in MarshalJSON

	// Transcoder
	FFmpegPath string `mapstructure:"ffmpeg_path" json:"ffmpeg_path"`

	// Instagram Graph API
	GraphVersion         string `mapstructure:"graph_version" json:"graph_version"`
	InstagramUserID      string `mapstructure:"instagram_user_id" json:"instagram_user_id"`
	InstagramAccessToken string `mapstructure:"instagram_access_token" json:"instagram_access_token"` // SENSITIVE: masked in MarshalJSON
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".reelforge")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults plus env carry the load.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("addr", "127.0.0.1:8080")
	viper.SetDefault("cors_origins", []string{"http://localhost:3000"})
	viper.SetDefault("trust_proxy", false)
	viper.SetDefault("rate_burst", 30)

	viper.SetDefault("text_model", "gemini-2.5-flash")
	viper.SetDefault("image_model", "imagen-4.0-generate-001")
	viper.SetDefault("temperature", 0.7)

	viper.SetDefault("storage_region", "us-east-1")

	viper.SetDefault("ffmpeg_path", "ffmpeg")

	viper.SetDefault("graph_version", "v21.0")
}

// bindEnvVariables binds environment variables explicitly.
// GEMINI_API_KEY is read directly by the genai client, not via Viper;
// Validate() only checks its presence.
func bindEnvVariables() {
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("addr", "REELFORGE_ADDR")
	mustBind("cors_origins", "REELFORGE_CORS_ORIGINS")
	mustBind("trust_proxy", "REELFORGE_TRUST_PROXY")
	mustBind("rate_burst", "REELFORGE_RATE_BURST")

	mustBind("text_model", "REELFORGE_TEXT_MODEL")
	mustBind("image_model", "REELFORGE_IMAGE_MODEL")

	mustBind("storage_bucket", "STORAGE_BUCKET")
	mustBind("storage_region", "STORAGE_REGION")
	mustBind("storage_endpoint", "STORAGE_ENDPOINT")
	mustBind("storage_public_host", "STORAGE_PUBLIC_HOST")
	mustBind("storage_access_key", "STORAGE_ACCESS_KEY")
	mustBind("storage_secret_key", "STORAGE_SECRET_KEY")

	mustBind("ffmpeg_path", "REELFORGE_FFMPEG_PATH")

	mustBind("graph_version", "INSTAGRAM_GRAPH_API_VERSION")
	mustBind("instagram_user_id", "INSTAGRAM_USER_ID")
	mustBind("instagram_access_token", "INSTAGRAM_ACCESS_TOKEN")
}

// maskedValue replaces secrets in serialized config.
const maskedValue = "********"

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return maskedValue
}

// MarshalJSON implements json.Marshaler with sensitive fields masked, so a
// logged or exported config never leaks credentials.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	masked := alias(c)
	masked.StorageAccessKey = maskSecret(c.StorageAccessKey)
	masked.StorageSecretKey = maskSecret(c.StorageSecretKey)
	masked.InstagramAccessToken = maskSecret(c.InstagramAccessToken)
	return json.Marshal(masked)
}
