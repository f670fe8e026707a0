package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrMissingAPIKey indicates GEMINI_API_KEY is not set.
	ErrMissingAPIKey = errors.New("missing GEMINI_API_KEY")

	// ErrMissingBucket indicates no storage bucket is configured.
	ErrMissingBucket = errors.New("missing storage bucket")

	// ErrInvalidTemperature indicates the temperature is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidModelName indicates an empty model name.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidGraphVersion indicates a malformed Graph API version.
	ErrInvalidGraphVersion = errors.New("invalid graph API version")

	// ErrInvalidRateBurst indicates a non-positive rate limiter burst.
	ErrInvalidRateBurst = errors.New("invalid rate burst")
)

// Validate fails fast on unusable configuration.
func (c *Config) Validate() error {
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("%w: set GEMINI_API_KEY in the environment", ErrMissingAPIKey)
	}

	if c.StorageBucket == "" {
		return fmt.Errorf("%w: set storage_bucket or STORAGE_BUCKET", ErrMissingBucket)
	}

	if c.TextModel == "" || c.ImageModel == "" {
		return fmt.Errorf("%w: text and image model names must be non-empty", ErrInvalidModelName)
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%w: %v is outside [0.0, 2.0]", ErrInvalidTemperature, c.Temperature)
	}

	if !strings.HasPrefix(c.GraphVersion, "v") {
		return fmt.Errorf("%w: %q must look like v21.0", ErrInvalidGraphVersion, c.GraphVersion)
	}

	if c.RateBurst <= 0 {
		return fmt.Errorf("%w: %d must be positive", ErrInvalidRateBurst, c.RateBurst)
	}

	return nil
}

// GraphBaseURL returns the versioned Graph API base URL.
func (c *Config) GraphBaseURL() string {
	return "https://graph.facebook.com/" + c.GraphVersion
}
