package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/reelforge/reelforge/internal/config"
	"github.com/reelforge/reelforge/internal/creds"
	"github.com/reelforge/reelforge/internal/generate"
	"github.com/reelforge/reelforge/internal/instagram"
	"github.com/reelforge/reelforge/internal/log"
	"github.com/reelforge/reelforge/internal/store"
	"github.com/reelforge/reelforge/internal/video"
)

// graphTimeout bounds each Graph API call; readiness polling is not done,
// so individual calls are short.
const graphTimeout = 30 * time.Second

// pipeline holds the wired application components.
type pipeline struct {
	generator *generate.Generator
	publisher *instagram.Client
	source    creds.Source
}

// loadConfig loads and validates configuration, failing fast on bad values.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// buildPipeline constructs the generation and publish components from
// configuration. Every client is constructed once here and shared.
func buildPipeline(ctx context.Context, cfg *config.Config, logger log.Logger) (*pipeline, error) {
	provider, err := generate.NewGemini(ctx, generate.GeminiConfig{
		TextModel:   cfg.TextModel,
		ImageModel:  cfg.ImageModel,
		Temperature: cfg.Temperature,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating AI provider: %w", err)
	}

	storage, err := store.New(ctx, store.Config{
		Bucket:     cfg.StorageBucket,
		Region:     cfg.StorageRegion,
		Endpoint:   cfg.StorageEndpoint,
		AccessKey:  cfg.StorageAccessKey,
		SecretKey:  cfg.StorageSecretKey,
		PublicHost: cfg.StoragePublicHost,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	transcoder := video.New(cfg.FFmpegPath, logger)
	generator := generate.New(provider, storage, transcoder, logger)

	publisher := instagram.New(cfg.GraphBaseURL(),
		&http.Client{Timeout: graphTimeout}, logger)

	source := creds.NewStatic(instagram.Credentials{
		UserID:      cfg.InstagramUserID,
		AccessToken: cfg.InstagramAccessToken,
	})

	return &pipeline{
		generator: generator,
		publisher: publisher,
		source:    source,
	}, nil
}
