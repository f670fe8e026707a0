// Package generate runs the content generation pipeline: structured text
// from the AI provider, a sticker image, a transcoded reel, and uploads of
// both artifacts, assembled into one package.
package generate

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/reelforge/reelforge/internal/content"
	"github.com/reelforge/reelforge/internal/log"
	"github.com/reelforge/reelforge/internal/video"
)

// Pipeline stages, in execution order. Every Error names the stage that
// aborted the run.
const (
	StageText        = "text"
	StageValidate    = "validate"
	StageImage       = "image"
	StageDecode      = "decode"
	StageUploadImage = "upload_image"
	StageTranscode   = "transcode"
	StageUploadVideo = "upload_video"
)

// Object key prefixes for the two artifact kinds.
const (
	imageKeyPrefix = "generated"
	reelKeyPrefix  = "reels"
)

// Error reports which pipeline stage failed. Earlier stages' side effects
// (uploaded artifacts) are not rolled back.
type Error struct {
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("generation failed at %s stage: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Provider is the AI backend: structured JSON content and sticker images.
type Provider interface {
	// GenerateStructured returns raw JSON conforming to the content schema.
	GenerateStructured(ctx context.Context, system, prompt string) ([]byte, error)

	// GenerateImage returns the generated image as a base64 PNG payload,
	// the form the provider's wire protocol delivers it in.
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Uploader persists an artifact and returns its public URL.
// Satisfied by store.Client.
type Uploader interface {
	Upload(ctx context.Context, data []byte, contentType, keyPrefix string) (string, error)
}

// Renderer turns a still image into a reel. Satisfied by video.Transcoder.
type Renderer interface {
	Render(ctx context.Context, image []byte, opts video.Options) ([]byte, error)
}

// Generator is the pipeline entry point. Stages run strictly in order,
// once each, with no retry; the first failure aborts the rest.
type Generator struct {
	provider Provider
	store    Uploader
	renderer Renderer
	logger   log.Logger
}

// New creates a Generator.
func New(provider Provider, store Uploader, renderer Renderer, logger log.Logger) *Generator {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Generator{
		provider: provider,
		store:    store,
		renderer: renderer,
		logger:   logger,
	}
}

// Generate runs the full pipeline for one request. On a late-stage failure
// the artifacts already uploaded stay behind as orphans; there is no
// deletion path.
func (g *Generator) Generate(ctx context.Context, req content.GenerationRequest) (*content.Package, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	g.logger.Info("generation started", "topic", req.Topic)

	raw, err := g.provider.GenerateStructured(ctx, systemInstruction, userInstruction(req))
	if err != nil {
		return nil, &Error{Stage: StageText, Err: err}
	}

	sc, err := content.ParseStructured(raw)
	if err != nil {
		return nil, &Error{Stage: StageValidate, Err: err}
	}

	imageB64, err := g.provider.GenerateImage(ctx, imagePrompt(sc.StickerPrompt))
	if err != nil {
		return nil, &Error{Stage: StageImage, Err: err}
	}

	imageBytes, err := base64.StdEncoding.DecodeString(imageB64)
	if err != nil {
		return nil, &Error{Stage: StageDecode, Err: fmt.Errorf("decoding image payload: %w", err)}
	}

	imageURL, err := g.store.Upload(ctx, imageBytes, "image/png", imageKeyPrefix)
	if err != nil {
		return nil, &Error{Stage: StageUploadImage, Err: err}
	}
	g.logger.Debug("sticker uploaded", "url", imageURL)

	reelBytes, err := g.renderer.Render(ctx, imageBytes, video.Options{
		CaptionOverlay: captionOverlay(sc.Caption),
	})
	if err != nil {
		return nil, &Error{Stage: StageTranscode, Err: err}
	}

	videoURL, err := g.store.Upload(ctx, reelBytes, "video/mp4", reelKeyPrefix)
	if err != nil {
		return nil, &Error{Stage: StageUploadVideo, Err: err}
	}
	g.logger.Debug("reel uploaded", "url", videoURL)

	pkg := &content.Package{
		StickerPrompt: sc.StickerPrompt,
		Caption:       sc.Caption,
		Article:       sc.Article,
		Hashtags:      content.NormalizeHashtags(sc.Hashtags),
		Sticker: content.Sticker{
			ImageURL: imageURL,
			Base64:   imageB64,
		},
		Reel: content.Reel{
			VideoURL: videoURL,
		},
	}

	g.logger.Info("generation finished",
		"topic", req.Topic,
		"hashtags", len(pkg.Hashtags),
	)
	return pkg, nil
}
