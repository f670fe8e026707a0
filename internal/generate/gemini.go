package generate

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/reelforge/reelforge/internal/log"
)

// Default Gemini model names.
const (
	DefaultTextModel  = "gemini-2.5-flash"
	DefaultImageModel = "imagen-4.0-generate-001"
)

var (
	// ErrNoContent indicates the provider answered without any usable text.
	ErrNoContent = errors.New("provider returned no structured content")

	// ErrNoImage indicates the provider answered without image data.
	ErrNoImage = errors.New("provider returned no image")
)

// structuredResponseSchema constrains the text model to the ig_package
// shape. The 3-10 hashtag expectation rides in the description; validation
// of the actual payload happens separately in the content package.
var structuredResponseSchema = &genai.Schema{
	Title: "ig_package",
	Type:  genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"sticker_prompt": {
			Type:        genai.TypeString,
			Description: "Short descriptive prompt for generating a fun sticker-style illustration.",
		},
		"caption": {
			Type:        genai.TypeString,
			Description: "IG-ready caption under 2,000 characters.",
		},
		"article": {
			Type:        genai.TypeString,
			Description: "Long-form article or script that can be used as supporting content.",
		},
		"hashtags": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "Array of 3-10 relevant hashtags without # prefix.",
		},
	},
	Required: []string{"sticker_prompt", "caption", "article", "hashtags"},
}

// GeminiConfig selects the models used by the Gemini provider.
type GeminiConfig struct {
	APIKey      string  // empty means the client reads GEMINI_API_KEY
	TextModel   string  // default DefaultTextModel
	ImageModel  string  // default DefaultImageModel
	Temperature float32 // sampling temperature for structured text
}

// Gemini implements Provider against the Gemini API.
type Gemini struct {
	client      *genai.Client
	textModel   string
	imageModel  string
	temperature float32
	logger      log.Logger
}

// NewGemini creates the provider. Constructed once at startup and shared.
func NewGemini(ctx context.Context, cfg GeminiConfig, logger log.Logger) (*Gemini, error) {
	if logger == nil {
		logger = log.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	textModel := cfg.TextModel
	if textModel == "" {
		textModel = DefaultTextModel
	}
	imageModel := cfg.ImageModel
	if imageModel == "" {
		imageModel = DefaultImageModel
	}

	return &Gemini{
		client:      client,
		textModel:   textModel,
		imageModel:  imageModel,
		temperature: cfg.Temperature,
		logger:      logger,
	}, nil
}

// GenerateStructured requests JSON constrained to the ig_package schema.
func (g *Gemini) GenerateStructured(ctx context.Context, system, prompt string) ([]byte, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.textModel, genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
			ResponseMIMEType:  "application/json",
			ResponseSchema:    structuredResponseSchema,
			Temperature:       genai.Ptr(g.temperature),
		})
	if err != nil {
		return nil, fmt.Errorf("generating structured content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, ErrNoContent
	}

	g.logger.Debug("structured content received", "model", g.textModel, "bytes", len(text))
	return []byte(text), nil
}

// GenerateImage requests a single 1024x1024 PNG and returns it as the
// base64 payload the wire protocol carries.
func (g *Gemini) GenerateImage(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateImages(ctx, g.imageModel, prompt,
		&genai.GenerateImagesConfig{
			NumberOfImages: 1,
			OutputMIMEType: "image/png",
			AspectRatio:    "1:1",
		})
	if err != nil {
		return "", fmt.Errorf("generating image: %w", err)
	}

	if len(resp.GeneratedImages) == 0 ||
		resp.GeneratedImages[0].Image == nil ||
		len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return "", ErrNoImage
	}

	image := resp.GeneratedImages[0].Image
	g.logger.Debug("image received", "model", g.imageModel, "bytes", len(image.ImageBytes))
	return base64.StdEncoding.EncodeToString(image.ImageBytes), nil
}
