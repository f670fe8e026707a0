// Package content defines the data model for generated Instagram packages
// and the validation applied to untrusted model output.
package content

import (
	"errors"
	"fmt"
	"strings"
)

// MaxHashtags is the upper bound enforced on model-provided hashtags.
// The prompt asks for 3-10 tags but only the upper bound is validated;
// downstream consumers must tolerate fewer than 3 tags.
const MaxHashtags = 10

// MinTopicLength is the minimum length of a generation topic in bytes.
const MinTopicLength = 3

var (
	// ErrInvalidRequest indicates a malformed caller-supplied generation request.
	ErrInvalidRequest = errors.New("invalid generation request")

	// ErrInvalidContent indicates model output that does not conform to the
	// structured content schema.
	ErrInvalidContent = errors.New("invalid structured content")
)

// GenerationRequest is the caller's input to the generation pipeline.
// Consumed once; never mutated.
type GenerationRequest struct {
	Topic    string `json:"topic"`
	Tone     string `json:"tone,omitempty"`
	Audience string `json:"audience,omitempty"`
	Language string `json:"language,omitempty"`
}

// Validate checks caller-supplied fields. Topic is required and must be at
// least MinTopicLength bytes after trimming.
func (r GenerationRequest) Validate() error {
	if len(strings.TrimSpace(r.Topic)) < MinTopicLength {
		return fmt.Errorf("%w: topic must be at least %d characters", ErrInvalidRequest, MinTopicLength)
	}
	return nil
}

// Structured is the schema-validated model output.
// Field names mirror the JSON the model is instructed to produce.
type Structured struct {
	StickerPrompt string   `json:"sticker_prompt"`
	Caption       string   `json:"caption"`
	Article       string   `json:"article"`
	Hashtags      []string `json:"hashtags"`
}

// Sticker is the generated still image artifact as returned to the caller.
type Sticker struct {
	ImageURL string `json:"imageUrl"`
	Base64   string `json:"base64"`
}

// Reel is the generated vertical video artifact as returned to the caller.
type Reel struct {
	VideoURL string `json:"videoUrl"`
}

// Package is the assembled result of one generation run. It exists only in
// the response; nothing is persisted server-side beyond the uploaded blobs.
type Package struct {
	StickerPrompt string   `json:"stickerPrompt"`
	Caption       string   `json:"caption"`
	Article       string   `json:"article"`
	Hashtags      []string `json:"hashtags"`
	Sticker       Sticker  `json:"sticker"`
	Reel          Reel     `json:"reel"`
}
