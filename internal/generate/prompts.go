package generate

import (
	"fmt"
	"strings"

	"github.com/reelforge/reelforge/internal/content"
)

// systemInstruction is the fixed system prompt for structured content.
const systemInstruction = "You are a top-tier Instagram strategist. " +
	"Produce compelling sticker prompts, captions, and article copy in the requested language."

// captionOverlayLimit bounds the caption text burned into the reel.
const captionOverlayLimit = 120

// userInstruction builds the user prompt from the generation request.
func userInstruction(req content.GenerationRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create content for an Instagram post about %q", req.Topic)
	if req.Tone != "" {
		fmt.Fprintf(&b, " with a %s tone", req.Tone)
	}
	if req.Audience != "" {
		fmt.Fprintf(&b, " targeted at %s", req.Audience)
	}
	language := req.Language
	if language == "" {
		language = "the same language as the topic"
	}
	fmt.Fprintf(&b, ". Respond in %s. Provide JSON following the schema.", language)
	return b.String()
}

// imagePrompt composes the sticker render instruction around the
// model-provided sticker prompt.
func imagePrompt(stickerPrompt string) string {
	return stickerPrompt + ". Render as cute sticker with transparent background, bold outlines, Instagram-ready."
}

// captionOverlay truncates the caption to the overlay limit in runes.
func captionOverlay(caption string) string {
	runes := []rune(caption)
	if len(runes) <= captionOverlayLimit {
		return caption
	}
	return string(runes[:captionOverlayLimit])
}
