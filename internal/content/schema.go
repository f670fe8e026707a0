package content

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// structuredSchema is the closed-object schema the model output must satisfy:
// exactly the four required fields, no extras, at most MaxHashtags tags.
// The 3-tag lower bound requested in the prompt is deliberately not enforced
// here; only the upper bound is validated.
var structuredSchema = mustResolve(&jsonschema.Schema{
	Title: "ig_package",
	Type:  "object",
	Properties: map[string]*jsonschema.Schema{
		"sticker_prompt": {
			Type:        "string",
			Description: "Short descriptive prompt for generating a fun sticker-style illustration.",
		},
		"caption": {
			Type:        "string",
			Description: "IG-ready caption under 2,000 characters.",
		},
		"article": {
			Type:        "string",
			Description: "Long-form article or script that can be used as supporting content.",
		},
		"hashtags": {
			Type:        "array",
			Description: "Array of relevant hashtags without # prefix.",
			Items:       &jsonschema.Schema{Type: "string"},
			MaxItems:    ptr(MaxHashtags),
		},
	},
	Required:             []string{"sticker_prompt", "caption", "article", "hashtags"},
	AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
})

func mustResolve(s *jsonschema.Schema) *jsonschema.Resolved {
	resolved, err := s.Resolve(nil)
	if err != nil {
		// A non-resolving literal schema is a bug, not a runtime condition.
		panic(fmt.Sprintf("BUG: resolving content schema: %v", err))
	}
	return resolved
}

func ptr[T any](v T) *T { return &v }

// ParseStructured decodes and validates raw model output against the
// structured content schema. The raw bytes are untrusted; any shape
// violation is returned wrapped in ErrInvalidContent and the value is
// never blindly cast into the typed result.
func ParseStructured(raw []byte) (Structured, error) {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return Structured{}, fmt.Errorf("%w: decoding JSON: %v", ErrInvalidContent, err)
	}

	if err := structuredSchema.Validate(value); err != nil {
		return Structured{}, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}

	var sc Structured
	if err := json.Unmarshal(raw, &sc); err != nil {
		return Structured{}, fmt.Errorf("%w: decoding validated content: %v", ErrInvalidContent, err)
	}
	return sc, nil
}
