package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/reelforge/reelforge/internal/content"
	"github.com/reelforge/reelforge/internal/generate"
	"github.com/reelforge/reelforge/internal/log"
)

// maxRequestBody bounds inbound JSON bodies.
const maxRequestBody = 1 << 20 // 1 MiB

// Generator runs the content generation pipeline.
type Generator interface {
	Generate(ctx context.Context, req content.GenerationRequest) (*content.Package, error)
}

// generateHandler handles POST /api/v1/generate.
type generateHandler struct {
	generator Generator
	logger    log.Logger
}

func (h *generateHandler) generate(w http.ResponseWriter, r *http.Request) {
	var req content.GenerationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	pkg, err := h.generator.Generate(r.Context(), req)
	if err != nil {
		if errors.Is(err, content.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, err.Error(), h.logger)
			return
		}

		// Pipeline failures carry the stage for the logs; the client gets
		// a generic message so provider internals stay server-side.
		var stageErr *generate.Error
		if errors.As(err, &stageErr) {
			h.logger.Error("generation pipeline failed",
				"stage", stageErr.Stage,
				"error", stageErr.Err,
			)
		} else {
			h.logger.Error("generation failed", "error", err)
		}
		writeError(w, http.StatusInternalServerError, "Failed to generate content", h.logger)
		return
	}

	writeData(w, http.StatusOK, pkg, h.logger)
}

// decodeJSON decodes a bounded request body into dst. The returned error
// message is safe to send to the client.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errors.New("request body too large")
		}
		return errors.New("invalid JSON body")
	}
	return nil
}
