package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/reelforge/reelforge/internal/creds"
	"github.com/reelforge/reelforge/internal/instagram"
	"github.com/reelforge/reelforge/internal/log"
)

// Publisher publishes media through the two-phase Graph API protocol.
type Publisher interface {
	Publish(ctx context.Context, req instagram.PublishRequest, c instagram.Credentials) (*instagram.PublishResult, error)
}

// shareRequest is the /api/v1/share body: a publish request plus the user
// whose linked account publishes it. UserID is optional for single-account
// deployments with a static credential source.
type shareRequest struct {
	UserID string `json:"userId,omitempty"`
	instagram.PublishRequest
}

// shareHandler handles POST /api/v1/share.
type shareHandler struct {
	publisher Publisher
	source    creds.Source
	logger    log.Logger
}

func (h *shareHandler) share(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	credentials, err := h.source.Lookup(r.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, creds.ErrNotConnected) {
			writeError(w, http.StatusForbidden, "Instagram not connected", h.logger)
			return
		}
		h.logger.Error("credential lookup failed", "error", err, "user_id", req.UserID)
		writeError(w, http.StatusInternalServerError, "Failed to publish to Instagram", h.logger)
		return
	}

	result, err := h.publisher.Publish(r.Context(), req.PublishRequest, credentials)
	if err != nil {
		if errors.Is(err, instagram.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, err.Error(), h.logger)
			return
		}

		var pubErr *instagram.Error
		if errors.As(err, &pubErr) {
			h.logger.Error("publish rejected",
				"stage", pubErr.Stage,
				"message", pubErr.Message,
			)
			// The platform's message goes through verbatim so the user can
			// act on it (expired token, unreachable media URL, ...).
			writeError(w, http.StatusBadGateway, pubErr.Message, h.logger)
			return
		}

		h.logger.Error("publish failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to publish to Instagram", h.logger)
		return
	}

	writeData(w, http.StatusOK, result, h.logger)
}
