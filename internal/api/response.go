package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/reelforge/reelforge/internal/log"
)

// envelope is the response shape shared by every endpoint: exactly one of
// Data or Error is set.
type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
	Error   any  `json:"error,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
// Buffer-first so headers are only sent after successful encoding and a
// proper 500 can still be returned if encoding fails.
func writeJSON(w http.ResponseWriter, status int, data any, logger log.Logger) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		// Client disconnects are common; not worth more than debug.
		logger.Debug("failed to write response body", "error", err)
	}
}

// writeData writes a success envelope.
func writeData(w http.ResponseWriter, status int, data any, logger log.Logger) {
	writeJSON(w, status, envelope{Success: true, Data: data}, logger)
}

// writeError writes a failure envelope. detail may be a plain message or a
// structured object (field-level validation detail).
func writeError(w http.ResponseWriter, status int, detail any, logger log.Logger) {
	writeJSON(w, status, envelope{Success: false, Error: detail}, logger)
}
