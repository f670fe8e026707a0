// Package creds is the boundary to the identity subsystem that owns
// Instagram account linking. This service only reads credentials; the OAuth
// exchange that produces them lives elsewhere.
package creds

import (
	"context"
	"errors"

	"github.com/reelforge/reelforge/internal/instagram"
)

// ErrNotConnected indicates no Instagram credentials exist for the user.
// Callers should surface this as an authorization problem (re-link the
// account), not as a retryable failure.
var ErrNotConnected = errors.New("instagram account not connected")

// Source looks up publish credentials for a user.
type Source interface {
	Lookup(ctx context.Context, userID string) (instagram.Credentials, error)
}

// Static serves one fixed set of credentials regardless of user, for
// single-account deployments configured via environment.
type Static struct {
	creds instagram.Credentials
}

// NewStatic creates a Static source. Empty fields mean "not connected".
func NewStatic(c instagram.Credentials) *Static {
	return &Static{creds: c}
}

// Lookup implements Source.
func (s *Static) Lookup(_ context.Context, _ string) (instagram.Credentials, error) {
	if s.creds.UserID == "" || s.creds.AccessToken == "" {
		return instagram.Credentials{}, ErrNotConnected
	}
	return s.creds, nil
}
