// Package instagram implements the two-phase remote-media publish protocol
// against the Instagram Graph API: create a media container, then publish it.
package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/reelforge/reelforge/internal/log"
)

// DefaultGraphVersion is the Graph API version used when none is configured.
const DefaultGraphVersion = "v21.0"

// Publish phases. A publish attempt moves INIT -> container created ->
// published; a failure at either phase is terminal and carries the phase.
const (
	StageCreate  = "create"
	StagePublish = "publish"
)

// MediaKind selects the container variant.
type MediaKind string

const (
	KindPost MediaKind = "post"
	KindReel MediaKind = "reel"
)

// ErrInvalidRequest indicates a malformed publish request.
var ErrInvalidRequest = errors.New("invalid publish request")

// Error is a terminal publish failure. Message carries the platform's
// human-readable error verbatim when the envelope provided one, otherwise
// a fallback built from the HTTP status.
type Error struct {
	Stage   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("instagram %s failed: %s", e.Stage, e.Message)
}

// Credentials identify the platform user on whose behalf media is
// published. Sourced externally and read-only to this package; the token
// is never refreshed here.
type Credentials struct {
	UserID      string
	AccessToken string
}

// PublishRequest describes the media to publish. Exactly one of the two
// variants applies: a still post (ImageURL) or a reel (VideoURL, with an
// optional share-to-feed flag).
type PublishRequest struct {
	Kind        MediaKind `json:"kind"`
	Caption     string    `json:"caption"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	VideoURL    string    `json:"videoUrl,omitempty"`
	ShareToFeed *bool     `json:"shareToFeed,omitempty"`
}

// Validate checks the variant-specific field requirements.
func (r PublishRequest) Validate() error {
	if r.Caption == "" {
		return fmt.Errorf("%w: caption is required", ErrInvalidRequest)
	}
	switch r.Kind {
	case KindPost:
		if err := validateURL(r.ImageURL); err != nil {
			return fmt.Errorf("%w: imageUrl: %v", ErrInvalidRequest, err)
		}
	case KindReel:
		if err := validateURL(r.VideoURL); err != nil {
			return fmt.Errorf("%w: videoUrl: %v", ErrInvalidRequest, err)
		}
	default:
		return fmt.Errorf("%w: kind must be %q or %q", ErrInvalidRequest, KindPost, KindReel)
	}
	return nil
}

func validateURL(raw string) error {
	if raw == "" {
		return errors.New("required")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an absolute http(s) URL")
	}
	return nil
}

// PublishResult reports a successful publish. MediaID is empty when the
// platform accepted the publish call without returning an id synchronously;
// the media appears after the platform's own processing delay.
type PublishResult struct {
	CreationID string `json:"creationId"`
	MediaID    string `json:"mediaId,omitempty"`
}

// apiError is the Graph API error object.
type apiError struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	Code         int    `json:"code"`
	ErrorSubcode int    `json:"error_subcode,omitempty"`
	FBTraceID    string `json:"fbtrace_id,omitempty"`
}

// apiResponse is the single envelope the platform uses for both success
// and failure.
type apiResponse struct {
	ID    string    `json:"id"`
	Error *apiError `json:"error"`
}

// Client talks to the Graph API. Timeouts come from the injected
// http.Client; this package adds no retry or readiness polling.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     log.Logger
}

// New creates a publish client. baseURL defaults to the public Graph API
// host at DefaultGraphVersion; override it to pin a version or in tests.
func New(baseURL string, httpClient *http.Client, logger log.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://graph.facebook.com/" + DefaultGraphVersion
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		logger:     logger,
	}
}

// Publish runs both phases and returns the container and media ids.
// There is no automatic retry: a failure at either phase is surfaced
// immediately, and the platform's eventual-consistency delay after a
// successful publish is the caller's to communicate.
func (c *Client) Publish(ctx context.Context, req PublishRequest, creds Credentials) (*PublishResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	payload := url.Values{}
	payload.Set("caption", req.Caption)

	switch req.Kind {
	case KindPost:
		payload.Set("image_url", req.ImageURL)
	case KindReel:
		payload.Set("media_type", "REELS")
		payload.Set("video_url", req.VideoURL)
		if req.ShareToFeed != nil {
			// The platform expects the literal strings "true"/"false".
			if *req.ShareToFeed {
				payload.Set("share_to_feed", "true")
			} else {
				payload.Set("share_to_feed", "false")
			}
		}
	}

	creation, err := c.call(ctx, StageCreate, creds.UserID+"/media", payload, creds.AccessToken)
	if err != nil {
		return nil, err
	}
	if creation.ID == "" {
		// The platform can answer 200 without a container id; that is a
		// create failure, not a success.
		return nil, &Error{Stage: StageCreate, Message: "media container id missing from response"}
	}

	c.logger.Debug("media container created", "creation_id", creation.ID, "kind", req.Kind)

	publishPayload := url.Values{}
	publishPayload.Set("creation_id", creation.ID)

	published, err := c.call(ctx, StagePublish, creds.UserID+"/media_publish", publishPayload, creds.AccessToken)
	if err != nil {
		return nil, err
	}

	return &PublishResult{
		CreationID: creation.ID,
		MediaID:    published.ID,
	}, nil
}

// call POSTs a form-encoded payload to the Graph API and decodes the
// response envelope. A non-2xx status or a present error object is a
// failure at the given stage.
func (c *Client) call(ctx context.Context, stage, path string, payload url.Values, accessToken string) (*apiResponse, error) {
	payload.Set("access_token", accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/"+path, strings.NewReader(payload.Encode()))
	if err != nil {
		return nil, &Error{Stage: stage, Message: fmt.Sprintf("building request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Stage: stage, Message: fmt.Sprintf("calling Instagram API: %v", err)}
	}
	defer resp.Body.Close()

	var env apiResponse
	// Decode errors are ignored here: a non-2xx with an unreadable body
	// still needs the status fallback below.
	_ = json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || env.Error != nil {
		message := ""
		if env.Error != nil {
			message = env.Error.Message
		}
		if message == "" {
			message = fmt.Sprintf("Instagram API error (%s)", resp.Status)
		}
		c.logger.Error("instagram call failed",
			"stage", stage,
			"status", resp.StatusCode,
			"message", message,
		)
		return nil, &Error{Stage: stage, Message: message}
	}

	return &env, nil
}
