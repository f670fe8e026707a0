package instagram_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelforge/reelforge/internal/instagram"
	"github.com/reelforge/reelforge/internal/log"
)

var testCreds = instagram.Credentials{
	UserID:      "17840012345",
	AccessToken: "IGQW-token",
}

// recordedCall captures a single form POST received by the fake platform.
type recordedCall struct {
	path   string
	values url.Values
}

// newGraphStub runs a fake Graph API that replies per-path and records calls.
func newGraphStub(t *testing.T, responses map[string]func(w http.ResponseWriter), calls *[]recordedCall) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())

		*calls = append(*calls, recordedCall{path: r.URL.Path, values: r.PostForm})

		respond, ok := responses[r.URL.Path]
		require.True(t, ok, "unexpected path %s", r.URL.Path)
		respond(w)
	}))
}

func jsonBody(status int, body string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestPublish_Post_Success(t *testing.T) {
	t.Parallel()

	var calls []recordedCall
	srv := newGraphStub(t, map[string]func(http.ResponseWriter){
		"/17840012345/media":         jsonBody(http.StatusOK, `{"id":"container-1"}`),
		"/17840012345/media_publish": jsonBody(http.StatusOK, `{"id":"media-9"}`),
	}, &calls)
	defer srv.Close()

	c := instagram.New(srv.URL, srv.Client(), log.NewNop())

	result, err := c.Publish(context.Background(), instagram.PublishRequest{
		Kind:     instagram.KindPost,
		Caption:  "Autumn latte",
		ImageURL: "https://storage.example.com/media/generated/a.png",
	}, testCreds)
	require.NoError(t, err)

	assert.Equal(t, "container-1", result.CreationID)
	assert.Equal(t, "media-9", result.MediaID)

	require.Len(t, calls, 2)
	create := calls[0]
	assert.Equal(t, "/17840012345/media", create.path)
	assert.Equal(t, "Autumn latte", create.values.Get("caption"))
	assert.Equal(t, "https://storage.example.com/media/generated/a.png", create.values.Get("image_url"))
	assert.Equal(t, "IGQW-token", create.values.Get("access_token"))
	assert.Empty(t, create.values.Get("media_type"))

	publish := calls[1]
	assert.Equal(t, "/17840012345/media_publish", publish.path)
	assert.Equal(t, "container-1", publish.values.Get("creation_id"))
	assert.Equal(t, "IGQW-token", publish.values.Get("access_token"))
}

func TestPublish_Reel_FieldEncoding(t *testing.T) {
	t.Parallel()

	var calls []recordedCall
	srv := newGraphStub(t, map[string]func(http.ResponseWriter){
		"/17840012345/media":         jsonBody(http.StatusOK, `{"id":"container-2"}`),
		"/17840012345/media_publish": jsonBody(http.StatusOK, `{"id":"media-10"}`),
	}, &calls)
	defer srv.Close()

	c := instagram.New(srv.URL, srv.Client(), log.NewNop())
	share := false

	_, err := c.Publish(context.Background(), instagram.PublishRequest{
		Kind:        instagram.KindReel,
		Caption:     "Reel caption",
		VideoURL:    "https://storage.example.com/media/reels/b.mp4",
		ShareToFeed: &share,
	}, testCreds)
	require.NoError(t, err)

	create := calls[0]
	assert.Equal(t, "REELS", create.values.Get("media_type"))
	assert.Equal(t, "https://storage.example.com/media/reels/b.mp4", create.values.Get("video_url"))
	// The flag is the literal string, not a JSON boolean.
	assert.Equal(t, "false", create.values.Get("share_to_feed"))
}

func TestPublish_Reel_ShareToFeedOmittedWhenUnset(t *testing.T) {
	t.Parallel()

	var calls []recordedCall
	srv := newGraphStub(t, map[string]func(http.ResponseWriter){
		"/17840012345/media":         jsonBody(http.StatusOK, `{"id":"container-3"}`),
		"/17840012345/media_publish": jsonBody(http.StatusOK, `{"id":""}`),
	}, &calls)
	defer srv.Close()

	c := instagram.New(srv.URL, srv.Client(), log.NewNop())

	result, err := c.Publish(context.Background(), instagram.PublishRequest{
		Kind:     instagram.KindReel,
		Caption:  "Reel caption",
		VideoURL: "https://storage.example.com/media/reels/c.mp4",
	}, testCreds)
	require.NoError(t, err)

	_, present := calls[0].values["share_to_feed"]
	assert.False(t, present)

	// The platform accepted the publish without a synchronous media id.
	assert.Equal(t, "container-3", result.CreationID)
	assert.Empty(t, result.MediaID)
}

func TestPublish_MissingContainerIDIsCreateFailure(t *testing.T) {
	t.Parallel()

	var calls []recordedCall
	srv := newGraphStub(t, map[string]func(http.ResponseWriter){
		"/17840012345/media": jsonBody(http.StatusOK, `{}`),
	}, &calls)
	defer srv.Close()

	c := instagram.New(srv.URL, srv.Client(), log.NewNop())

	result, err := c.Publish(context.Background(), instagram.PublishRequest{
		Kind:     instagram.KindPost,
		Caption:  "caption",
		ImageURL: "https://storage.example.com/a.png",
	}, testCreds)

	assert.Nil(t, result)
	var igErr *instagram.Error
	require.ErrorAs(t, err, &igErr)
	assert.Equal(t, instagram.StageCreate, igErr.Stage)

	// Phase 2 must never run after a failed create.
	assert.Len(t, calls, 1)
}

func TestPublish_ErrorEnvelopeMessageSurfacedVerbatim(t *testing.T) {
	t.Parallel()

	var calls []recordedCall
	srv := newGraphStub(t, map[string]func(http.ResponseWriter){
		"/17840012345/media": jsonBody(http.StatusBadRequest,
			`{"error":{"message":"Invalid parameter: image_url","type":"OAuthException","code":100}}`),
	}, &calls)
	defer srv.Close()

	c := instagram.New(srv.URL, srv.Client(), log.NewNop())

	_, err := c.Publish(context.Background(), instagram.PublishRequest{
		Kind:     instagram.KindPost,
		Caption:  "caption",
		ImageURL: "https://storage.example.com/a.png",
	}, testCreds)

	var igErr *instagram.Error
	require.ErrorAs(t, err, &igErr)
	assert.Equal(t, instagram.StageCreate, igErr.Stage)
	assert.Equal(t, "Invalid parameter: image_url", igErr.Message)
}

func TestPublish_ErrorEnvelopeOn2xxStillFails(t *testing.T) {
	t.Parallel()

	var calls []recordedCall
	srv := newGraphStub(t, map[string]func(http.ResponseWriter){
		"/17840012345/media": jsonBody(http.StatusOK, `{"id":"container-4"}`),
		"/17840012345/media_publish": jsonBody(http.StatusOK,
			`{"error":{"message":"Media not ready","type":"IGApiException","code":9007}}`),
	}, &calls)
	defer srv.Close()

	c := instagram.New(srv.URL, srv.Client(), log.NewNop())

	_, err := c.Publish(context.Background(), instagram.PublishRequest{
		Kind:     instagram.KindPost,
		Caption:  "caption",
		ImageURL: "https://storage.example.com/a.png",
	}, testCreds)

	var igErr *instagram.Error
	require.ErrorAs(t, err, &igErr)
	assert.Equal(t, instagram.StagePublish, igErr.Stage)
	assert.Equal(t, "Media not ready", igErr.Message)
}

func TestPublish_StatusFallbackMessage(t *testing.T) {
	t.Parallel()

	var calls []recordedCall
	srv := newGraphStub(t, map[string]func(http.ResponseWriter){
		"/17840012345/media": jsonBody(http.StatusBadGateway, `not json`),
	}, &calls)
	defer srv.Close()

	c := instagram.New(srv.URL, srv.Client(), log.NewNop())

	_, err := c.Publish(context.Background(), instagram.PublishRequest{
		Kind:     instagram.KindPost,
		Caption:  "caption",
		ImageURL: "https://storage.example.com/a.png",
	}, testCreds)

	var igErr *instagram.Error
	require.ErrorAs(t, err, &igErr)
	assert.Equal(t, instagram.StageCreate, igErr.Stage)
	assert.Contains(t, igErr.Message, "Instagram API error")
	assert.Contains(t, igErr.Message, "502")
}

func TestPublishRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     instagram.PublishRequest
		wantErr bool
	}{
		{
			name: "valid post",
			req: instagram.PublishRequest{
				Kind: instagram.KindPost, Caption: "c", ImageURL: "https://x.test/a.png",
			},
		},
		{
			name: "valid reel",
			req: instagram.PublishRequest{
				Kind: instagram.KindReel, Caption: "c", VideoURL: "https://x.test/a.mp4",
			},
		},
		{
			name:    "missing caption",
			req:     instagram.PublishRequest{Kind: instagram.KindPost, ImageURL: "https://x.test/a.png"},
			wantErr: true,
		},
		{
			name:    "post without image url",
			req:     instagram.PublishRequest{Kind: instagram.KindPost, Caption: "c"},
			wantErr: true,
		},
		{
			name:    "reel with relative video url",
			req:     instagram.PublishRequest{Kind: instagram.KindReel, Caption: "c", VideoURL: "/a.mp4"},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			req:     instagram.PublishRequest{Kind: "story", Caption: "c"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, instagram.ErrInvalidRequest)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
