package store

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelforge/reelforge/internal/log"
)

// fakeUploader records PutObject inputs and returns a canned result.
type fakeUploader struct {
	input *s3.PutObjectInput
	err   error
}

func (f *fakeUploader) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func newTestClient(api uploader) *Client {
	return &Client{
		api:        api,
		bucket:     "media",
		publicHost: "https://storage.example.com",
		logger:     log.NewNop(),
	}
}

var keyPattern = regexp.MustCompile(`^reels/[0-9a-f-]{36}\.mp4$`)

func TestUpload_Success(t *testing.T) {
	t.Parallel()

	fake := &fakeUploader{}
	c := newTestClient(fake)

	url, err := c.Upload(context.Background(), []byte("video-bytes"), "video/mp4", "reels")
	require.NoError(t, err)

	require.NotNil(t, fake.input)
	assert.Equal(t, "media", *fake.input.Bucket)
	assert.Regexp(t, keyPattern, *fake.input.Key)
	assert.Equal(t, "video/mp4", *fake.input.ContentType)
	assert.Equal(t, "public, max-age=31536000", *fake.input.CacheControl)
	assert.Equal(t, types.ObjectCannedACLPublicRead, fake.input.ACL)

	body, err := io.ReadAll(fake.input.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("video-bytes"), body)

	assert.Equal(t, "https://storage.example.com/media/"+*fake.input.Key, url)
}

func TestUpload_DefaultPrefix(t *testing.T) {
	t.Parallel()

	fake := &fakeUploader{}
	c := newTestClient(fake)

	_, err := c.Upload(context.Background(), []byte("png"), "image/png", "")
	require.NoError(t, err)
	assert.Regexp(t, `^generated/[0-9a-f-]{36}\.png$`, *fake.input.Key)
}

func TestUpload_FreshKeyPerCall(t *testing.T) {
	t.Parallel()

	fake := &fakeUploader{}
	c := newTestClient(fake)

	url1, err := c.Upload(context.Background(), []byte("a"), "image/png", "generated")
	require.NoError(t, err)
	url2, err := c.Upload(context.Background(), []byte("b"), "image/png", "generated")
	require.NoError(t, err)

	assert.NotEqual(t, url1, url2)
}

func TestUpload_FailureReturnsNoURL(t *testing.T) {
	t.Parallel()

	fake := &fakeUploader{err: errors.New("access denied")}
	c := newTestClient(fake)

	url, err := c.Upload(context.Background(), []byte("a"), "image/png", "generated")
	assert.ErrorIs(t, err, ErrUpload)
	assert.Empty(t, url)
}

func TestExtForContentType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "png", extForContentType("image/png"))
	assert.Equal(t, "jpg", extForContentType("image/jpeg"))
	assert.Equal(t, "mp4", extForContentType("video/mp4"))
	assert.Equal(t, "bin", extForContentType("application/octet-stream"))
}

func TestNew_RequiresBucket(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{}, log.NewNop())
	require.Error(t, err)
}
