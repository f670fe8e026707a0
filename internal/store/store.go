// Package store uploads generated artifacts to S3-compatible object storage
// and hands back stable public URLs.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/reelforge/reelforge/internal/log"
)

// DefaultKeyPrefix is used when the caller does not pick a prefix.
const DefaultKeyPrefix = "generated"

// cacheControl marks uploaded artifacts as immutable for a year. Keys are
// never reused, so long-lived caching is safe.
const cacheControl = "public, max-age=31536000"

// ErrUpload indicates the blob could not be stored. No URL is ever returned
// alongside it; a failed upload must not look like a published artifact.
var ErrUpload = errors.New("artifact upload failed")

// Config holds the storage connection settings.
type Config struct {
	Bucket    string // bucket name, required
	Region    string // region, default us-east-1
	Endpoint  string // custom endpoint for S3-compatible storage (MinIO etc.)
	AccessKey string // static access key (optional, falls back to default chain)
	SecretKey string // static secret key

	// PublicHost is the scheme+host public objects are served from,
	// e.g. "https://storage.example.com". Defaults to Endpoint.
	PublicHost string
}

// uploader is the slice of the S3 API the client needs. Narrowed for tests.
type uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Client uploads artifacts. Construct once at startup and share; the
// underlying S3 client is safe for concurrent use.
type Client struct {
	api        uploader
	bucket     string
	publicHost string
	logger     log.Logger
}

// New creates a storage client from the given configuration.
func New(ctx context.Context, cfg Config, logger log.Logger) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	if logger == nil {
		logger = log.NewNop()
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // required for MinIO-class storage
		})
	}

	publicHost := cfg.PublicHost
	if publicHost == "" {
		publicHost = cfg.Endpoint
	}

	logger.Info("storage client initialized",
		"bucket", cfg.Bucket,
		"region", region,
		"endpoint", cfg.Endpoint,
	)

	return &Client{
		api:        s3.NewFromConfig(awsCfg, s3Opts...),
		bucket:     cfg.Bucket,
		publicHost: publicHost,
		logger:     logger,
	}, nil
}

// Upload writes the blob under a fresh key {keyPrefix}/{uuid}.{ext}, marks
// it publicly readable with long-lived caching, and returns its public URL.
// Keys are unique per call, so uploads never overwrite each other and
// concurrent pipelines cannot collide.
func (c *Client) Upload(ctx context.Context, data []byte, contentType, keyPrefix string) (string, error) {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}

	key := objectKey(keyPrefix, contentType)

	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(c.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(cacheControl),
		ACL:          types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("%w: putting %s: %v", ErrUpload, key, err)
	}

	url := publicURL(c.publicHost, c.bucket, key)
	c.logger.Debug("artifact uploaded",
		"key", key,
		"content_type", contentType,
		"bytes", len(data),
	)
	return url, nil
}

// objectKey builds a globally unique object key for the given prefix.
func objectKey(prefix, contentType string) string {
	return strings.TrimSuffix(prefix, "/") + "/" + uuid.NewString() + "." + extForContentType(contentType)
}

// extForContentType maps the artifact content types this pipeline produces
// to file extensions.
func extForContentType(contentType string) string {
	switch contentType {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "video/mp4":
		return "mp4"
	default:
		return "bin"
	}
}

// publicURL derives the deterministic public URL of an uploaded object.
func publicURL(host, bucket, key string) string {
	return strings.TrimSuffix(host, "/") + "/" + bucket + "/" + key
}
