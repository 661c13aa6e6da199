package publish

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/output"
)

// UploadTimeout bounds a single object upload
const UploadTimeout = 10 * time.Second

// DefaultThumbnailWidth is the preview width uploaded next to each render
const DefaultThumbnailWidth = 128

// S3Options describes an S3-compatible endpoint
type S3Options struct {
	AccessKey string
	SecretKey string
	Endpoint  string // Empty for AWS; set for MinIO, R2, Spaces and similar
	Region    string
	Bucket    string
	CDNURL    string // Public prefix for uploaded keys; empty returns bare keys
	Prefix    string // Key prefix, "renders" when empty
}

// S3Publisher uploads rendered images to an S3-compatible bucket
type S3Publisher struct {
	client s3iface.S3API
	bucket string
	cdnURL string
	prefix string
	logger core.Logger
}

// NewS3Client creates a path-style S3 client with static credentials
func NewS3Client(opts S3Options) (*s3.S3, error) {
	s3Config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(opts.AccessKey, opts.SecretKey, ""),
		Region:           aws.String(opts.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if opts.Endpoint != "" {
		s3Config.Endpoint = aws.String(opts.Endpoint)
	}

	sess, err := session.NewSession(s3Config)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}
	return s3.New(sess), nil
}

// NewS3Publisher creates a publisher over any S3 API implementation
func NewS3Publisher(client s3iface.S3API, opts S3Options, logger core.Logger) *S3Publisher {
	if logger == nil {
		logger = core.NopLogger{}
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "renders"
	}
	return &S3Publisher{
		client: client,
		bucket: opts.Bucket,
		cdnURL: strings.TrimSuffix(opts.CDNURL, "/"),
		prefix: prefix,
		logger: logger,
	}
}

// Upload stores data under key and returns its public URL
func (p *S3Publisher) Upload(ctx context.Context, data []byte, key, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	size := int64(len(data))
	_, err := p.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	p.logger.Printf("Uploaded %s to S3 (%d bytes)\n", key, size)
	return p.URL(key), nil
}

// URL returns the public location of key
func (p *S3Publisher) URL(key string) string {
	if p.cdnURL == "" {
		return key
	}
	return p.cdnURL + "/" + key
}

// PublishRender uploads the render as PNG plus a thumbnail of the given width.
// A zero thumbnail width skips the thumbnail. Returns the uploaded URLs.
func (p *S3Publisher) PublishRender(ctx context.Context, name string, img image.Image, thumbnailWidth uint) ([]string, error) {
	data, err := output.EncodePNG(img)
	if err != nil {
		return nil, err
	}

	url, err := p.Upload(ctx, data, path.Join(p.prefix, name+".png"), "image/png")
	if err != nil {
		return nil, err
	}
	urls := []string{url}

	if thumbnailWidth == 0 {
		return urls, nil
	}

	thumbData, err := output.EncodePNG(output.Thumbnail(img, thumbnailWidth))
	if err != nil {
		return urls, err
	}
	thumbURL, err := p.Upload(ctx, thumbData, path.Join(p.prefix, name+"_thumb.png"), "image/png")
	if err != nil {
		return urls, err
	}

	return append(urls, thumbURL), nil
}
