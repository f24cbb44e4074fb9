package patslot

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used by S3Fetcher.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Fetcher reads templates from s3://bucket/key URLs.
type S3Fetcher struct {
	Client   S3API
	MaxBytes int64
}

// NewS3Fetcher creates an S3Fetcher from the default AWS configuration
// (environment, shared config files, instance roles).
func NewS3Fetcher(ctx context.Context) (*S3Fetcher, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return &S3Fetcher{Client: s3.NewFromConfig(cfg)}, nil
}

// FetchText implements Fetcher.
func (f *S3Fetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	bucket, key, err := parseS3URL(rawURL)
	if err != nil {
		return "", err
	}
	out, err := f.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", err
	}
	defer out.Body.Close()
	return readLimited(out.Body, f.MaxBytes)
}

func parseS3URL(rawURL string) (bucket, key string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("not an s3 URL: %q", rawURL)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("s3 URL has no object key: %q", rawURL)
	}
	return u.Host, key, nil
}

// FetcherFor returns DefaultFetcher with an S3Fetcher registered when rawURL
// is an s3:// URL, so AWS configuration is only loaded when needed.
func FetcherFor(ctx context.Context, rawURL string) (MuxFetcher, error) {
	f := DefaultFetcher()
	if schemeOf(rawURL) == "s3" {
		s3f, err := NewS3Fetcher(ctx)
		if err != nil {
			return nil, err
		}
		f["s3"] = s3f
	}
	return f, nil
}
