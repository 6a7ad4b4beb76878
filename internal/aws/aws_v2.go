// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/tfctl/rpgdex/internal/log"
)

// Scheme is the URI scheme of S3 dataset locations.
const Scheme = "s3"

// ErrObjectNotFound is returned when the requested object does not exist.
var ErrObjectNotFound = errors.New("object not found")

// ObjectAPI is the part of the S3 client used to fetch datasets.
type ObjectAPI interface {
	HeadObject(ctx context.Context, in *s3v2.HeadObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
}

// options holds optional overrides for AWS config loading.
type options struct {
	profile string
	region  string
	retryer func() awsv2.Retryer
}

// Option customizes how AWS config is loaded.
// Default behavior (no options) inherits the shell environment and shared
// config chain (AWS_PROFILE, ~/.aws/config, ~/.aws/credentials, IMDS, etc.).
type Option func(*options)

// LoadAWSConfig loads AWS SDK v2 config. Options can override profile, region
// and retryer.
func LoadAWSConfig(ctx context.Context, opts ...Option) (awsv2.Config, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	log.Debugf("aws opts: profile=%s, region=%s", o.profile, o.region)

	var loadOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	if o.retryer != nil {
		loadOpts = append(loadOpts, config.WithRetryer(o.retryer))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return awsv2.Config{}, fmt.Errorf("loading aws config: %w", err)
	}
	return cfg, nil
}

// NewS3 constructs a v2 S3 client from the provided config.
func NewS3(cfg awsv2.Config, optFns ...func(*s3v2.Options)) *s3v2.Client {
	return s3v2.NewFromConfig(cfg, optFns...)
}

// WithProfile sets the shared config profile.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion sets the region override.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithRetryer injects a custom retryer; if not set, SDK defaults are used.
func WithRetryer(newRetryer func() awsv2.Retryer) Option {
	return func(o *options) { o.retryer = newRetryer }
}

// WithS3Endpoint points the client at an S3-compatible endpoint such as
// MinIO, using path-style addressing.
func WithS3Endpoint(endpoint string) func(*s3v2.Options) {
	return func(o *s3v2.Options) {
		if endpoint == "" {
			return
		}
		o.BaseEndpoint = awsv2.String(endpoint)
		o.UsePathStyle = true
	}
}

// ParseURI splits s3://bucket/prefix into bucket and prefix. The prefix has
// no leading or trailing slash.
func ParseURI(uri string) (bucket, prefix string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 location %q: %w", uri, err)
	}
	if u.Scheme != Scheme || u.Host == "" {
		return "", "", fmt.Errorf("invalid s3 location %q: want s3://bucket[/prefix]", uri)
	}
	return u.Host, strings.Trim(u.Path, "/"), nil
}

// IsURI reports whether location is an s3:// URI.
func IsURI(location string) bool {
	return strings.HasPrefix(location, Scheme+"://")
}

// ObjectKey joins a prefix and file name into an object key.
func ObjectKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// ETag returns the object's ETag without quotes. A missing object yields
// ErrObjectNotFound.
func ETag(ctx context.Context, api ObjectAPI, bucket, key string) (string, error) {
	out, err := api.HeadObject(ctx, &s3v2.HeadObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		return "", wrapNotFound(err, bucket, key)
	}
	return strings.Trim(awsv2.ToString(out.ETag), `"`), nil
}

// GetObject downloads the full object body.
func GetObject(ctx context.Context, api ObjectAPI, bucket, key string) ([]byte, error) {
	out, err := api.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		return nil, wrapNotFound(err, bucket, key)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading s3://%s/%s: %w", bucket, key, err)
	}
	log.Debugf("s3 get: bucket=%s, key=%s, bytes=%d", bucket, key, len(body))
	return body, nil
}

func wrapNotFound(err error, bucket, key string) error {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return fmt.Errorf("s3://%s/%s: %w", bucket, key, ErrObjectNotFound)
	}
	return fmt.Errorf("s3://%s/%s: %w", bucket, key, err)
}
