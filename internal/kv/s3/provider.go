package s3

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/MrSnakeDoc/cookbook/internal/kv"
	"github.com/MrSnakeDoc/cookbook/internal/utils"
)

// API is the subset of the S3 client the provider uses.
type API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Provider stores each key as one object under a prefix in a bucket.
//
// S3 offers no compare-and-swap here, so Provider does not implement
// kv.Updater and concurrent writers can overwrite each other.
type Provider struct {
	api    API
	bucket string
	prefix string
}

// NewProvider wraps an existing client.
func NewProvider(api API, bucket, prefix string) *Provider {
	return &Provider{api: api, bucket: bucket, prefix: prefix}
}

// NewFromEnv loads the default AWS config chain (env, shared files, IMDS).
func NewFromEnv(ctx context.Context, region, bucket, prefix string) (*Provider, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, kv.Unavailable("s3 load config", err)
	}
	return NewProvider(s3.NewFromConfig(cfg), bucket, prefix), nil
}

// ObjectKey returns the object key used for a provider key.
func (p *Provider) ObjectKey(key string) string {
	return path.Join(p.prefix, key+".json")
}

func (p *Provider) Get(ctx context.Context, key string) (string, bool, error) {
	resp, err := p.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(p.ObjectKey(key)),
	})
	if err != nil {
		if isNotFound(err) {
			return "", false, nil
		}
		return "", false, kv.Unavailable("s3 get", err)
	}
	defer utils.Close(resp.Body)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, kv.Unavailable("s3 read body", err)
	}
	return string(data), true, nil
}

func (p *Provider) Set(ctx context.Context, key, value string) error {
	_, err := p.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(p.ObjectKey(key)),
		Body:        strings.NewReader(value),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return kv.Unavailable("s3 put", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	return errors.As(err, &nf)
}
