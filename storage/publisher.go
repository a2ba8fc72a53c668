// Package storage publishes generated model files to S3-compatible object
// storage and derives publicly resolvable URLs for them.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/lunavein/tripo-relay-go/tool"
	"github.com/lunavein/tripo-relay-go/types"
)

// ModelExt is the one output file type the publisher relays; everything else
// a task produces (renders, previews) stays local.
const ModelExt = ".glb"

const modelContentType = "model/gltf-binary"

// Publisher uploads model files and hands back public URLs, in input order.
type Publisher struct {
	client        *s3.Client
	bucket        string
	region        string
	publicBaseURL string
}

// NewPublisher builds a Publisher from the storage config, using the SDK
// default credential chain. A non-empty endpoint switches to path-style
// addressing for S3-compatible stores.
func NewPublisher(ctx context.Context, cfg types.StorageConfig, bucket string) (*Publisher, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewPublisherWithClient(client, bucket, cfg.Region, cfg.PublicBaseURL), nil
}

// NewPublisherWithClient wires a Publisher around an existing S3 client.
func NewPublisherWithClient(client *s3.Client, bucket, region, publicBaseURL string) *Publisher {
	return &Publisher{
		client:        client,
		bucket:        bucket,
		region:        region,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

// PublishModels uploads every qualifying model file and returns one public URL
// per uploaded file, order matching input order. The first failed upload
// aborts the remaining batch.
func (p *Publisher) PublishModels(ctx context.Context, localPaths []string) ([]string, error) {
	now := time.Now().Unix()
	urls := make([]string, 0, len(localPaths))

	for _, localPath := range FilterModelFiles(localPaths) {
		key := DeriveKey(now, localPath)
		if err := p.uploadFile(ctx, localPath, key); err != nil {
			return nil, fmt.Errorf("publish %s: %w", filepath.Base(localPath), err)
		}
		url := p.publicURL(key)
		tool.DefaultLogger.Infof("[Storage] Published %s -> %s", filepath.Base(localPath), url)
		urls = append(urls, url)
	}
	return urls, nil
}

func (p *Publisher) uploadFile(ctx context.Context, localPath, key string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open model file: %w", err)
	}
	defer f.Close()

	contentType := modelContentType
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &p.bucket,
		Key:         &key,
		Body:        f,
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

func (p *Publisher) publicURL(key string) string {
	if p.publicBaseURL != "" {
		return p.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.bucket, p.region, key)
}

// FilterModelFiles keeps only relayable model files, preserving order.
func FilterModelFiles(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.EqualFold(filepath.Ext(p), ModelExt) {
			out = append(out, p)
		}
	}
	return out
}

// DeriveKey builds the time-namespaced destination key for one model file.
// The coarse timestamp prefix keeps runs from colliding on identical names.
func DeriveKey(unixSeconds int64, localPath string) string {
	return fmt.Sprintf("models/%d_%s", unixSeconds, filepath.Base(localPath))
}
