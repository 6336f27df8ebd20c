// Package storage hosts uploaded images (profile pictures and message
// attachments) in an S3-compatible object store. Clients submit images as
// base64 data URIs; the store decodes them, writes the object, and hands back
// a public URL that gets persisted on the user or message document.
package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config captures the object store settings.
type Config struct {
	Bucket        string
	Region        string
	Endpoint      string // non-empty for MinIO or another S3-compatible store
	AccessKey     string
	SecretKey     string
	PublicBaseURL string // base URL objects are readable from
}

type ImageStore struct {
	client *s3.Client
	bucket string
	base   string
	log    zerolog.Logger
}

// NewImageStore builds the S3 client and returns the store.
func NewImageStore(ctx context.Context, cfg Config, log zerolog.Logger) (*ImageStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	base := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &ImageStore{client: client, bucket: cfg.Bucket, base: base, log: log}, nil
}

// Upload decodes a base64 data URI, writes it under a date-sharded key, and
// returns the object's public URL.
func (s *ImageStore) Upload(ctx context.Context, dataURI string) (string, error) {
	contentType, data, err := decodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	key := storageKey(contentType)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	url := s.base + "/" + key
	s.log.Debug().Str("key", key).Int("bytes", len(data)).Msg("image uploaded")
	return url, nil
}

// decodeDataURI splits "data:image/png;base64,..." into content type and raw
// bytes. Bare base64 without a data: prefix is accepted as image/jpeg.
func decodeDataURI(uri string) (string, []byte, error) {
	contentType := "image/jpeg"
	payload := uri
	if strings.HasPrefix(uri, "data:") {
		meta, rest, ok := strings.Cut(uri[len("data:"):], ",")
		if !ok {
			return "", nil, fmt.Errorf("malformed data uri")
		}
		contentType = strings.TrimSuffix(meta, ";base64")
		payload = rest
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode image: %w", err)
	}
	return contentType, data, nil
}

func storageKey(contentType string) string {
	ext := "jpg"
	if _, sub, ok := strings.Cut(contentType, "/"); ok && sub != "" {
		ext = sub
	}
	d := time.Now().UTC()
	return fmt.Sprintf("uploads/%d/%02d/%02d/%s.%s", d.Year(), d.Month(), d.Day(), uuid.NewString(), ext)
}
