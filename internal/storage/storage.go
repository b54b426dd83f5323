// Package storage hosts submitted media in an S3-compatible object store.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
	"github.com/shopsetu/checklist/config"
)

// Kind distinguishes image and video objects. Some backends store them under
// different resource types, so deletion callers must say which they mean.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// MediaStorage is the object-store contract used by the intake pipeline and
// the deletion cascades.
type MediaStorage interface {
	// Upload stores data under a fresh name inside folder and returns the
	// hosted URL.
	Upload(ctx context.Context, data []byte, contentType string, folder string) (string, error)
	// Delete removes the object a previous Upload returned rawURL for.
	Delete(ctx context.Context, rawURL string, kind Kind) error
}

var extensionByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"video/mp4":  ".mp4",
}

type MinioStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinioStorage(cfg *config.Config) (MediaStorage, error) {
	client, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}

	exists, err := client.BucketExists(context.Background(), cfg.Minio.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), cfg.Minio.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	publicURL := cfg.Minio.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.Minio.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.Minio.Endpoint
	}

	return &MinioStorage{
		client:    client,
		bucket:    cfg.Minio.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (s *MinioStorage) Upload(ctx context.Context, data []byte, contentType string, folder string) (string, error) {
	objectKey := strings.Trim(folder, "/") + "/" + uuid.NewString() + extensionByContentType[contentType]

	_, err := s.client.PutObject(ctx,
		s.bucket,
		objectKey,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		resp := minio.ToErrorResponse(err)
		log.Error().Int("code", resp.StatusCode).Str("msg", resp.Message).Str("object", objectKey).Msg("Upload to minio failed")
		return "", err
	}

	return s.publicURL + "/" + s.bucket + "/" + objectKey, nil
}

func (s *MinioStorage) Delete(ctx context.Context, rawURL string, kind Kind) error {
	objectKey, err := ObjectKeyFromURL(rawURL, s.bucket)
	if err != nil {
		return err
	}
	return s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
}

// ObjectKeyFromURL recovers the object key from a hosted-media URL, stripping
// the bucket segment when the URL is path-style.
func ObjectKeyFromURL(rawURL string, bucket string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid media URL %q: %w", rawURL, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if bucket != "" {
		key = strings.TrimPrefix(key, bucket+"/")
	}
	if key == "" {
		return "", fmt.Errorf("media URL %q has no object key", rawURL)
	}
	return key, nil
}
