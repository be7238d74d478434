package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/JaimeStill/facturas/pkg/lifecycle"
)

type s3 struct {
	client *minio.Client
	logger *slog.Logger
}

func newS3(cfg *Config, logger *slog.Logger) (System, error) {
	var missing []string
	if cfg.Endpoint == "" {
		missing = append(missing, "endpoint")
	}
	if cfg.AccessKey == "" {
		missing = append(missing, "access_key")
	}
	if cfg.SecretKey == "" {
		missing = append(missing, "secret_key")
	}
	if len(missing) > 0 {
		return notConfigured(logger, missing...), nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.SSL(),
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &s3{client: client, logger: logger}, nil
}

func (s *s3) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("storage ready", "endpoint", s.client.EndpointURL().String())
	return nil
}

func (s *s3) Download(ctx context.Context, bucket, key string) (*Object, error) {
	if err := validateKey(bucket, key); err != nil {
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.mapError(bucket, key, err)
	}

	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, s.mapError(bucket, key, err)
	}

	return &Object{
		Body:          obj,
		ContentType:   info.ContentType,
		ContentLength: info.Size,
	}, nil
}

func (s *s3) mapError(bucket, key string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, key)
	}
	return fmt.Errorf("download object %s/%s: %w", bucket, key, err)
}
