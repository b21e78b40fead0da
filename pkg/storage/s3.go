package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/scriptmark-labs/scriptmark/pkg/lifecycle"
)

type s3 struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

func newS3(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &s3{
		client: client,
		bucket: cfg.ContainerName,
		logger: logger.With("system", "storage", "provider", ProviderS3),
	}, nil
}

func (s *s3) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting storage system")

	lc.OnStartup(func() {
		exists, err := s.client.BucketExists(lc.Context(), s.bucket)
		if err != nil {
			s.logger.Error("storage bucket check failed", "error", err)
			return
		}

		if !exists {
			if err := s.client.MakeBucket(lc.Context(), s.bucket, minio.MakeBucketOptions{}); err != nil {
				s.logger.Error("storage bucket initialization failed", "error", err)
				return
			}
		}

		s.logger.Info("storage bucket ready", "bucket", s.bucket)
	})

	return nil
}

func (s *s3) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, reader, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("upload object %s: %w", key, err)
	}

	return nil
}

func (s *s3) Download(ctx context.Context, key string) (*DownloadResult, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("download object %s: %w", key, err)
	}

	// GetObject is lazy; Stat forces the request and surfaces missing keys.
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		if isNoSuchKey(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download object %s: %w", key, err)
	}

	return &DownloadResult{
		Body:          obj,
		ContentType:   info.ContentType,
		ContentLength: info.Size,
	}, nil
}

func (s *s3) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete object %s: %w", key, err)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}

	return nil
}

func (s *s3) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("check object existence %s: %w", key, err)
	}

	return true, nil
}

func (s *s3) Find(ctx context.Context, key string) (*Object, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get object properties %s: %w", key, err)
	}

	return &Object{
		Key:           key,
		ContentType:   info.ContentType,
		ContentLength: info.Size,
		LastModified:  info.LastModified,
	}, nil
}

func (s *s3) List(ctx context.Context, prefix, marker string, maxResults int32) (*ListResult, error) {
	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	objects := s.client.ListObjects(listCtx, s.bucket, minio.ListObjectsOptions{
		Prefix:     prefix,
		Recursive:  true,
		StartAfter: marker,
	})

	result := &ListResult{Objects: make([]Object, 0, maxResults)}

	for info := range objects {
		if info.Err != nil {
			return nil, fmt.Errorf("list objects: %w", info.Err)
		}

		result.Objects = append(result.Objects, Object{
			Key:           info.Key,
			ContentType:   info.ContentType,
			ContentLength: info.Size,
			LastModified:  info.LastModified,
		})

		if int32(len(result.Objects)) >= maxResults {
			result.NextMarker = info.Key
			break
		}
	}

	return result, nil
}

func isNoSuchKey(err error) bool {
	var respErr minio.ErrorResponse
	if errors.As(err, &respErr) {
		return respErr.Code == "NoSuchKey" || respErr.Code == "NotFound"
	}
	return false
}
