// Copyright (c) 2026 Aloud. All rights reserved.
// Author: dev@aloud.app

/*
Package objectstore provides S3-compatible binary storage for book assets.

Book PDFs and cover images are opaque blobs from the core's point of view:
ingestion only records the returned URL and storage key on the book record.
The implementation targets MinIO but works against any S3-compatible
endpoint.
*/
package objectstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const bucketProbeTimeout = 5 * time.Second

// Upload is the result of storing one binary asset.
type Upload struct {
	// URL is the public address of the stored object.
	URL string
	// StorageKey is the bucket-relative key, kept for later deletion.
	StorageKey string
}

// Uploader stores and removes binary assets.
//
// The ingestion flow uploads before creating the book record; Remove exists
// so a failed ingestion can release the orphaned blobs.
type Uploader interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*Upload, error)
	Remove(ctx context.Context, key string) error
}

// MinioStore implements [Uploader] against a MinIO/S3-compatible endpoint.
type MinioStore struct {
	client *minio.Client
	bucket string
	public string
}

// Options configures a [MinioStore].
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// NewMinioStore connects to the object storage endpoint and ensures the
// bucket exists.
func NewMinioStore(ctx context.Context, opts Options, logger *slog.Logger) (*MinioStore, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("objectstore: init client: %w", err)
	}

	probeCtx, cancel := context.WithTimeout(ctx, bucketProbeTimeout)
	defer cancel()

	exists, err := client.BucketExists(probeCtx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("objectstore: check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(probeCtx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("objectstore: create bucket: %w", err)
		}
	}

	scheme := "http"
	if opts.UseSSL {
		scheme = "https"
	}

	logger.Info("object store connected",
		slog.String("endpoint", opts.Endpoint),
		slog.String("bucket", opts.Bucket),
	)

	return &MinioStore{
		client: client,
		bucket: opts.Bucket,
		public: fmt.Sprintf("%s://%s/%s", scheme, opts.Endpoint, opts.Bucket),
	}, nil
}

// Put uploads an object and returns its public URL and storage key.
func (store *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*Upload, error) {
	_, err := store.client.PutObject(ctx, store.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("objectstore: put %q: %w", key, err)
	}

	return &Upload{
		URL:        store.public + "/" + url.PathEscape(key),
		StorageKey: key,
	}, nil
}

// Ping probes the bucket, confirming the endpoint is reachable. Used by the
// readiness check.
func (store *MinioStore) Ping(ctx context.Context) error {
	if _, err := store.client.BucketExists(ctx, store.bucket); err != nil {
		return fmt.Errorf("objectstore: ping: %w", err)
	}
	return nil
}

// Remove deletes an object. Removing a missing object is not an error.
func (store *MinioStore) Remove(ctx context.Context, key string) error {
	if err := store.client.RemoveObject(ctx, store.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("objectstore: remove %q: %w", key, err)
	}
	return nil
}
