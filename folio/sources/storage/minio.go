package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"folio/folio/config"
	"folio/folio/utils/logging"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const assetPrefix = "assets"

var (
	ErrAssetNotFound = errors.New("asset not found")
	ErrInvalidName   = errors.New("invalid asset name")
)

// Asset describes a stored object.
type Asset struct {
	Name         string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}

// AssetStore keeps site files such as the résumé PDF in a MinIO bucket.
type AssetStore struct {
	client *minio.Client
	bucket string
}

func NewAssetStore(ctx context.Context, cfg config.Config) (*AssetStore, error) {
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: cfg.MinIOSecure,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.MinIOBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.MinIOBucket, err)
		}
		logging.AppLogger.Info("Created asset bucket", zap.String("bucket", cfg.MinIOBucket))
	}
	return newAssetStore(client, cfg.MinIOBucket), nil
}

func newAssetStore(client *minio.Client, bucket string) *AssetStore {
	return &AssetStore{client: client, bucket: bucket}
}

// objectKey maps a public asset name to its bucket key. Names may contain
// sub-directories but never escape the asset prefix.
func objectKey(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, "..") || strings.HasPrefix(name, "/") {
		return "", ErrInvalidName
	}
	return path.Join(assetPrefix, path.Clean(name)), nil
}

// Open returns a reader for the named asset. The caller closes it.
func (s *AssetStore) Open(ctx context.Context, name string) (io.ReadCloser, Asset, error) {
	key, err := objectKey(name)
	if err != nil {
		return nil, Asset{}, err
	}

	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, Asset{}, ErrAssetNotFound
		}
		return nil, Asset{}, fmt.Errorf("failed to stat %s: %w", key, err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, Asset{}, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return obj, Asset{
		Name:         name,
		Size:         info.Size,
		ContentType:  info.ContentType,
		ETag:         info.ETag,
		LastModified: info.LastModified,
	}, nil
}

// Put uploads r under name. size may be -1 when unknown.
func (s *AssetStore) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (Asset, error) {
	key, err := objectKey(name)
	if err != nil {
		return Asset{}, err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return Asset{}, fmt.Errorf("failed to upload %s: %w", key, err)
	}
	logging.AppLogger.Info("Uploaded asset",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int64("size", info.Size),
	)
	return Asset{
		Name:         name,
		Size:         info.Size,
		ContentType:  contentType,
		ETag:         info.ETag,
		LastModified: info.LastModified,
	}, nil
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}
