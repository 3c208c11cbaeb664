// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pdiddy/utmconv/pkg/types"
)

// objectPutter is the subset of *minio.Client used for uploads.
type objectPutter interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Uploader stores exports in an S3-compatible bucket.
type Uploader struct {
	client objectPutter
	now    func() time.Time
}

// StorageConfig locates an S3-compatible endpoint.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// StorageConfigFromEnv reads MINIO_ENDPOINT, MINIO_ACCESS_KEY,
// MINIO_SECRET_KEY and MINIO_USE_SSL.
func StorageConfigFromEnv() StorageConfig {
	return StorageConfig{
		Endpoint:  os.Getenv("MINIO_ENDPOINT"),
		AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		SecretKey: os.Getenv("MINIO_SECRET_KEY"),
		UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
	}
}

// NewUploader connects to the endpoint in cfg.
func NewUploader(cfg StorageConfig) (*Uploader, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("missing one or more required settings: MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating object storage client: %w", err)
	}
	return newUploader(client), nil
}

func newUploader(client objectPutter) *Uploader {
	return &Uploader{client: client, now: time.Now}
}

// ObjectKey names an export object: exports/<timestamp>-<filename>.
func (u *Uploader) ObjectKey(format types.ExportFormat) string {
	ts := u.now().UTC().Format("20060102T150405Z")
	return path.Join("exports", ts+"-"+Filename(format))
}

// Upload serializes records in format and stores them in bucket, creating
// the bucket if needed. It returns the object key.
func (u *Uploader) Upload(ctx context.Context, bucket string, format types.ExportFormat, records []types.ConversionRecord, precision int) (string, error) {
	var buf bytes.Buffer
	if err := Write(&buf, format, records, precision); err != nil {
		return "", err
	}

	exists, err := u.client.BucketExists(ctx, bucket)
	if err != nil {
		return "", fmt.Errorf("checking bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := u.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("creating bucket %s: %w", bucket, err)
		}
	}

	key := u.ObjectKey(format)
	_, err = u.client.PutObject(ctx, bucket, key,
		bytes.NewReader(buf.Bytes()), int64(buf.Len()),
		minio.PutObjectOptions{ContentType: ContentType(format)},
	)
	if err != nil {
		return "", fmt.Errorf("storing %s in bucket %s: %w", key, bucket, err)
	}
	return key, nil
}
