// Package archive uploads backup files to S3 compatible object storage.
package archive

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"github.com/trezcool/homeschool/core"
)

const contentType = "application/json"

// objectStore is the part of *minio.Client the uploader uses.
type objectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64,
		opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type Uploader struct {
	client objectStore
	bucket string
	prefix string

	mu          sync.Mutex // guards bucketReady
	bucketReady bool
}

// New returns nil when no endpoint is configured.
func New(conf core.ArchiveConfig, appName string) (*Uploader, error) {
	if conf.Endpoint == "" {
		return nil, nil
	}
	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating archive client")
	}
	return &Uploader{client: client, bucket: conf.Bucket, prefix: prefixFor(appName)}, nil
}

func prefixFor(appName string) string {
	return strings.ReplaceAll(core.CleanString(appName, true /* lower */), " ", "-")
}

// objectName files backups per month, e.g. "homeschool-tracker/2025-09/homeschool-backup-2025-09-02.json".
// Backups of the same day share a name: the latest one wins.
func (u *Uploader) objectName(filename string) string {
	month := strings.TrimSuffix(strings.TrimPrefix(filename, "homeschool-backup-"), ".json")
	if len(month) >= 7 {
		month = month[:7]
	}
	return path.Join(u.prefix, month, filename)
}

// ensureBucket creates the bucket when missing. Only success is remembered:
// a failed check is retried by the next upload.
func (u *Uploader) ensureBucket(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.bucketReady {
		return nil
	}

	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err == nil && !exists {
		err = u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{})
	}
	if err != nil {
		return errors.Wrap(err, "ensuring bucket "+u.bucket)
	}
	u.bucketReady = true
	return nil
}

// Upload stores `data` under the object derived from `name`.
func (u *Uploader) Upload(ctx context.Context, name string, data []byte) error {
	if err := u.ensureBucket(ctx); err != nil {
		return err
	}
	_, err := u.client.PutObject(ctx, u.bucket, u.objectName(name), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	return errors.Wrap(err, "uploading "+name)
}
