package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var contentTypes = map[string]string{
	".json": "application/json",
	".csv":  "text/csv",
}

// S3Uploader store the export reports in one bucket
type S3Uploader struct {
	uploader *manager.Uploader
	bucket   string
}

func NewS3Uploader(s3UploadClient manager.UploadAPIClient, bucket string) (S3Uploader, error) {
	if s3UploadClient == nil {
		return S3Uploader{}, errors.New("s3 upload client nil")
	}
	if bucket == "" {
		return S3Uploader{}, errors.New("export bucket is empty")
	}
	return S3Uploader{
		uploader: manager.NewUploader(s3UploadClient),
		bucket:   bucket,
	}, nil
}

func contentType(key string) string {
	if value, found := contentTypes[path.Ext(key)]; found {
		return value
	}
	return "application/octet-stream"
}

// Upload buffer under key, the content type follows the key extension
func (u S3Uploader) Upload(ctx context.Context, key string, buffer *bytes.Buffer) error {
	_, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        buffer,
		ContentType: aws.String(contentType(key)),
	})
	if err != nil {
		return fmt.Errorf("upload failed key=[%s], bucket=[%s]: %w", key, u.bucket, err)
	}
	return nil
}
