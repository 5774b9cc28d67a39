package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"staynest/pkg/logger"
)

const publicHost = "https://storage.googleapis.com"

// CloudStorageClient hosts listing images in a public GCS bucket.
type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

func NewCloudStorageClient(ctx context.Context, bucketName string, opts ...option.ClientOption) (*CloudStorageClient, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	c := &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}
	if err := c.setBucketCORS(ctx); err != nil {
		logger.Get().Warn("failed to set bucket CORS", zap.String("bucket", bucketName), zap.Error(err))
	}
	return c, nil
}

func (c *CloudStorageClient) setBucketCORS(ctx context.Context) error {
	bucket := c.client.Bucket(c.bucketName)

	attrs, err := bucket.Attrs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bucket attributes: %v", err)
	}
	if len(attrs.CORS) > 0 {
		return nil
	}

	_, err = bucket.Update(ctx, storage.BucketAttrsToUpdate{
		CORS: []storage.CORS{{
			MaxAge:          3600,
			Methods:         []string{"GET", "HEAD"},
			Origins:         []string{"*"},
			ResponseHeaders: []string{"Content-Type"},
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to update bucket CORS: %v", err)
	}
	return nil
}

// UploadImage writes the object and makes it publicly readable.
func (c *CloudStorageClient) UploadImage(ctx context.Context, folder, filename, contentType string, body io.Reader) (string, error) {
	name := path.Join("public", folder, filename)

	obj := c.client.Bucket(c.bucketName).Object(name)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(wc, body); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("failed to copy file to GCS: %v", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %v", err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return "", fmt.Errorf("failed to set ACL: %v", err)
	}
	return PublicURL(c.bucketName, name), nil
}

func PublicURL(bucket, object string) string {
	return fmt.Sprintf("%s/%s/%s", publicHost, bucket, object)
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}
