package gcs

import (
	"context"
	"fmt"
	"io"
	"log"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Client wraps Cloud Storage byte-level access
type Client struct {
	client *storage.Client
}

// NewClient creates a storage client using the provided credentials file
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	log.Println("[GCS] Client initialized successfully")
	return &Client{client: client}, nil
}

// Download reads the full contents of an object.
func (c *Client) Download(ctx context.Context, bucket, object string) ([]byte, error) {
	reader, err := c.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s/%s: %w", bucket, object, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", bucket, object, err)
	}
	return data, nil
}

// Upload writes data to an object, overwriting any existing contents.
func (c *Client) Upload(ctx context.Context, bucket, object string, data []byte, contentType string) error {
	writer := c.client.Bucket(bucket).Object(object).NewWriter(ctx)
	if contentType != "" {
		writer.ContentType = contentType
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write %s/%s: %w", bucket, object, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize %s/%s: %w", bucket, object, err)
	}
	return nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.client.Close()
}
