package imagestore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS keeps images in a Cloud Storage bucket.
type GCS struct {
	client     *storage.Client
	bucket     string
	publicBase string
}

// NewGCS opens a storage client. credentialsFile may be empty to use
// application default credentials.
func NewGCS(ctx context.Context, bucket, credentialsFile, publicBase string) (*GCS, error) {
	if bucket == "" {
		return nil, fmt.Errorf("missing GCS bucket name")
	}
	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCS{client: client, bucket: bucket, publicBase: strings.TrimRight(publicBase, "/")}, nil
}

func (g *GCS) Save(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return g.PublicURL(key), nil
}

// PublicURL is the URL an object is served from.
func (g *GCS) PublicURL(key string) string {
	if g.publicBase != "" {
		return g.publicBase + "/" + key
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, key)
}

func (g *GCS) Close() error {
	return g.client.Close()
}
