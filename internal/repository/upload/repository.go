package upload

import "context"

// Repository links stored image URLs to the client-generated correlation id
// they were uploaded under, until an order claims them.
type Repository interface {
	Add(ctx context.Context, correlationID string, urls []string) error
	// URLs returns the URLs for correlationID in upload order.
	URLs(ctx context.Context, correlationID string) ([]string, error)
	Release(ctx context.Context, correlationID string) error
}
