// Package images manages the image-reference lists stored on orders:
// which previously stored references survive an update, and which freshly
// uploaded files are appended.
package images

import (
	"context"
	"strings"

	"tailorstudio/internal/logger"
)

// Update describes how an order's image list changes.
type Update struct {
	// Keep names the previously stored references to retain. Ignored when
	// KeepAll is set.
	Keep    []string
	KeepAll bool
	// Uploaded are new references, appended in upload order.
	Uploaded []string
}

// Apply returns the new list: retained references in their stored order,
// then uploaded ones. References named in Keep that were never stored are
// ignored. Files dropped from the list are left in the image store.
func (u Update) Apply(stored []string) []string {
	out := make([]string, 0, len(stored)+len(u.Uploaded))
	seen := make(map[string]bool, len(stored)+len(u.Uploaded))
	if u.KeepAll {
		for _, s := range stored {
			if !seen[s] {
				out = append(out, s)
				seen[s] = true
			}
		}
	} else {
		keep := make(map[string]bool, len(u.Keep))
		for _, k := range u.Keep {
			keep[strings.TrimSpace(k)] = true
		}
		for _, s := range stored {
			if keep[s] && !seen[s] {
				out = append(out, s)
				seen[s] = true
			}
		}
	}
	for _, s := range u.Uploaded {
		if s != "" && !seen[s] {
			out = append(out, s)
			seen[s] = true
		}
	}
	return out
}

type uploadRepo interface {
	URLs(ctx context.Context, correlationID string) ([]string, error)
	Release(ctx context.Context, correlationID string) error
}

// Resolver turns upload correlation ids into stored image URLs.
type Resolver struct {
	uploads uploadRepo
	logger  *logger.Logger
}

func NewResolver(uploads uploadRepo, log *logger.Logger) *Resolver {
	return &Resolver{uploads: uploads, logger: logger.OrNop(log).With("service", "images")}
}

// Uploaded returns the URLs registered under correlationID in upload order.
// An empty id yields no URLs.
func (r *Resolver) Uploaded(ctx context.Context, correlationID string) ([]string, error) {
	correlationID = strings.TrimSpace(correlationID)
	if correlationID == "" || r == nil || r.uploads == nil {
		return nil, nil
	}
	return r.uploads.URLs(ctx, correlationID)
}

// Release forgets the correlation ids once an order has claimed their URLs.
// Failures only leave stale registry rows, so they are logged, not returned.
func (r *Resolver) Release(ctx context.Context, correlationIDs ...string) {
	if r == nil || r.uploads == nil {
		return
	}
	for _, id := range correlationIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if err := r.uploads.Release(ctx, id); err != nil {
			r.logger.Warn("release upload", "uploadId", id, "error", err)
		}
	}
}
