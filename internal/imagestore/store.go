// Package imagestore persists uploaded order images and hands back the
// public URL each one is served from.
package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"tailorstudio/internal/domain"
)

// Store writes an object under key and returns its public URL.
type Store interface {
	Save(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

const (
	defaultMaxDimension = 1600
	jpegQuality         = 85
)

// Normalizer re-encodes uploads as JPEG, honouring EXIF orientation and
// shrinking anything larger than MaxDimension on either side.
type Normalizer struct {
	MaxDimension int
}

// Normalize decodes r and returns the re-encoded JPEG bytes. Input that is
// not a decodable image is a validation error.
func (n Normalizer) Normalize(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, domain.NewValidationError("images", "must be a JPEG, PNG, GIF, BMP or TIFF image")
	}
	limit := n.MaxDimension
	if limit <= 0 {
		limit = defaultMaxDimension
	}
	b := img.Bounds()
	if b.Dx() > limit || b.Dy() > limit {
		img = imaging.Fit(img, limit, limit, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// Uploader normalizes images and saves them under unique keys.
type Uploader struct {
	store      Store
	normalizer Normalizer
	now        func() time.Time
}

func NewUploader(store Store, maxDimension int) *Uploader {
	return &Uploader{store: store, normalizer: Normalizer{MaxDimension: maxDimension}, now: time.Now}
}

// Save stores one image and returns its URL.
func (u *Uploader) Save(ctx context.Context, r io.Reader) (string, error) {
	data, err := u.normalizer.Normalize(r)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("orders/%s-%s.jpg", u.now().UTC().Format("20060102"), uuid.NewString())
	return u.store.Save(ctx, key, bytes.NewReader(data), "image/jpeg")
}
