package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"tailorstudio/internal/domain"
	"tailorstudio/internal/logger"
)

// MaxFilesPerUpload bounds a single upload request.
const MaxFilesPerUpload = 10

type imageSaver interface {
	Save(ctx context.Context, r io.Reader) (string, error)
}

type uploadRegistry interface {
	Add(ctx context.Context, correlationID string, urls []string) error
}

// Intake stores uploaded files and registers their URLs under a
// correlation id, so a later order create or update can claim them.
type Intake struct {
	saver    imageSaver
	registry uploadRegistry
	logger   *logger.Logger
}

func NewIntake(saver imageSaver, registry uploadRegistry, log *logger.Logger) *Intake {
	return &Intake{saver: saver, registry: registry, logger: logger.OrNop(log).With("service", "uploads")}
}

// Accept saves files in order. An empty correlationID gets a fresh one.
// Repeated calls with the same id append.
func (i *Intake) Accept(ctx context.Context, correlationID string, files []io.Reader) (string, []string, error) {
	if len(files) == 0 {
		return "", nil, domain.NewValidationError("images", "at least one file is required")
	}
	if len(files) > MaxFilesPerUpload {
		return "", nil, domain.NewValidationError("images", fmt.Sprintf("at most %d files per upload", MaxFilesPerUpload))
	}
	correlationID = strings.TrimSpace(correlationID)
	if correlationID == "" {
		correlationID = uuid.NewString()
	} else if len(correlationID) > 128 {
		return "", nil, domain.NewValidationError("uploadId", "must be at most 128 characters")
	}

	urls := make([]string, 0, len(files))
	for n, f := range files {
		url, err := i.saver.Save(ctx, f)
		if err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				return "", nil, domain.NewValidationError(fmt.Sprintf("images[%d]", n), verr.Fields["images"])
			}
			return "", nil, fmt.Errorf("save image %d: %w", n, err)
		}
		urls = append(urls, url)
	}
	if err := i.registry.Add(ctx, correlationID, urls); err != nil {
		return "", nil, fmt.Errorf("register uploads: %w", err)
	}
	i.logger.Info("images uploaded", "uploadId", correlationID, "count", len(urls))
	return correlationID, urls, nil
}
