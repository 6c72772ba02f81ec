// Package media wraps the seller media-library endpoints with client-side
// checks on kind and size.
package media

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/angelmondragon/packfinderz-storefront/internal/apiclient"
	"github.com/angelmondragon/packfinderz-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
)

// MaxUploadBytes caps uploads client-side before any bytes hit the wire.
const MaxUploadBytes = 25 << 20

var allowedExtensions = map[string]enums.MediaKind{
	".jpg":  enums.MediaKindImage,
	".jpeg": enums.MediaKindImage,
	".png":  enums.MediaKindImage,
	".webp": enums.MediaKindImage,
	".gif":  enums.MediaKindImage,
	".mp4":  enums.MediaKindVideo,
	".webm": enums.MediaKindVideo,
}

// Library is the slice of the API client the service depends on.
type Library interface {
	ListMedia(ctx context.Context) ([]types.Media, error)
	UploadMedia(ctx context.Context, input apiclient.UploadMediaInput) (*types.Media, error)
	DeleteMedia(ctx context.Context, id string) error
}

// Service validates and forwards media-library operations.
type Service struct {
	api  Library
	logg *logger.Logger
}

// NewService builds the media service.
func NewService(api Library, logg *logger.Logger) (*Service, error) {
	if api == nil {
		return nil, fmt.Errorf("library client is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{api: api, logg: logg}, nil
}

// List returns the seller's media library.
func (s *Service) List(ctx context.Context) ([]types.Media, error) {
	return s.api.ListMedia(ctx)
}

// UploadInput is the client-side upload request.
type UploadInput struct {
	Filename  string
	SizeBytes int64
	Content   io.Reader
}

// Upload checks the extension and size, then streams the file.
func (s *Service) Upload(ctx context.Context, input UploadInput) (*types.Media, error) {
	kind, err := kindForFilename(input.Filename)
	if err != nil {
		return nil, err
	}
	if input.SizeBytes > MaxUploadBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"file": fmt.Sprintf("must be at most %d MB", MaxUploadBytes>>20)})
	}
	if input.Content == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"file": "is required"})
	}
	return s.api.UploadMedia(ctx, apiclient.UploadMediaInput{
		Filename: input.Filename,
		Kind:     kind.String(),
		Content:  input.Content,
	})
}

// Delete removes an asset from the library.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.api.DeleteMedia(ctx, id)
}

func kindForFilename(filename string) (enums.MediaKind, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	kind, ok := allowedExtensions[ext]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"file": "unsupported file type"})
	}
	return kind, nil
}
