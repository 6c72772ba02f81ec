package media

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/angelmondragon/packfinderz-storefront/internal/apiclient"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
)

type stubLibrary struct {
	uploadCalls int
	uploaded    apiclient.UploadMediaInput
	deleted     string
}

func (s *stubLibrary) ListMedia(ctx context.Context) ([]types.Media, error) {
	return []types.Media{{ID: "m-1"}}, nil
}

func (s *stubLibrary) UploadMedia(ctx context.Context, input apiclient.UploadMediaInput) (*types.Media, error) {
	s.uploadCalls++
	s.uploaded = input
	return &types.Media{ID: "m-new", Filename: input.Filename}, nil
}

func (s *stubLibrary) DeleteMedia(ctx context.Context, id string) error {
	s.deleted = id
	return nil
}

func newTestService(t *testing.T, lib Library) *Service {
	t.Helper()
	svc, err := NewService(lib, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestUploadSetsKindFromExtension(t *testing.T) {
	t.Parallel()

	lib := &stubLibrary{}
	svc := newTestService(t, lib)

	asset, err := svc.Upload(context.Background(), UploadInput{
		Filename:  "hero-shot.PNG",
		SizeBytes: 1024,
		Content:   strings.NewReader("png-bytes"),
	})
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if asset.ID != "m-new" {
		t.Fatalf("unexpected asset id %q", asset.ID)
	}
	if lib.uploaded.Kind != "image" {
		t.Fatalf("expected kind image, got %q", lib.uploaded.Kind)
	}

	if _, err := svc.Upload(context.Background(), UploadInput{
		Filename:  "clip.webm",
		SizeBytes: 1024,
		Content:   strings.NewReader("webm-bytes"),
	}); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if lib.uploaded.Kind != "video" {
		t.Fatalf("expected kind video, got %q", lib.uploaded.Kind)
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	t.Parallel()

	lib := &stubLibrary{}
	svc := newTestService(t, lib)

	_, err := svc.Upload(context.Background(), UploadInput{
		Filename:  "invoice.pdf",
		SizeBytes: 1024,
		Content:   strings.NewReader("pdf-bytes"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if lib.uploadCalls != 0 {
		t.Fatalf("expected no upload call, got %d", lib.uploadCalls)
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	t.Parallel()

	lib := &stubLibrary{}
	svc := newTestService(t, lib)

	_, err := svc.Upload(context.Background(), UploadInput{
		Filename:  "huge.mp4",
		SizeBytes: MaxUploadBytes + 1,
		Content:   strings.NewReader("mp4-bytes"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if lib.uploadCalls != 0 {
		t.Fatalf("expected no upload call, got %d", lib.uploadCalls)
	}
}

func TestDeleteForwardsID(t *testing.T) {
	t.Parallel()

	lib := &stubLibrary{}
	svc := newTestService(t, lib)

	if err := svc.Delete(context.Background(), "m-9"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if lib.deleted != "m-9" {
		t.Fatalf("expected delete of m-9, got %q", lib.deleted)
	}
}
