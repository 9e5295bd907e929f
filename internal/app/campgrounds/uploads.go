package campgrounds

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/google/uuid"

	domaincampground "trailblaze/internal/domain/campground"
	"trailblaze/internal/infra/storage/s3"
)

var (
	// ErrGeocode marks a geocoding gateway failure; nothing is persisted when
	// it occurs.
	ErrGeocode = errors.New("campgrounds: geocoding failed")
	// ErrPhotoStore marks an object storage failure during upload.
	ErrPhotoStore = errors.New("campgrounds: photo upload failed")
)

// PhotoUpload carries one inbound photo binary through the command bus.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// storePhotos uploads each binary in order, returning embedded photo values
// with the locator/URL pair the gateway handed back. On any failure the
// already-stored objects are removed best-effort and the whole batch fails.
func storePhotos(ctx context.Context, storage s3.Storage, id domaincampground.ID, uploads []PhotoUpload, logger *slog.Logger) ([]domaincampground.Photo, error) {
	if len(uploads) == 0 {
		return nil, nil
	}
	if storage == nil {
		return nil, fmt.Errorf("%w: storage gateway unavailable", ErrPhotoStore)
	}
	photos := make([]domaincampground.Photo, 0, len(uploads))
	for _, upload := range uploads {
		key := objectKey(id, upload.Filename)
		obj, err := storage.Store(ctx, key, upload.Reader, upload.ContentType)
		if err != nil {
			discardPhotos(ctx, storage, photos, logger)
			return nil, fmt.Errorf("%w: %s: %w", ErrPhotoStore, upload.Filename, err)
		}
		photos = append(photos, domaincampground.Photo{Filename: obj.Key, URL: obj.URL})
	}
	return photos, nil
}

// discardPhotos is best-effort cleanup; failures are logged, not surfaced.
func discardPhotos(ctx context.Context, storage s3.Storage, photos []domaincampground.Photo, logger *slog.Logger) {
	if storage == nil {
		return
	}
	for _, photo := range photos {
		if err := storage.Remove(ctx, photo.Filename); err != nil && logger != nil {
			logger.Warn("orphaned photo object left in storage", "key", photo.Filename, "error", err)
		}
	}
}

func objectKey(id domaincampground.ID, original string) string {
	return fmt.Sprintf("campgrounds/%s/%s%s", id, uuid.NewString(), path.Ext(original))
}
