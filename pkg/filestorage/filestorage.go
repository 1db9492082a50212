package filestorage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"equipment-portal/pkg/config"
)

// FileStorageInterface stores uploads under a prefix and returns the
// storage-relative key, e.g. "completion_photos/2026/02/20/2026-02-20-<uuid>.jpg".
type FileStorageInterface interface {
	Save(ctx context.Context, file io.Reader, originalFileName string, prefix string) (filePath string, err error)
	Delete(ctx context.Context, filePath string) error
}

// New picks the driver named by cfg.Driver.
func New(ctx context.Context, cfg config.FileStorageConfig, logger *zap.Logger) (FileStorageInterface, error) {
	switch cfg.Driver {
	case "", "local":
		logger.Info("file storage: local", zap.String("dir", cfg.UploadDir))
		return NewLocalFileStorage(cfg.UploadDir)
	case "s3":
		logger.Info("file storage: s3", zap.String("bucket", cfg.S3Bucket), zap.String("endpoint", cfg.S3Endpoint))
		return NewS3FileStorage(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown file storage driver %q", cfg.Driver)
	}
}

// objectKey builds a collision free key grouped by day.
func objectKey(prefix, originalFileName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(originalFileName))
	name := fmt.Sprintf("%s-%s%s", now.Format("2006-01-02"), uuid.New().String(), ext)
	return path.Join(prefix, now.Format("2006/01/02"), name)
}

// cleanKey rejects keys that would leave the storage root.
func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(key, "/uploads/")
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "/") {
		return "", fmt.Errorf("invalid file path %q", key)
	}
	return cleaned, nil
}
