package web

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AnubhawM/roi-calculator/config"

	"go.uber.org/zap"
)

// CleanupService removes upload directories for sessions that have gone
// quiet. Uploads are scratch inputs for a calculation, not documents of
// record, so anything past the retention window is deleted outright.
type CleanupService struct {
	uploadDir string
	logger    *zap.Logger
}

// NewCleanupService creates a new cleanup service instance
func NewCleanupService(uploadDir string, logger *zap.Logger) *CleanupService {
	return &CleanupService{
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// CleanupStaleUploads deletes per-session upload directories whose contents
// have not changed since the cutoff. Returns the number of directories
// deleted and any error encountered.
func (cs *CleanupService) CleanupStaleUploads(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoffTime := time.Now().Add(-maxAge)

	entries, err := os.ReadDir(cs.uploadDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read upload directory: %w", err)
	}

	deletedCount := 0
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return deletedCount, ctx.Err()
		default:
		}

		if !entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			cs.logger.Warn("Could not stat upload directory",
				zap.String("dir", entry.Name()),
				zap.Error(err))
			continue
		}
		if info.ModTime().After(cutoffTime) {
			continue
		}

		path := filepath.Join(cs.uploadDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			cs.logger.Error("Failed to delete stale upload directory",
				zap.Error(err),
				zap.String("path", path))
			// Continue with other directories even if one fails
			continue
		}
		deletedCount++
		cs.logger.Debug("Upload directory deleted",
			zap.String("path", path),
			zap.String("session_id", entry.Name()))
	}

	if deletedCount > 0 {
		cs.logger.Info("Stale upload cleanup completed",
			zap.Int("directories_deleted", deletedCount),
			zap.Time("cutoff_time", cutoffTime))
	}
	return deletedCount, nil
}

// StartUploadCleanup runs the cleanup service on a fixed interval until the
// context is cancelled.
func StartUploadCleanup(ctx context.Context, cfg *config.Config, cleanup *CleanupService, logger *zap.Logger) {
	ticker := time.NewTicker(cfg.CleanupInterval)
	defer ticker.Stop()

	logger.Info("Upload cleanup routine started",
		zap.Duration("interval", cfg.CleanupInterval),
		zap.Duration("retention", cfg.UploadRetention))

	for {
		select {
		case <-ctx.Done():
			logger.Info("Upload cleanup routine stopped")
			return
		case <-ticker.C:
			if _, err := cleanup.CleanupStaleUploads(ctx, cfg.UploadRetention); err != nil && ctx.Err() == nil {
				logger.Error("Upload cleanup run failed", zap.Error(err))
			}
		}
	}
}
