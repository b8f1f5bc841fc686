package services

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-co-op/gocron"

	"social-post-studio/internal/logger"
	"social-post-studio/internal/store"
)

// UploadsJanitor periodically deletes generated image files that are older
// than the retention window and not referenced by any persisted post.
// Unsaved generations and deleted posts leave files behind otherwise.
type UploadsJanitor struct {
	store        store.PostStore
	dir          string
	publicPrefix string
	retention    time.Duration
	scheduler    *gocron.Scheduler
}

func NewUploadsJanitor(postStore store.PostStore, dir, publicPrefix string, retention time.Duration) *UploadsJanitor {
	return &UploadsJanitor{
		store:        postStore,
		dir:          dir,
		publicPrefix: strings.TrimRight(publicPrefix, "/"),
		retention:    retention,
		scheduler:    gocron.NewScheduler(time.UTC),
	}
}

// Start schedules the hourly sweep.
func (j *UploadsJanitor) Start() error {
	if _, err := j.scheduler.Every(1).Hour().Do(j.Sweep); err != nil {
		return err
	}
	j.scheduler.StartAsync()
	return nil
}

func (j *UploadsJanitor) Stop() {
	j.scheduler.Stop()
}

// Sweep runs one cleanup pass.
func (j *UploadsJanitor) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	posts, err := j.store.List(ctx, "")
	if err != nil {
		logger.Warn("Uploads sweep skipped, failed to list posts", "error", err)
		return
	}

	referenced := make(map[string]bool, len(posts))
	for _, post := range posts {
		if strings.HasPrefix(post.ImageURL, j.publicPrefix+"/") {
			referenced[path.Base(post.ImageURL)] = true
		}
	}

	entries, err := os.ReadDir(j.dir)
	if err != nil {
		logger.Warn("Uploads sweep skipped, failed to read uploads dir", "dir", j.dir, "error", err)
		return
	}

	cutoff := time.Now().Add(-j.retention)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || referenced[entry.Name()] {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(j.dir, entry.Name())); err != nil {
			logger.Warn("Failed to remove stale upload", "file", entry.Name(), "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		logger.Info("Uploads sweep complete", "removed", removed)
	}
}
