package util

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// VideoPatterns are the globs matched by FindVideos.
var VideoPatterns = []string{"*.mp4", "*.MP4"}

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FindVideos lists the MP4 files directly inside dir, deduplicated
// case-insensitively and sorted. When specific is set only that file is
// returned; it is resolved against dir unless absolute.
func FindVideos(dir, specific string) ([]string, error) {
	if specific != "" {
		path := specific
		if !filepath.IsAbs(path) && !FileExists(path) {
			path = filepath.Join(dir, specific)
		}
		if !FileExists(path) {
			return nil, fmt.Errorf("video not found: %s", specific)
		}
		return []string{path}, nil
	}

	var matches []string
	for _, pattern := range VideoPatterns {
		m, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		matches = append(matches, m...)
	}

	seen := make(map[string]bool, len(matches))
	videos := make([]string, 0, len(matches))
	for _, v := range matches {
		key := strings.ToLower(v)
		if seen[key] {
			continue
		}
		if fi, err := os.Stat(v); err != nil || fi.IsDir() {
			continue
		}
		seen[key] = true
		videos = append(videos, v)
	}

	sort.Strings(videos)
	return videos, nil
}
