// Package archive moves earlier output files out of the way before a new
// run overwrites them.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ArchiveFile moves path into an "archive" directory next to it, adding a
// timestamp to the file name, and returns the new location. The returned
// error wraps os.ErrNotExist when there is nothing to archive.
func ArchiveFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("output file does not exist: %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("not a regular file: %s", path)
	}

	// Get parent directory and create archive path
	archiveDir := filepath.Join(filepath.Dir(path), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)

	timestamp := time.Now().Format("20060102-150405")
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", stem, timestamp, ext))

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		timestamp = time.Now().Format("20060102-150405.000000")
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", stem, timestamp, ext))
	}

	if err := os.Rename(path, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive output file: %w", err)
	}

	return archivePath, nil
}
