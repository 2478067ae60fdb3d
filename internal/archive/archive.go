// Package archive moves the output directory of earlier sessions out of
// the way.
package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrEmpty is returned when the output directory holds no files.
var ErrEmpty = errors.New("nothing to archive")

// Output moves outputDir to <parent>/archive/<name>-<timestamp>, where
// name is the base name of outputDir, and returns the new path. The
// directory is recreated empty by the next export.
func Output(outputDir string) (string, error) {
	entries, err := os.ReadDir(outputDir)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("output directory does not exist: %s", outputDir)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read output directory: %w", err)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("%w: %s is empty", ErrEmpty, outputDir)
	}

	archiveDir := filepath.Join(filepath.Dir(outputDir), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	base := fmt.Sprintf("%s-%s", filepath.Base(outputDir), time.Now().Format("20060102-150405"))
	archivePath := filepath.Join(archiveDir, base)
	for i := 2; exists(archivePath); i++ {
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%d", base, i))
	}

	if err := os.Rename(outputDir, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive output directory: %w", err)
	}
	return archivePath, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
