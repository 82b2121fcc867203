package filestorage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// LocalArchive implements Archiver on a local directory
type LocalArchive struct {
	baseDir string
	logger  zerolog.Logger
}

// NewLocalArchive creates the archive directory if needed and returns an
// Archiver writing into it.
func NewLocalArchive(baseDir string, logger zerolog.Logger) (*LocalArchive, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory %s: %w", baseDir, err)
	}
	return &LocalArchive{baseDir: baseDir, logger: logger}, nil
}

// Store writes the document to disk. The package id prefixes the name so
// repeated generations for the same student never overwrite each other.
func (a *LocalArchive) Store(packageID int64, filename string, document []byte) (string, error) {
	name := fmt.Sprintf("%d_%s", packageID, sanitizeFilename(filename))
	path := filepath.Join(a.baseDir, name)

	if err := os.WriteFile(path, document, 0o644); err != nil {
		return "", fmt.Errorf("failed to write archived document: %w", err)
	}

	a.logger.Debug().Str("path", path).Int("bytes", len(document)).Msg("Document archived")
	return path, nil
}

// sanitizeFilename strips path separators and other characters that are not
// safe in a file name
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer("/", "_", "\\", "_", "..", "_", "\x00", "")
	sanitized := replacer.Replace(filename)
	if sanitized == "" || sanitized == "." {
		sanitized = "document.pdf"
	}
	return sanitized
}
