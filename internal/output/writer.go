package output

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultDir is where recaps land when --output is given without a path.
const DefaultDir = "recaps"

// Writer writes rendered recaps to disk, creating directories as needed.
type Writer struct {
	baseDir string
}

// NewWriter creates a Writer. An empty baseDir falls back to DefaultDir.
func NewWriter(baseDir string) *Writer {
	if baseDir == "" {
		baseDir = DefaultDir
	}
	return &Writer{baseDir: baseDir}
}

// DefaultPath returns baseDir/<date>.<ext> for the given day.
func (w *Writer) DefaultPath(now time.Time, ext string) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s.%s", now.Format("2006-01-02"), ext))
}

// Write writes data to path, creating the parent directory if missing,
// and returns the path written.
func (w *Writer) Write(path string, data []byte) (string, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing recap file: %w", err)
	}
	return path, nil
}
