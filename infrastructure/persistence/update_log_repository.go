package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// UpdateLogRepository appends result lines to a plain text file.
type UpdateLogRepository struct {
	mu   sync.Mutex
	path string
}

func NewUpdateLogRepository(path string) *UpdateLogRepository {
	return &UpdateLogRepository{path: path}
}

func (r *UpdateLogRepository) Append(lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open update log: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
		return fmt.Errorf("failed to append update log: %w", err)
	}
	return nil
}
