package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileSink writes reports into a directory
type FileSink struct {
	dir string
}

// NewFileSink creates a sink rooted at dir; "" means the working directory
func NewFileSink(dir string) *FileSink {
	if dir == "" {
		dir = "."
	}
	return &FileSink{dir: dir}
}

// Put writes the report atomically by renaming a temp file over the target
func (s *FileSink) Put(_ context.Context, name, _ string, data []byte) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid report name %q", name)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing report: %w", err)
	}

	target := filepath.Join(s.dir, name)
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("publishing report: %w", err)
	}
	return target, nil
}
