// Package storage writes generated exports to the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// ErrInvalidName is returned for an empty name or one that escapes baseDir
var ErrInvalidName = errors.New("invalid export file name")

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// ExportStorage implements port.ExportStorage under one base directory
type ExportStorage struct {
	baseDir string
	logger  *zap.Logger
}

// NewExportStorage creates a new ExportStorage
func NewExportStorage(baseDir string, logger *zap.Logger) *ExportStorage {
	return &ExportStorage{
		baseDir: baseDir,
		logger:  logger,
	}
}

// Save writes content to baseDir/name, creating baseDir if needed, and
// returns the path written
func (s *ExportStorage) Save(ctx context.Context, name string, content []byte) (string, error) {
	fullPath, err := s.resolve(name)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		s.logger.Error("Failed to create export directory",
			zap.String("path", s.baseDir),
			zap.Error(err))
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write export",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Info("Export saved",
		zap.String("path", fullPath),
		zap.Int("size", len(content)))
	return fullPath, nil
}

// Read returns the content of a previously saved export
func (s *ExportStorage) Read(ctx context.Context, name string) ([]byte, error) {
	fullPath, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return content, nil
}

// Exists reports whether an export with name is present
func (s *ExportStorage) Exists(ctx context.Context, name string) bool {
	fullPath, err := s.resolve(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(fullPath)
	return err == nil
}

// SanitizeName keeps letters, digits, dot, hyphen and underscore
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "..", "")
	return unsafeChars.ReplaceAllString(name, "")
}

func (s *ExportStorage) resolve(name string) (string, error) {
	clean := SanitizeName(name)
	if clean == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base path: %w", err)
	}
	absPath := filepath.Join(absBase, clean)
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return absPath, nil
}
