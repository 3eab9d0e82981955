package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Ra7ch/LeetSol/backend/config"
	"github.com/Ra7ch/LeetSol/backend/model"
	"github.com/Ra7ch/LeetSol/backend/pkg/logger"
)

// StagingService places uploaded contracts in the staging directory shared
// with the audit engine. Files are named by upload time so concurrent
// submissions never collide on the original filename.
type StagingService struct {
	dir string
}

func NewStagingService(cfg *config.StagingConfig) *StagingService {
	return &StagingService{dir: cfg.Dir}
}

// EnsureDir creates the staging directory if it doesn't exist
func (s *StagingService) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	return nil
}

// Stage writes the upload into the staging directory under an assigned
// time-based name and returns a reference to the staged file.
func (s *StagingService) Stage(ctx context.Context, originalName string, r io.Reader) (*model.SubmittedFile, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create staged file: %w", err)
	}

	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// Don't leave a half-written contract behind
		os.Remove(path)
		return nil, fmt.Errorf("failed to write staged file: %w", err)
	}

	logger.Debug(ctx, "contract staged", "name", name, "size", size)

	return &model.SubmittedFile{
		OriginalName: originalName,
		Name:         name,
		Ext:          ext,
		Path:         path,
		Size:         size,
	}, nil
}

// Remove deletes the staged file. Removing a file that is already gone is
// not an error, so cleanup can run on every exit path without coordination.
func (s *StagingService) Remove(ctx context.Context, staged *model.SubmittedFile) error {
	if err := os.Remove(staged.Path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete staged file: %w", err)
	}
	logger.Debug(ctx, "staged file deleted", "name", staged.Name)
	return nil
}
