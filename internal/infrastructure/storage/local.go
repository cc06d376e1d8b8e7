package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"

	"github.com/hj010/Image-Process/internal/config"
)

type localStore struct {
	basePath string
}

func NewLocalStore(cfg *config.StorageConfig) (ArtifactStore, error) {
	if cfg.LocalPath == "" {
		return nil, fmt.Errorf("LocalPath is empty, set storage.local_path in config or env")
	}

	if err := os.MkdirAll(cfg.LocalPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &localStore{basePath: cfg.LocalPath}, nil
}

func (s *localStore) Store(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		zlog.Logger.Error().Msg("refusing to store empty artifact")
		return "", fmt.Errorf("artifact data is empty")
	}

	filename := uuid.New().String() + ".jpg"
	fullPath := filepath.Join(s.basePath, filename)

	// O_EXCL keeps the never-overwrite contract even on a uuid collision.
	file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("path", fullPath).Msg("failed to create artifact file")
		return "", fmt.Errorf("create artifact %s: %w", fullPath, err)
	}
	defer file.Close()

	written, err := file.Write(data)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("path", fullPath).Msg("failed to write artifact file")
		return "", fmt.Errorf("write artifact %s: %w", fullPath, err)
	}

	zlog.Logger.Info().
		Str("ref", filename).
		Int("bytes", written).
		Msg("artifact saved")

	return filename, nil
}

func (s *localStore) Get(ctx context.Context, ref string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.basePath, ref)

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, ref)
		}
		zlog.Logger.Error().Err(err).Str("path", fullPath).Msg("failed to open artifact")
		return nil, fmt.Errorf("open artifact %s: %w", fullPath, err)
	}

	return file, nil
}
