package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/wb-go/wbf/zlog"

	"github.com/hj010/Image-Process/internal/config"
)

var ErrObjectNotFound = errors.New("object not found")

// ArtifactStore writes each transcoded image under a fresh unique name and
// returns the reference it can later be read back by. An existing artifact
// is never overwritten.
type ArtifactStore interface {
	Store(ctx context.Context, data []byte) (string, error)
	Get(ctx context.Context, ref string) (io.ReadCloser, error)
}

func New(cfg *config.StorageConfig) (ArtifactStore, error) {
	switch cfg.Type {
	case "local":
		zlog.Logger.Info().Msg("Initializing local artifact storage")
		return NewLocalStore(cfg)
	case "s3":
		zlog.Logger.Info().Msg("Initializing S3 artifact storage")
		return NewS3Store(cfg)
	default:
		zlog.Logger.Error().Str("type", cfg.Type).Msg("Unsupported storage type, use 'local' or 's3'")
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
