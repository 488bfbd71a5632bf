package evidence

import (
	"context"
	"fmt"
)

const (
	StorageFS = "fs"
	StorageS3 = "s3"
)

type Config struct {
	Storage string
	Dir     string
	S3      S3Config
}

// New builds the store selected by cfg.Storage. An empty storage kind means the
// filesystem.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Storage {
	case "", StorageFS:
		dir := cfg.Dir
		if dir == "" {
			dir = "./data/evidence"
		}
		return NewFileStore(dir)
	case StorageS3:
		if cfg.S3.Bucket == "" {
			return nil, fmt.Errorf("s3 evidence storage requires a bucket")
		}
		return NewS3Store(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown evidence storage %q", cfg.Storage)
	}
}
