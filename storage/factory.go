package storage

import (
	"fmt"

	"github.com/rbinhq/rbin/config"
)

// NewStore builds the PasteStore selected by cfg.Storage.
func NewStore(cfg *config.Config) (PasteStore, error) {
	switch cfg.Storage {
	case config.BackendFilesystem, "":
		return NewFilesystemStore(cfg.PasteDir)
	case config.BackendS3:
		return NewS3Store(cfg.S3Bucket, cfg.S3Prefix)
	case config.BackendMongo:
		return NewMongoStore(cfg.MongoURL, cfg.MongoDB)
	case config.BackendDynamo:
		return NewDynamoStore(cfg.DynamoTable, cfg.AWSRegion)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage)
	}
}
