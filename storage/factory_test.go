package storage

import (
	"testing"

	"github.com/rbinhq/rbin/config"
)

func TestNewStore_Filesystem(t *testing.T) {
	cfg := &config.Config{
		Storage:  config.BackendFilesystem,
		PasteDir: t.TempDir(),
	}

	store, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if _, ok := store.(*FilesystemStore); !ok {
		t.Errorf("expected *FilesystemStore, got %T", store)
	}
}

func TestNewStore_EmptyBackendDefaultsToFilesystem(t *testing.T) {
	cfg := &config.Config{
		Storage:  "",
		PasteDir: t.TempDir(),
	}

	store, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if _, ok := store.(*FilesystemStore); !ok {
		t.Errorf("expected *FilesystemStore, got %T", store)
	}
}

func TestNewStore_UnknownBackend(t *testing.T) {
	cfg := &config.Config{Storage: "carrier-pigeon"}

	if _, err := NewStore(cfg); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestNewStore_S3RequiresBucket(t *testing.T) {
	cfg := &config.Config{Storage: config.BackendS3}

	if _, err := NewStore(cfg); err == nil {
		t.Error("expected error for s3 backend without bucket")
	}
}

func TestNewStore_MongoRequiresURL(t *testing.T) {
	cfg := &config.Config{Storage: config.BackendMongo}

	if _, err := NewStore(cfg); err == nil {
		t.Error("expected error for mongodb backend without url")
	}
}

func TestNewStore_DynamoRequiresTable(t *testing.T) {
	cfg := &config.Config{Storage: config.BackendDynamo}

	if _, err := NewStore(cfg); err == nil {
		t.Error("expected error for dynamodb backend without table")
	}
}
