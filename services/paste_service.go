package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/rbinhq/rbin/config"
	"github.com/rbinhq/rbin/ident"
	"github.com/rbinhq/rbin/metrics"
	"github.com/rbinhq/rbin/models"
	"github.com/rbinhq/rbin/storage"
)

// maxCreateAttempts bounds the id regeneration loop when a freshly
// generated id turns out to be taken already.
const maxCreateAttempts = 5

// PasteService ties id generation and validation to the storage backend.
type PasteService struct {
	store     storage.PasteStore
	generator *ident.Generator
	validator *ident.Validator
}

// NewPasteService creates a new paste service.
func NewPasteService(store storage.PasteStore, cfg *config.Config) *PasteService {
	return &PasteService{
		store:     store,
		generator: ident.NewGenerator(cfg.IDLength),
		validator: ident.NewValidator(cfg.IDLength),
	}
}

// CreatePaste persists content under a fresh id and returns that id. When
// the generated id collides with an existing paste the write is refused by
// the store and a new id is generated, up to maxCreateAttempts times.
func (s *PasteService) CreatePaste(ctx context.Context, content []byte) (string, error) {
	if len(content) == 0 {
		return "", models.ErrEmptyContent
	}

	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		id, err := s.generator.Generate()
		if err != nil {
			return "", fmt.Errorf("generate id: %w", err)
		}

		err = s.store.Put(ctx, id, content)
		if errors.Is(err, models.ErrAlreadyExists) {
			metrics.IDCollisions.Inc()
			log.Warn().Str("id", id).Int("attempt", attempt).Msg("paste id collision, retrying")
			continue
		}
		if err != nil {
			return "", fmt.Errorf("store paste: %w", err)
		}

		metrics.PasteCreated.Inc()
		return id, nil
	}

	return "", fmt.Errorf("no unique paste id after %d attempts", maxCreateAttempts)
}

// GetPaste returns the content stored under id. The id is validated before
// any storage path is derived from it; malformed ids never reach the store.
func (s *PasteService) GetPaste(ctx context.Context, id string) ([]byte, error) {
	if !s.validator.Valid(id) {
		return nil, models.ErrInvalidID
	}

	content, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			metrics.PasteNotFound.Inc()
		}
		return nil, err
	}

	metrics.PasteServed.Inc()
	return content, nil
}

// DeletePaste removes a paste. It is not exposed over HTTP; external
// cleanup tooling uses it.
func (s *PasteService) DeletePaste(ctx context.Context, id string) error {
	if !s.validator.Valid(id) {
		return models.ErrInvalidID
	}
	return s.store.Delete(ctx, id)
}
