package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/ricesearch/rank-eval/internal/config"
	"github.com/ricesearch/rank-eval/internal/pkg/errors"
	"github.com/ricesearch/rank-eval/internal/pkg/logger"
	"github.com/ricesearch/rank-eval/internal/rankeval"
)

// Service stores evaluation results in their wire encoding and decodes them
// on load through a breakdown registry.
type Service struct {
	storage  Storage
	registry *rankeval.Registry
	log      *logger.Logger
}

// NewStorage creates the storage backend selected by cfg.
func NewStorage(cfg config.StoreConfig) (Storage, error) {
	switch strings.ToLower(cfg.Type) {
	case "memory", "":
		return NewMemoryStorage(), nil
	case "file":
		if cfg.Path == "" {
			return nil, errors.ValidationError("file store requires a path")
		}
		return NewFileStorage(cfg.Path), nil
	case "redis":
		rs, err := NewRedisStorage(cfg.RedisURL, cfg.Prefix, cfg.TTLDuration())
		if err != nil {
			return nil, err
		}
		return rs, nil
	default:
		return nil, errors.ValidationError(fmt.Sprintf("unknown store type: %s", cfg.Type))
	}
}

// NewService creates a new result store service. A nil registry uses
// rankeval.DefaultRegistry.
func NewService(storage Storage, registry *rankeval.Registry, log *logger.Logger) *Service {
	if registry == nil {
		registry = rankeval.DefaultRegistry()
	}
	if log == nil {
		log = logger.Default()
	}
	return &Service{
		storage:  storage,
		registry: registry,
		log:      log.WithComponent("store"),
	}
}

// Save validates and stores a result under its id.
func (s *Service) Save(ctx context.Context, result *rankeval.EvaluationResult) error {
	if result == nil {
		return errors.ValidationError("result cannot be nil")
	}
	if err := result.Validate(); err != nil {
		return fmt.Errorf("invalid result: %w", err)
	}

	data, err := result.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if err := s.storage.Save(ctx, result.ID(), data); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	s.log.WithResult(result.ID()).Debug("result saved", "bytes", len(data))
	return nil
}

// Get loads and decodes the result stored under id.
func (s *Service) Get(ctx context.Context, id string) (*rankeval.EvaluationResult, error) {
	data, err := s.storage.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := rankeval.DecodeEvaluationResult(data, s.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to decode result %s: %w", id, err)
	}
	return result, nil
}

// Delete removes the result stored under id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.storage.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete result: %w", err)
	}
	return nil
}

// List returns the ids of all stored results.
func (s *Service) List(ctx context.Context) ([]string, error) {
	return s.storage.List(ctx)
}

// Skipped is a stored result that All could not load.
type Skipped struct {
	ID  string
	Err error
}

// All loads every stored result in id order. Results that fail to load, for
// example because their breakdown is not registered, are returned in skipped
// rather than failing the whole listing.
func (s *Service) All(ctx context.Context) (results []*rankeval.EvaluationResult, skipped []Skipped, err error) {
	ids, err := s.storage.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	results = make([]*rankeval.EvaluationResult, 0, len(ids))
	for _, id := range ids {
		result, err := s.Get(ctx, id)
		if err != nil {
			if errors.IsNotFound(err) {
				continue // Expired or deleted since List
			}
			s.log.WithResult(id).Warn("skipping unreadable result", "error", err.Error())
			skipped = append(skipped, Skipped{ID: id, Err: err})
			continue
		}
		results = append(results, result)
	}
	return results, skipped, nil
}

// Close closes the underlying storage.
func (s *Service) Close() error {
	return s.storage.Close()
}
