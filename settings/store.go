// Package settings stores whole objects by key in a key-value backend,
// archived as YAML.
package settings

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"gopkg.in/yaml.v3"
)

// Store archives objects into a Backend.
type Store struct {
	backend Backend
	logger  *slog.Logger
}

type Option func(*Store)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a Store on top of backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{backend: backend}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return s
}

// SetObject archives obj under key. A nil obj removes the key.
func (s *Store) SetObject(ctx context.Context, key string, obj any) error {
	if isNil(obj) {
		return s.Remove(ctx, key)
	}

	data, err := yaml.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", key, err)
	}

	if err := s.backend.Set(ctx, key, data); err != nil {
		return err
	}

	s.logger.Debug("setting stored", "key", key, "bytes", len(data))

	return nil
}

// Object unarchives the value under key into the pointer into. It returns
// ErrNotFound when the key is missing.
func (s *Store) Object(ctx context.Context, key string, into any) error {
	data, err := s.backend.Get(ctx, key)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("failed to unarchive %s: %w", key, err)
	}

	s.logger.Debug("setting loaded", "key", key, "bytes", len(data))

	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, key); err != nil {
		return err
	}

	s.logger.Debug("setting removed", "key", key)

	return nil
}

func isNil(obj any) bool {
	if obj == nil {
		return true
	}

	v := reflect.ValueOf(obj)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
