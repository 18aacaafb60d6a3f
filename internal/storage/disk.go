package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/peterbourgon/diskv/v3"

	"dreamlog/internal/dream"
)

const (
	dreamsKey         = "dreams"
	suggestionsPrefix = "suggestions-"
	probeKey          = ".probe"
)

// DiskStore keeps the collection as one JSON document in a diskv directory.
// It has no per-record operations.
type DiskStore struct {
	d        *diskv.Diskv
	basePath string
}

func OpenDisk(basePath string) (*DiskStore, error) {
	if basePath == "" {
		return nil, fmt.Errorf("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	s := &DiskStore{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
		basePath: basePath,
	}
	if err := s.d.Write(probeKey, []byte("ok")); err != nil {
		return nil, fmt.Errorf("store: probe write: %w", err)
	}
	if err := s.d.Erase(probeKey); err != nil {
		return nil, fmt.Errorf("store: probe erase: %w", err)
	}
	return s, nil
}

func (s *DiskStore) Name() string { return "diskv" }

func (s *DiskStore) Close() error { return nil }

func (s *DiskStore) LoadDreams(_ context.Context) ([]dream.Dream, error) {
	dreams := []dream.Dream{}
	if err := s.readJSON(dreamsKey, &dreams); err != nil {
		return nil, err
	}
	return dreams, nil
}

func (s *DiskStore) SaveDreams(_ context.Context, dreams []dream.Dream) error {
	if dreams == nil {
		dreams = []dream.Dream{}
	}
	return s.writeJSON(dreamsKey, dreams)
}

func (s *DiskStore) LoadSuggestions(_ context.Context, category string) ([]string, error) {
	items := []string{}
	if err := s.readJSON(suggestionsPrefix+category, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *DiskStore) SaveSuggestions(_ context.Context, category string, items []string) error {
	return s.writeJSON(suggestionsPrefix+category, items)
}

func (s *DiskStore) readJSON(key string, v any) error {
	if !s.d.Has(key) {
		return nil
	}
	val, err := s.d.Read(key)
	if err != nil {
		return err
	}
	if len(val) == 0 {
		return nil
	}
	if err := json.Unmarshal(val, v); err != nil {
		return fmt.Errorf("store: decode %s: %w", key, err)
	}
	return nil
}

func (s *DiskStore) writeJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.d.Write(key, data)
}
