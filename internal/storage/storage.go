// Package storage persists dream records. SQLite is the primary store and
// exposes per-record fast-path operations; a diskv key-value store and an
// in-memory store serve as fallbacks that only load and save whole
// collections. Repository keeps the in-memory cache in sync with whichever
// backend was selected.
package storage

import (
	"context"
	"errors"
	"net/url"
	"path/filepath"
	"strings"

	"dreamlog/internal/dream"
	"dreamlog/internal/logging"
)

var ErrUnavailable = errors.New("store unavailable")

// Backend loads and saves the whole collection.
type Backend interface {
	LoadDreams(ctx context.Context) ([]dream.Dream, error)
	SaveDreams(ctx context.Context, dreams []dream.Dream) error
}

// FastPath mutates single records. Any error other than dream.ErrNotFound
// sends the caller to the Backend load/modify/save cycle.
type FastPath interface {
	Available() bool
	AddDream(ctx context.Context, d dream.Dream) error
	UpdateDream(ctx context.Context, d dream.Dream) error
	DeleteDream(ctx context.Context, id string) error
}

// Store is what Open hands out: a backend that also keeps suggestion lists.
type Store interface {
	Backend
	LoadSuggestions(ctx context.Context, category string) ([]string, error)
	SaveSuggestions(ctx context.Context, category string, items []string) error
	Name() string
	Close() error
}

type Options struct {
	DBPath   string
	StoreDir string
}

// Open probes the backends in order SQLite, diskv, memory and returns the
// first that works.
func Open(ctx context.Context, opts Options, log logging.Logger) Store {
	if opts.DBPath != "" {
		s, err := OpenSQLite(opts.DBPath)
		if err == nil {
			log.Info(ctx, "storage opened", "backend", s.Name(), "path", opts.DBPath)
			return s
		}
		log.Warn(ctx, "sqlite unavailable, trying disk store", "path", opts.DBPath, "err", err)
	}
	if opts.StoreDir != "" {
		d, err := OpenDisk(opts.StoreDir)
		if err == nil {
			log.Info(ctx, "storage opened", "backend", d.Name(), "path", opts.StoreDir)
			return d
		}
		log.Warn(ctx, "disk store unavailable, using memory", "path", opts.StoreDir, "err", err)
	}
	log.Warn(ctx, "storage opened", "backend", "memory", "persistent", false)
	return NewMemStore()
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}

func cloneAll(in []dream.Dream) []dream.Dream {
	out := make([]dream.Dream, len(in))
	for i, d := range in {
		out[i] = d.Clone()
	}
	return out
}
