// Package autocomplete learns tags and dream signs from saved dreams and
// offers them back as suggestions.
package autocomplete

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"dreamlog/internal/dream"
)

const (
	CategoryTags       = "tags"
	CategoryDreamSigns = "dreamSigns"

	MaxLearned = 200
)

var defaults = map[string][]string{
	CategoryTags: {
		"adventure", "family", "flying", "friends", "house", "nightmare",
		"ocean", "recurring", "school", "travel", "water", "work",
	},
	CategoryDreamSigns: {
		"being chased", "clocks", "dead relatives", "falling", "hands",
		"light switches", "mirrors", "reading text", "teeth falling out",
		"unable to run", "wrong house layout",
	},
}

// SuggestionStore persists learned items per category.
type SuggestionStore interface {
	LoadSuggestions(ctx context.Context, category string) ([]string, error)
	SaveSuggestions(ctx context.Context, category string, items []string) error
}

type Learner struct {
	store SuggestionStore
	mu    sync.Mutex
}

func NewLearner(store SuggestionStore) *Learner {
	return &Learner{store: store}
}

func validCategory(category string) error {
	if _, ok := defaults[category]; !ok {
		return fmt.Errorf("autocomplete: unknown category %q", category)
	}
	return nil
}

// Learn merges items into the stored list for category.
func (l *Learner) Learn(ctx context.Context, items []string, category string) error {
	if err := validCategory(category); err != nil {
		return err
	}
	items = dream.NormalizeList(items)
	if len(items) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	known, err := l.store.LoadSuggestions(ctx, category)
	if err != nil {
		return fmt.Errorf("autocomplete: load %s: %w", category, err)
	}
	seen := make(map[string]struct{}, len(known))
	for _, k := range known {
		seen[strings.ToLower(k)] = struct{}{}
	}
	changed := false
	for _, item := range items {
		if _, ok := seen[strings.ToLower(item)]; ok {
			continue
		}
		seen[strings.ToLower(item)] = struct{}{}
		known = append(known, item)
		changed = true
	}
	if !changed {
		return nil
	}
	if len(known) > MaxLearned {
		known = known[len(known)-MaxLearned:]
	}
	if err := l.store.SaveSuggestions(ctx, category, known); err != nil {
		return fmt.Errorf("autocomplete: save %s: %w", category, err)
	}
	return nil
}

// Suggest returns learned and built-in items starting with prefix, learned
// items first, at most limit entries (limit <= 0 means no limit).
func (l *Learner) Suggest(ctx context.Context, category, prefix string, limit int) ([]string, error) {
	if err := validCategory(category); err != nil {
		return nil, err
	}
	learned, err := l.store.LoadSuggestions(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("autocomplete: load %s: %w", category, err)
	}
	builtin := append([]string(nil), defaults[category]...)
	sort.Strings(builtin)

	prefix = strings.ToLower(strings.TrimSpace(prefix))
	out := []string{}
	seen := map[string]struct{}{}
	for _, item := range append(learned, builtin...) {
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
