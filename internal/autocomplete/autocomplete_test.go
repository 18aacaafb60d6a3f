package autocomplete

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dreamlog/internal/storage"
)

func TestLearnMergesCaseInsensitively(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	l := NewLearner(store)

	require.NoError(t, l.Learn(ctx, []string{"Castle", "moon"}, CategoryTags))
	require.NoError(t, l.Learn(ctx, []string{"castle", "Lantern"}, CategoryTags))

	got, err := store.LoadSuggestions(ctx, CategoryTags)
	require.NoError(t, err)
	assert.Equal(t, []string{"Castle", "moon", "Lantern"}, got)
}

func TestLearnRejectsUnknownCategory(t *testing.T) {
	l := NewLearner(storage.NewMemStore())
	require.Error(t, l.Learn(context.Background(), []string{"x"}, "goals"))
}

func TestLearnCapsStoredItems(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	l := NewLearner(store)
	for i := 0; i < MaxLearned+15; i += 10 {
		batch := []string{}
		for j := i; j < i+10; j++ {
			batch = append(batch, fmt.Sprintf("sign-%03d", j))
		}
		require.NoError(t, l.Learn(ctx, batch, CategoryDreamSigns))
	}
	got, err := store.LoadSuggestions(ctx, CategoryDreamSigns)
	require.NoError(t, err)
	assert.Len(t, got, MaxLearned)
	assert.Equal(t, fmt.Sprintf("sign-%03d", MaxLearned+19), got[len(got)-1])
}

func TestSuggestPrefersLearned(t *testing.T) {
	ctx := context.Background()
	l := NewLearner(storage.NewMemStore())
	require.NoError(t, l.Learn(ctx, []string{"Floating", "fog"}, CategoryTags))

	got, err := l.Suggest(ctx, CategoryTags, "f", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Floating", "fog", "family", "flying", "friends"}, got)

	got, err = l.Suggest(ctx, CategoryTags, "F", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Floating", "fog"}, got)

	got, err = l.Suggest(ctx, CategoryDreamSigns, "te", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"teeth falling out"}, got)
}
