package dream

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDedupesTags(t *testing.T) {
	now := time.Date(2025, 3, 1, 7, 30, 0, 0, time.UTC)
	rec, err := New(Draft{Content: "I flew over a city", Tags: "flying, city, flying"}, now, func() string { return "42" })
	require.NoError(t, err)

	assert.Equal(t, "42", rec.ID)
	assert.Equal(t, []string{"flying", "city"}, rec.Tags)
	assert.Equal(t, DefaultTitle, rec.Title)
	assert.Equal(t, []string{}, rec.DreamSigns)
	assert.NotEmpty(t, rec.DateString)

	parsed, ok := rec.Time()
	require.True(t, ok)
	assert.True(t, parsed.Equal(now))
}

func TestNewRejectsEmptyContent(t *testing.T) {
	_, err := New(Draft{Title: "nothing", Content: "   "}, time.Now(), nil)
	require.ErrorIs(t, err, ErrEmptyContent)
}

func TestNewGeneratesUUID(t *testing.T) {
	a, err := New(Draft{Content: "a"}, time.Now(), nil)
	require.NoError(t, err)
	b, err := New(Draft{Content: "b"}, time.Now(), nil)
	require.NoError(t, err)
	assert.Len(t, a.ID, 36)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNormalizeList(t *testing.T) {
	long := strings.Repeat("x", MaxItemLength+10)
	many := make([]string, 0, MaxItems+5)
	for i := 0; i < MaxItems+5; i++ {
		many = append(many, string(rune('a'+i)))
	}

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"first casing kept", []string{"Flying", "flying", "FLYING"}, []string{"Flying"}},
		{"empties dropped", []string{" ", "", "teeth"}, []string{"teeth"}},
		{"length capped", []string{long}, []string{strings.Repeat("x", MaxItemLength)}},
		{"count capped", many, many[:MaxItems]},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeList(tc.in))
		})
	}
}

func TestApplyKeepsIdentity(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rec, err := New(Draft{Title: "old", Content: "old"}, created, func() string { return "id-1" })
	require.NoError(t, err)

	edited := created.Add(48 * time.Hour)
	require.NoError(t, rec.Apply(Draft{Title: "new", Content: "new content", IsLucid: true, DreamSigns: "teeth, Teeth"}, edited))

	assert.Equal(t, "id-1", rec.ID)
	assert.Equal(t, created.Format(time.RFC3339Nano), rec.Timestamp)
	assert.Equal(t, edited.Format(time.RFC3339Nano), rec.LastModified)
	assert.Equal(t, []string{"teeth"}, rec.DreamSigns)
	assert.True(t, rec.IsLucid)

	require.ErrorIs(t, rec.Apply(Draft{}, edited), ErrEmptyContent)
}

func TestParseTime(t *testing.T) {
	_, ok := ParseTime("not a date")
	assert.False(t, ok)
	_, ok = ParseTime("")
	assert.False(t, ok)
	d, ok := ParseTime("2024-05-06")
	require.True(t, ok)
	assert.Equal(t, 6, d.Day())
	_, ok = ParseTime("2024-05-06T10:00:00.123Z")
	assert.True(t, ok)
}

func TestSearchText(t *testing.T) {
	rec := Dream{Title: "Ocean", Content: "Deep Water", Tags: []string{"Swim"}, DreamSigns: []string{"Whale"}}
	assert.Equal(t, "ocean deep water  swim whale", rec.SearchText())
}
