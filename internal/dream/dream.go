// Package dream holds the dream record and the normalization rules applied
// to user input before a record is persisted.
package dream

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	DefaultTitle  = "Untitled Dream"
	MaxItemLength = 50
	MaxItems      = 20

	dateLayout = "Monday, January 2, 2006 at 3:04 PM"
	dayLayout  = "2006-01-02"
)

// Dream is a single journal record. Timestamps are kept as ISO-8601 strings
// so records written by older clients with malformed values still load.
type Dream struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Emotions     string   `json:"emotions,omitempty"`
	Tags         []string `json:"tags"`
	DreamSigns   []string `json:"dreamSigns"`
	IsLucid      bool     `json:"isLucid"`
	Timestamp    string   `json:"timestamp"`
	DateString   string   `json:"dateString,omitempty"`
	LastModified string   `json:"lastModified,omitempty"`
}

// Draft is the raw user input for a save or edit.
type Draft struct {
	Title      string
	Content    string
	Emotions   string
	Tags       string
	DreamSigns string
	IsLucid    bool
}

// Validate reports ErrEmptyContent when the draft has no content.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Content) == "" {
		return ErrEmptyContent
	}
	return nil
}

// New builds a record from a draft. newID may be nil, in which case a uuid is used.
func New(d Draft, now time.Time, newID func() string) (Dream, error) {
	if err := d.Validate(); err != nil {
		return Dream{}, err
	}
	if newID == nil {
		newID = uuid.NewString
	}
	rec := Dream{
		ID:        newID(),
		Timestamp: now.UTC().Format(time.RFC3339Nano),
	}
	rec.fill(d)
	rec.DateString = FormatDate(now)
	return rec, nil
}

// Apply replaces the editable fields from d, keeping ID and Timestamp.
func (r *Dream) Apply(d Draft, now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	r.fill(d)
	r.LastModified = now.UTC().Format(time.RFC3339Nano)
	return nil
}

func (r *Dream) fill(d Draft) {
	r.Title = strings.TrimSpace(d.Title)
	if r.Title == "" {
		r.Title = DefaultTitle
	}
	r.Content = strings.TrimSpace(d.Content)
	r.Emotions = strings.TrimSpace(d.Emotions)
	r.Tags = ParseList(d.Tags)
	r.DreamSigns = ParseList(d.DreamSigns)
	r.IsLucid = d.IsLucid
}

// Time parses Timestamp. The second value is false for missing or
// unparseable timestamps.
func (r Dream) Time() (time.Time, bool) {
	return ParseTime(r.Timestamp)
}

func ParseTime(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t, true
	}
	if t, err := time.Parse(dayLayout, v); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Display returns the cached date string, computing it when absent.
func (r Dream) Display() string {
	if r.DateString != "" {
		return r.DateString
	}
	if t, ok := r.Time(); ok {
		return FormatDate(t)
	}
	return "Unknown date"
}

// SearchText is the lowercase view used for substring search.
func (r Dream) SearchText() string {
	parts := []string{r.Title, r.Content, r.Emotions}
	parts = append(parts, r.Tags...)
	parts = append(parts, r.DreamSigns...)
	return strings.ToLower(strings.Join(parts, " "))
}

func FormatDate(t time.Time) string {
	return t.Local().Format(dateLayout)
}

// Clone returns a deep copy.
func (r Dream) Clone() Dream {
	c := r
	c.Tags = slices.Clone(r.Tags)
	c.DreamSigns = slices.Clone(r.DreamSigns)
	return c
}

// ParseList splits comma separated input and normalizes it.
func ParseList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	return NormalizeList(strings.Split(raw, ","))
}

// NormalizeList trims items, drops empties, truncates each to MaxItemLength
// runes, removes case-insensitive duplicates keeping the first casing and
// caps the result at MaxItems.
func NormalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if utf8.RuneCountInString(item) > MaxItemLength {
			item = strings.TrimSpace(string([]rune(item)[:MaxItemLength]))
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
		if len(out) == MaxItems {
			break
		}
	}
	return out
}
