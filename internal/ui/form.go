package ui

import (
	"strings"

	"dreamlog/internal/dream"
	"dreamlog/internal/journal"
)

const (
	fieldTitle = iota
	fieldContent
	fieldEmotions
	fieldTags
	fieldDreamSigns
	fieldLucid
	fieldCount
)

func formFields() []string {
	return []string{"title", "content", "emotions", "tags", "dream signs", "lucid (y/n)"}
}

// formState holds the new-dream or edit form. dreamID is empty for a new
// dream.
type formState struct {
	dreamID string
	values  [fieldCount]string
	index   int
}

func newForm() *formState {
	return &formState{values: [fieldCount]string{fieldLucid: "n"}}
}

func editForm(d dream.Dream) *formState {
	f := &formState{dreamID: d.ID}
	f.values[fieldTitle] = d.Title
	f.values[fieldContent] = d.Content
	f.values[fieldEmotions] = d.Emotions
	f.values[fieldTags] = strings.Join(d.Tags, ", ")
	f.values[fieldDreamSigns] = strings.Join(d.DreamSigns, ", ")
	f.values[fieldLucid] = boolToYN(d.IsLucid)
	return f
}

func (f formState) currentLabel() string { return formFields()[f.index] }

func (f formState) currentValue() string { return f.values[f.index] }

func (f *formState) setCurrentValue(v string) { f.values[f.index] = v }

// fieldValues returns the form as action values.
func (f formState) fieldValues() map[string]string {
	lucid := "false"
	if parseYN(f.values[fieldLucid]) {
		lucid = "true"
	}
	return map[string]string{
		journal.KeyTitle:      f.values[fieldTitle],
		journal.KeyContent:    f.values[fieldContent],
		journal.KeyEmotions:   f.values[fieldEmotions],
		journal.KeyTags:       f.values[fieldTags],
		journal.KeyDreamSigns: f.values[fieldDreamSigns],
		journal.KeyIsLucid:    lucid,
	}
}

func (f formState) hasContent() bool {
	return strings.TrimSpace(f.values[fieldContent]) != ""
}

// splitList separates a comma list into everything up to the fragment
// being typed and the fragment itself.
func splitList(v string) (head, fragment string) {
	i := strings.LastIndex(v, ",")
	if i < 0 {
		return "", strings.TrimSpace(v)
	}
	return v[:i+1] + " ", strings.TrimSpace(v[i+1:])
}

func parseYN(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "y" || v == "yes" || v == "true" || v == "1"
}

func boolToYN(b bool) string {
	if b {
		return "y"
	}
	return "n"
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
