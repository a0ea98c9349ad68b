// Package preference holds the user's dietary preferences.
package preference

import (
	"strings"
	"time"
)

// UserPreferences are the dietary tags extracted during onboarding together
// with the text the user typed. Tags is never nil.
type UserPreferences struct {
	Tags    []string `json:"tags"`
	RawText string   `json:"rawText"`
}

// New builds preferences from extracted tags, dropping blanks and duplicates.
func New(tags []string, rawText string) UserPreferences {
	return UserPreferences{Tags: normalizeTags(tags), RawText: strings.TrimSpace(rawText)}
}

// Empty returns preferences for a first run.
func Empty() UserPreferences {
	return UserPreferences{Tags: []string{}}
}

// Normalize repairs preferences decoded from storage.
func (p UserPreferences) Normalize() UserPreferences {
	return UserPreferences{Tags: normalizeTags(p.Tags), RawText: p.RawText}
}

// HasTags reports whether onboarding produced at least one tag.
func (p UserPreferences) HasTags() bool {
	return len(p.Tags) > 0
}

// Describe renders the tags for a prompt.
func (p UserPreferences) Describe() string {
	return strings.Join(p.Tags, ", ")
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// PreferencesUpdatedEvent is raised when onboarding replaces the preferences
type PreferencesUpdatedEvent struct {
	Tags      []string
	UpdatedAt time.Time
}

func (e PreferencesUpdatedEvent) EventName() string {
	return "preference.updated"
}

func (e PreferencesUpdatedEvent) OccurredAt() time.Time {
	return e.UpdatedAt
}
