package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidListName  = errors.New("model: invalid list name")
	ErrReservedListName = errors.New("model: reserved list name")
)

// ReservedListName is the stem of the settings file, which lives alongside
// the list files.
const ReservedListName = "settings"

// DefaultListName is the list selected when nothing else is.
const DefaultListName = "tasklist"

// TagSeparator joins tag input into the single stored tags element.
const TagSeparator = ", "

// ValidateListName reports whether name can be used as a list file stem.
func ValidateListName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidListName)
	}
	if strings.EqualFold(name, ReservedListName) {
		return fmt.Errorf("%w: %q", ErrReservedListName, name)
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidListName, name)
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidListName, name)
	}
	return nil
}

// JoinTags collapses user-entered tags into the single comma-joined element
// the UI stores. Blank tags are dropped.
func JoinTags(tags []string) string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			out = append(out, tag)
		}
	}
	return strings.Join(out, TagSeparator)
}

// SplitTags parses comma-separated input into trimmed, non-empty tags.
func SplitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Matches reports whether term occurs, ignoring case, in the name, the
// description, or the joined tags. An empty term matches everything.
func Matches(term, name, description string, tags []string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), term) ||
		strings.Contains(strings.ToLower(description), term) ||
		strings.Contains(strings.ToLower(strings.Join(tags, TagSeparator)), term)
}
