// Package taxonomy turns free-form tag input into the canonical string stored
// on notes, files and events, and rebuilds the tag vocabulary from those strings.
package taxonomy

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// Separator joins canonical tags.
	Separator = ","
	// MaxTagLength is the maximum length of one tag, in characters.
	MaxTagLength = 40
)

// Normalize converts client input into the canonical tag string.
//
// Accepted shapes are a single string (split on commas) or a sequence
// ([]string or []any, as produced by encoding/json). Anything else, nil
// included, yields "".
func Normalize(input any) string {
	return Join(Tokens(input))
}

// Tokens returns the canonical tags of input in first-occurrence order.
func Tokens(input any) []string {
	var candidates []string
	switch v := input.(type) {
	case string:
		candidates = strings.Split(v, Separator)
	case []string:
		candidates = v
	case []any:
		candidates = make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			candidates = append(candidates, coerce(item))
		}
	default:
		return nil
	}

	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		tag := Canonical(c)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// Canonical normalizes a single tag: lowercase, trimmed, runs of commas and
// whitespace collapsed to "-", truncated to MaxTagLength characters.
func Canonical(raw string) string {
	tag := strings.TrimSpace(strings.ToLower(raw))
	if tag == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(tag))
	inRun := false
	for _, r := range tag {
		if r == ',' || unicode.IsSpace(r) {
			if !inRun {
				b.WriteByte('-')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return truncate(b.String(), MaxTagLength)
}

// Join renders tags in canonical stored form. It never returns nil-ish values:
// no tags is "".
func Join(tags []string) string {
	return strings.Join(tags, Separator)
}

// Split re-reads a stored tag string, dropping empty tokens.
func Split(stored string) []string {
	if stored == "" {
		return nil
	}
	parts := strings.Split(stored, Separator)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Aggregate builds the sorted, de-duplicated vocabulary of a set of stored
// tag strings.
func Aggregate(stored []string) []string {
	set := make(map[string]struct{})
	for _, s := range stored {
		for _, tag := range Split(s) {
			set[tag] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for tag := range set {
		out = append(out, tag)
	}
	slices.Sort(out)
	return out
}

// Has reports whether the stored tag string contains tag.
func Has(stored, tag string) bool {
	return slices.Contains(Split(stored), tag)
}

func coerce(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// encoding/json decodes every number as float64; render integers
		// without an exponent or trailing ".0".
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprint(t)
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
