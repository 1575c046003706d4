package task

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Set is an ordered list without duplicates. It decodes from a native
// sequence, from a string holding an encoded array ("[3,4]"), or from a
// comma-separated string ("3, 4").
type Set[T comparable] []T

// NewSet builds a set from items, dropping duplicates.
func NewSet[T comparable](items ...T) Set[T] {
	var s Set[T]
	for _, v := range items {
		s, _ = s.Add(v)
	}
	return s
}

// Contains reports whether v is in the set.
func (s Set[T]) Contains(v T) bool {
	for _, item := range s {
		if item == v {
			return true
		}
	}
	return false
}

// Add appends v unless present. It reports whether the set changed.
func (s Set[T]) Add(v T) (Set[T], bool) {
	if s.Contains(v) {
		return s, false
	}
	return append(s, v), true
}

// Remove drops v if present. It reports whether the set changed.
func (s Set[T]) Remove(v T) (Set[T], bool) {
	for i, item := range s {
		if item == v {
			out := make(Set[T], 0, len(s)-1)
			out = append(out, s[:i]...)
			return append(out, s[i+1:]...), true
		}
	}
	return s, false
}

// Clone returns a copy that shares no backing array with s.
func (s Set[T]) Clone() Set[T] {
	if s == nil {
		return nil
	}
	return append(Set[T](nil), s...)
}

// UnmarshalYAML implements yaml.v3 Unmarshaler.
func (s *Set[T]) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var items []T
		if err := value.Decode(&items); err != nil {
			return err
		}
		*s = NewSet(items...)
		return nil
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*s = nil
			return nil
		}
		return s.parseString(value.Value)
	default:
		return fmt.Errorf("expected a list, got YAML node kind %d", value.Kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Set[T]) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		return s.parseString(str)
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*s = NewSet(items...)
	return nil
}

// parseString decodes the serialized forms. YAML flow syntax is a superset
// of a JSON array, so one decoder covers both bracketed encodings.
func (s *Set[T]) parseString(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*s = nil
		return nil
	}
	var items []T
	if strings.HasPrefix(raw, "[") {
		if err := yaml.Unmarshal([]byte(raw), &items); err != nil {
			return fmt.Errorf("decoding list %q: %w", raw, err)
		}
		*s = NewSet(items...)
		return nil
	}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var item T
		if err := yaml.Unmarshal([]byte(part), &item); err != nil {
			return fmt.Errorf("decoding list item %q: %w", part, err)
		}
		items = append(items, item)
	}
	*s = NewSet(items...)
	return nil
}
