package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// MaxFieldPathDepth bounds nesting for dotted field paths.
const MaxFieldPathDepth = 10

var (
	ErrEmptyFieldPath         = errors.New("field path cannot be empty")
	ErrInvalidFieldPathFormat = errors.New("invalid field path format")
	ErrFieldPathTooDeep       = errors.New("field path exceeds maximum depth")
)

// FieldPath represents a dotted field path addressing a possibly nested field,
// like "customer.address.city".
type FieldPath struct {
	segments []string
	raw      string
}

// NewFieldPath creates a field path from a dot-separated string.
func NewFieldPath(path string) (*FieldPath, error) {
	if path == "" {
		return nil, ErrEmptyFieldPath
	}

	if strings.HasPrefix(path, ".") || strings.HasSuffix(path, ".") || strings.Contains(path, "..") {
		return nil, ErrInvalidFieldPathFormat
	}

	segments := strings.Split(path, ".")
	if len(segments) > MaxFieldPathDepth {
		return nil, ErrFieldPathTooDeep
	}

	return &FieldPath{
		segments: segments,
		raw:      path,
	}, nil
}

// Raw returns the original dot-separated string.
func (fp *FieldPath) Raw() string {
	return fp.raw
}

// Segments returns a copy of the individual path segments.
func (fp *FieldPath) Segments() []string {
	return append([]string{}, fp.segments...)
}

// IsNested returns true if the field path has multiple segments.
func (fp *FieldPath) IsNested() bool {
	return len(fp.segments) > 1
}

// SetNestedField assigns value at the dotted path inside fields, creating
// intermediate maps as needed. An existing non-map intermediate is replaced.
// The path must parse as a FieldPath; a malformed path leaves fields untouched.
func SetNestedField(fields map[string]interface{}, path string, value interface{}) error {
	fp, err := NewFieldPath(path)
	if err != nil {
		return fmt.Errorf("field path %q: %w", path, err)
	}
	setNested(fields, fp.segments, value)
	return nil
}

func setNested(node map[string]interface{}, segments []string, value interface{}) {
	head := segments[0]
	if len(segments) == 1 {
		node[head] = value
		return
	}

	child, ok := node[head].(map[string]interface{})
	if !ok {
		child = make(map[string]interface{})
		node[head] = child
	}
	setNested(child, segments[1:], value)
}

// ApplyUpdate merges update data into prior fields using dotted-path assignment.
// Keys not mentioned in data keep their prior values. The prior map is never
// mutated; an absent document is treated as an empty mapping. A malformed update
// key fails the whole merge.
func ApplyUpdate(prior map[string]interface{}, data map[string]interface{}) (map[string]interface{}, error) {
	merged := CloneFields(prior)
	if merged == nil {
		merged = make(map[string]interface{})
	}

	// Apply in sorted key order so overlapping paths resolve the same way every run.
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := SetNestedField(merged, key, data[key]); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// CloneFields deep-copies a field mapping, descending into nested maps and slices.
func CloneFields(fields map[string]interface{}) map[string]interface{} {
	if fields == nil {
		return nil
	}

	clone := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		clone[key] = cloneValue(value)
	}
	return clone
}

func cloneValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return CloneFields(v)
	case []interface{}:
		copied := make([]interface{}, len(v))
		for i, elem := range v {
			copied[i] = cloneValue(elem)
		}
		return copied
	default:
		return v
	}
}
