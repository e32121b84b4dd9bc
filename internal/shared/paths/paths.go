package paths

import (
	"strings"

	"firestore-rules-tester/internal/shared/errors"
)

// WirePrefix is the fixed prefix the rules evaluation service expects in front of
// every logical document path.
const WirePrefix = "/databases/(default)/documents/"

// Segments splits a slash-delimited path into its segments, dropping empty ones.
func Segments(path string) []string {
	if path == "" {
		return []string{}
	}

	parts := strings.Split(path, "/")
	var result []string
	for _, part := range parts {
		if part != "" {
			result = append(result, part)
		}
	}

	return result
}

// SplitLast splits a path into its parent path and final segment.
// For "users/alice/favorites" it returns ("users/alice", "favorites").
// A single-segment path has an empty parent.
func SplitLast(path string) (parent, last string) {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}

// Join builds a path from segments, skipping empty ones.
func Join(segments ...string) string {
	var kept []string
	for _, segment := range segments {
		if segment != "" {
			kept = append(kept, segment)
		}
	}
	return strings.Join(kept, "/")
}

// IsDocumentPath reports whether a path has an even number of segments, i.e. it
// alternates collection/document and ends on a document key.
func IsDocumentPath(path string) bool {
	return len(Segments(path))%2 == 0 && path != ""
}

// IsCollectionPath reports whether a path ends on a collection name.
func IsCollectionPath(path string) bool {
	return len(Segments(path))%2 == 1
}

// Validate checks that a path is non-empty and has no empty segments.
func Validate(path string) error {
	if path == "" {
		return errors.NewValidationError("path cannot be empty")
	}
	if strings.HasPrefix(path, "/") || strings.HasSuffix(path, "/") || strings.Contains(path, "//") {
		return errors.NewValidationError("path contains empty segments").
			WithDetail("path", path)
	}
	return nil
}

// ValidateDocumentPath checks that a path is well formed and ends on a document
// key rather than a collection name.
func ValidateDocumentPath(path string) error {
	if err := Validate(path); err != nil {
		return err
	}
	if !IsDocumentPath(path) {
		return errors.NewValidationError("path addresses a collection, not a document").
			WithDetail("path", path)
	}
	return nil
}

// ToWire converts a logical document path to the absolute form used on the wire.
func ToWire(logicalPath string) string {
	return WirePrefix + logicalPath
}
