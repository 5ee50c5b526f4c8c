package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxNameLength is the longest allowed folder or file name.
const MaxNameLength = 255

// forbiddenNameChars are characters rejected in folder and file names,
// matching common filesystem restrictions. '/' additionally keeps names
// unambiguous inside materialized paths.
const forbiddenNameChars = `/\:*?"<>|`

var errEmptyName = errors.New("name cannot be empty")

// ValidateName checks a folder or file name: non-empty, at most
// MaxNameLength characters, no forbidden or control characters, and no
// leading or trailing whitespace.
func ValidateName(name string) error {
	if name == "" {
		return errEmptyName
	}
	if strings.TrimSpace(name) != name {
		return errors.New("name cannot start or end with whitespace")
	}
	// Counted in runes, not bytes, so multibyte names get the full length.
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("name exceeds %d characters", MaxNameLength)
	}
	if i := strings.IndexAny(name, forbiddenNameChars); i >= 0 {
		return fmt.Errorf("name contains forbidden character %q", name[i])
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return errors.New("name contains control characters")
		}
	}
	return nil
}

// ComputePath materializes a node's path from its own name and its parent's
// path. A root node (empty parentPath) yields "/" + name.
func ComputePath(name, parentPath string) string {
	if parentPath == "" {
		return "/" + name
	}
	return parentPath + "/" + name
}

// ParentPath returns the materialized path of a node's parent, or "" when
// the node is a root ("/Docs" -> "", "/Docs/Work" -> "/Docs").
func ParentPath(path string) string {
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return ""
	}
	return path[:i]
}

// IsAncestorPath reports whether path is ancestor itself or lies inside its
// subtree. Matching is segment-exact: "/Docs" is not an ancestor of "/Docsy".
func IsAncestorPath(ancestor, path string) bool {
	return path == ancestor || strings.HasPrefix(path, ancestor+"/")
}
