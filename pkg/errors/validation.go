package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// identifierRegex matches IEC 61131-3 identifiers: a letter or underscore
// followed by letters, digits, or single underscores.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier validates a POU, variable, or data type name.
//
// The rules follow IEC 61131-3:
//   - No empty names
//   - Must start with a letter or underscore
//   - Only letters, digits, and underscores
//   - No consecutive underscores and no trailing underscore
//   - Maximum length of 128 characters
func ValidateIdentifier(name string) error {
	if name == "" {
		return New(ErrCodeInvalidIdentifier, "identifier cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidIdentifier, "identifier too long (max 128 characters)")
	}

	if !identifierRegex.MatchString(name) {
		return New(ErrCodeInvalidIdentifier, "invalid identifier: %q", name)
	}

	if strings.Contains(name, "__") || (len(name) > 1 && strings.HasSuffix(name, "_")) {
		return New(ErrCodeInvalidIdentifier, "identifier has misplaced underscores: %q", name)
	}

	return nil
}

// ValidateProjectPath validates a project file path supplied on the command
// line or through the HTTP API.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must end in .json
func ValidateProjectPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if !strings.HasSuffix(strings.ToLower(path), ".json") {
		return New(ErrCodeInvalidPath, "project file must be a .json file: %q", path)
	}

	return nil
}
