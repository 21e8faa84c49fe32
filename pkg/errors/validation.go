package errors

import (
	"strings"
	"unicode"
)

// maxFilenameLength bounds export filenames.
const maxFilenameLength = 255

// ValidateFilename validates an export filename for safety.
// It must be a plain basename: no separators, no traversal, no control
// characters, no hidden files.
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidFilename, "filename cannot be empty")
	}

	if len(name) > maxFilenameLength {
		return New(ErrCodeInvalidFilename, "filename too long (max %d characters)", maxFilenameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidFilename, "filename contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidFilename, "filename cannot contain path separators")
	}

	if name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidFilename, "filename cannot be a hidden file")
	}

	return nil
}

// ValidateImageURL validates an image reference of an image node.
// Remote references must use http or https; data URIs and relative
// paths are accepted as-is.
func ValidateImageURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "URL cannot be empty")
	}

	for _, r := range rawURL {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidURL, "URL contains invalid characters")
		}
	}

	if strings.HasPrefix(rawURL, "data:image/") {
		return nil
	}

	if i := strings.Index(rawURL, ":"); i > 0 && !strings.ContainsAny(rawURL[:i], "/.") {
		scheme := strings.ToLower(rawURL[:i])
		if scheme != "http" && scheme != "https" {
			return New(ErrCodeInvalidURL, "unsupported URL scheme %q", scheme)
		}
	}

	return nil
}
