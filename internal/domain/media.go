package domain

import (
	"mime"
	"path/filepath"
	"strings"
)

// allowedImages maps each permitted extension to the content types accepted for it
var allowedImages = map[string][]string{
	"jpg":  {"image/jpeg", "image/jpg"},
	"jpeg": {"image/jpeg", "image/jpg"},
	"png":  {"image/png"},
	"gif":  {"image/gif"},
	"webp": {"image/webp"},
}

var extensionOrder = []string{"jpeg", "jpg", "png", "gif", "webp"}

// AllowedExtensionList renders the allow-list for messages
func AllowedExtensionList() string {
	return strings.Join(extensionOrder, ", ")
}

// Extension returns the lower-cased extension of name without the dot
func Extension(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// IsAllowedExtension reports whether ext (no dot, any case) is on the allow-list
func IsAllowedExtension(ext string) bool {
	_, ok := allowedImages[strings.ToLower(ext)]
	return ok
}

// NormalizeMimeType strips parameters and lower-cases a content type
func NormalizeMimeType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}

// IsAllowedMimeType reports whether contentType is an image type from the allow-list
func IsAllowedMimeType(contentType string) bool {
	mt := NormalizeMimeType(contentType)
	for _, types := range allowedImages {
		for _, t := range types {
			if t == mt {
				return true
			}
		}
	}
	return false
}
