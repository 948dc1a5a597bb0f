package models

import "strings"

// ResolveAssetURL resolves an image or media reference against the backend
// base URL.
//
// Absolute http(s) URLs pass through unchanged. References starting with "/"
// are appended to the base. Anything else is treated as a bare filename
// served from the backend's uploads directory.
func ResolveAssetURL(base, ref string) string {
	if ref == "" {
		return ""
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}

	base = strings.TrimRight(base, "/")
	if strings.HasPrefix(ref, "/") {
		return base + ref
	}

	return base + "/uploads/" + ref
}
