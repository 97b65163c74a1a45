package util

import (
	"path/filepath"
	"strings"
)

var (
	videoExtensions = []string{".mp4", ".mov", ".mkv", ".webm", ".avi", ".m4v"}
	imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}
)

// IsValidVideoFile checks if a filename has a supported video extension
func IsValidVideoFile(filename string) bool {
	return hasExtension(filename, videoExtensions)
}

// IsValidImageFile checks if a filename has a supported image extension
func IsValidImageFile(filename string) bool {
	return hasExtension(filename, imageExtensions)
}

func hasExtension(filename string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}
