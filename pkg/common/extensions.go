package common

import "strings"

func IsImageFormat(url string) bool {
	url = strings.ToLower(url)
	return strings.HasSuffix(url, ".jpg") ||
		strings.HasSuffix(url, ".jpeg") ||
		strings.HasSuffix(url, ".png") ||
		strings.HasSuffix(url, ".gif") ||
		strings.HasSuffix(url, ".webp")
}

// IsRemote tells whether an image source has to be downloaded rather than read from disk.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http")
}
