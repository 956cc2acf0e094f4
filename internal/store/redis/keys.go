package redis

import "fmt"

const (
	// KeyPrefixPreview is the prefix for cached preview keys
	KeyPrefixPreview = "kyuubik:preview:"
)

// PreviewKey returns the Redis key for a cached preview by URL
func PreviewKey(url string) string {
	return KeyPrefixPreview + url
}

// ExtractPreviewURL extracts the URL from a preview key
func ExtractPreviewURL(key string) (string, error) {
	if len(key) <= len(KeyPrefixPreview) || key[:len(KeyPrefixPreview)] != KeyPrefixPreview {
		return "", fmt.Errorf("invalid preview key: %s", key)
	}
	return key[len(KeyPrefixPreview):], nil
}
