package weather

import "strings"

// KeyPrefix namespaces every cache entry written by this service.
const KeyPrefix = "weather:"

// NormalizeLocation turns a raw user-supplied location into the lookup key
// used for both cache reads and upstream queries. Spaces are replaced with
// their percent-encoded form so that the key can be spliced into a URL query
// string as-is; other characters pass through untouched, which keeps the
// mapping deterministic without committing to a full encoding scheme.
func NormalizeLocation(raw string) string {
	return strings.ReplaceAll(raw, " ", "%20")
}

// CacheKey returns the store key for a raw location.
func CacheKey(raw string) string {
	return KeyPrefix + NormalizeLocation(raw)
}
