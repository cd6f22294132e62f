package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

// ErrUnsafeKey is returned for keys that cannot be used as a file name
var ErrUnsafeKey = errors.New("cache key is not filesystem-safe")

// Cache stores raw API responses by key
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Fingerprint hashes the parts of a request into a fixed-length hex digest.
// Parts are separated by a NUL byte so ("ab","c") and ("a","bc") differ.
func Fingerprint(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(hash[:])
}

// Key builds a readable, bounded-length cache key: "<prefix>-<fingerprint>-<suffix>"
func Key(prefix, suffix string, parts ...string) string {
	return prefix + "-" + Fingerprint(parts...) + "-" + suffix
}
