package pulsetrans

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// Fingerprint derives the cache key for a (text, target language) pair.
// The category tag is deliberately excluded: identical text translates
// identically regardless of surrounding classification, so including it
// would only fragment the cache. A fingerprint identifies an immutable
// cache entry; changed text yields a new fingerprint, never an update.
func Fingerprint(text, targetLang string) string {
	return HashText(text) + ":" + NormalizeLang(targetLang)
}
