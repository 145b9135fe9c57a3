package skins

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	// maskPrefix is the fixed display prefix for masked keys.
	maskPrefix = "sk_live_"
	// maskToken replaces the middle of the key in masked display form.
	maskToken = "___"
)

// GenerateAPIKey derives a per-skin key from the owner, the uploaded
// filename and the current time in milliseconds. The time component makes
// repeated uploads of the same file yield distinct keys.
func GenerateAPIKey(ownerID, filename string) string {
	input := fmt.Sprintf("%s-%s-%d", ownerID, filename, time.Now().UnixMilli())
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])
}

// MaskAPIKey is the display-only transform for a stored key: the sentinel
// "N/A" for an absent key, otherwise the fixed prefix, a masking token and
// the key's last four characters. The stored key is never altered.
func MaskAPIKey(key string) string {
	if key == "" {
		return "N/A"
	}
	visible := key
	if len(key) > 4 {
		visible = key[len(key)-4:]
	}
	return maskPrefix + maskToken + visible
}
