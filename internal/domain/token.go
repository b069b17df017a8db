package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const bearerPrefix = "bearer "

// BareToken strips surrounding space and a case-insensitive "Bearer " prefix
// from an Authorization header value. A value without the prefix is
// returned as is.
func BareToken(header string) string {
	h := strings.TrimSpace(header)
	if len(h) >= len(bearerPrefix) && strings.EqualFold(h[:len(bearerPrefix)], bearerPrefix) {
		h = strings.TrimSpace(h[len(bearerPrefix):])
	}
	return h
}

// RevocationKey is the lookup key of a blacklist entry: the hex sha256 of
// the bare token. Every spelling of the same token maps to one key.
// It returns "" when there is no token.
func RevocationKey(tokenOrHeader string) string {
	bare := BareToken(tokenOrHeader)
	if bare == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(bare))
	return hex.EncodeToString(sum[:])
}
