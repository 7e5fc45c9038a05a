package id

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID32 returns a random 128-bit identifier as 32 lowercase hex
// characters, no separators. Used for trip, step, holder, actor and
// ledger transaction ids.
func NewID32() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
